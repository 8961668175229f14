package services

import (
	"encoding/json"
	"errors"
	"testing"

	"quizdeck/models"
)

func TestCreateQuizWithTypedQuestions(t *testing.T) {
	db := newTestDB(t)
	access := NewAccessService(db)
	svc := NewQuizService(db, access)

	owner := createUser(t, db, "owner")
	class := createClass(t, db, owner.ID, false)

	quiz, err := svc.CreateQuiz(owner.ID, &CreateQuizRequest{
		ClassID: class.ID,
		Title:   "Geography",
		Questions: []CreateQuestionRequest{
			{Text: "Capital of France?", Type: models.QuestionText, Position: 1, CorrectAnswers: json.RawMessage(`["Paris"]`)},
			{
				Text:     "Match the capitals",
				Type:     models.QuestionComposite,
				Position: 2,
				Children: []CreateQuestionRequest{
					{Text: "Capital of Spain?", Type: models.QuestionSingle, Position: 1, CorrectAnswers: json.RawMessage(`["Madrid"]`)},
					{Text: "Capital of Italy?", Type: models.QuestionSingle, Position: 2, CorrectAnswers: json.RawMessage(`["Rome"]`)},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("CreateQuiz failed: %v", err)
	}

	if len(quiz.Questions) != 2 {
		t.Fatalf("expected 2 top-level questions, got %d", len(quiz.Questions))
	}
	composite := quiz.Questions[1]
	if composite.Type != models.QuestionComposite || len(composite.Children) != 2 {
		t.Errorf("expected composite with 2 children, got %+v", composite)
	}
	for _, child := range composite.Children {
		if child.ParentID == nil || *child.ParentID != composite.ID {
			t.Errorf("child %d should point at composite %d", child.ID, composite.ID)
		}
	}
}

func TestCreateQuizValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db, NewAccessService(db))

	owner := createUser(t, db, "owner")
	other := createUser(t, db, "other")
	class := createClass(t, db, owner.ID, false)

	tests := []struct {
		name string
		user uint
		req  CreateQuizRequest
	}{
		{
			"not class owner",
			other.ID,
			CreateQuizRequest{ClassID: class.ID, Title: "x", Questions: []CreateQuestionRequest{
				{Text: "q", Type: models.QuestionText, CorrectAnswers: json.RawMessage(`["a"]`)},
			}},
		},
		{
			"single needs exactly one answer",
			owner.ID,
			CreateQuizRequest{ClassID: class.ID, Title: "x", Questions: []CreateQuestionRequest{
				{Text: "q", Type: models.QuestionSingle, CorrectAnswers: json.RawMessage(`["a","b"]`)},
			}},
		},
		{
			"composite needs children",
			owner.ID,
			CreateQuizRequest{ClassID: class.ID, Title: "x", Questions: []CreateQuestionRequest{
				{Text: "q", Type: models.QuestionComposite},
			}},
		},
		{
			"drag needs items",
			owner.ID,
			CreateQuizRequest{ClassID: class.ID, Title: "x", Questions: []CreateQuestionRequest{
				{Text: "q", Type: models.QuestionDrag, Options: json.RawMessage(`{"items":[]}`)},
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateQuiz(tt.user, &tt.req); err == nil {
				t.Error("expected CreateQuiz to fail")
			}
		})
	}
}

func TestGetQuizStripsAnswersForNonOwners(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db, NewAccessService(db))

	owner := createUser(t, db, "owner")
	reader := createUser(t, db, "reader")
	class := createClass(t, db, owner.ID, true)
	quiz := createQuiz(t, db, class.ID, owner.ID, true)
	createQuestion(t, db, quiz.ID, nil, models.QuestionSingle, "", `["B"]`)

	got, err := svc.GetQuizByID(owner.ID, quiz.ID)
	if err != nil {
		t.Fatalf("GetQuizByID failed: %v", err)
	}
	if got.Questions[0].CorrectAnswers == "" {
		t.Error("owner should see correct answers")
	}

	got, err = svc.GetQuizByID(reader.ID, quiz.ID)
	if err != nil {
		t.Fatalf("GetQuizByID failed: %v", err)
	}
	if got.Questions[0].CorrectAnswers != "" {
		t.Error("non-owner must not see correct answers")
	}
}

func TestDeleteQuizCleansVisibilityRows(t *testing.T) {
	db := newTestDB(t)
	vis := NewVisibilityService(db)
	svc := NewQuizService(db, NewAccessService(db))

	owner := createUser(t, db, "owner")
	class := createClass(t, db, owner.ID, false)
	quiz := createQuiz(t, db, class.ID, owner.ID, false)
	createQuestion(t, db, quiz.ID, nil, models.QuestionSingle, "", `["A"]`)

	if err := vis.SetPublic(owner.ID, models.TargetQuiz, quiz.ID, true); err != nil {
		t.Fatalf("SetPublic failed: %v", err)
	}
	if err := vis.SetShare(owner.ID, models.TargetQuiz, quiz.ID, true); err != nil {
		t.Fatalf("SetShare failed: %v", err)
	}

	if err := svc.DeleteQuiz(owner.ID, quiz.ID); err != nil {
		t.Fatalf("DeleteQuiz failed: %v", err)
	}

	if hasPublicItem(t, db, models.TargetQuiz, quiz.ID) {
		t.Error("public item should be removed with the quiz")
	}
	var shares int64
	if err := db.Model(&models.ShareItem{}).
		Where("target_type = ? AND target_id = ?", models.TargetQuiz, quiz.ID).
		Count(&shares).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if shares != 0 {
		t.Error("share item should be removed with the quiz")
	}

	if _, err := svc.GetQuizByID(owner.ID, quiz.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
