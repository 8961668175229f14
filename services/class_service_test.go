package services

import (
	"errors"
	"testing"

	"quizdeck/models"
)

func TestClassCRUD(t *testing.T) {
	db := newTestDB(t)
	svc := NewClassService(db, NewAccessService(db))

	owner := createUser(t, db, "owner")
	other := createUser(t, db, "other")

	class, err := svc.CreateClass(owner.ID, &CreateClassRequest{Name: "Chemistry"})
	if err != nil {
		t.Fatalf("CreateClass failed: %v", err)
	}

	if _, err := svc.GetClassByID(other.ID, class.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger should be forbidden, got %v", err)
	}
	if _, err := svc.GetClassByID(owner.ID, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing class should be ErrNotFound, got %v", err)
	}

	if _, err := svc.UpdateClass(other.ID, class.ID, &UpdateClassRequest{Name: "Hijacked"}); !errors.Is(err, ErrForbidden) {
		t.Errorf("non-owner update should be forbidden, got %v", err)
	}
	updated, err := svc.UpdateClass(owner.ID, class.ID, &UpdateClassRequest{Name: "Chemistry II"})
	if err != nil || updated.Name != "Chemistry II" {
		t.Errorf("UpdateClass got %+v, err=%v", updated, err)
	}
}

func TestDeleteClassCascades(t *testing.T) {
	db := newTestDB(t)
	vis := NewVisibilityService(db)
	svc := NewClassService(db, NewAccessService(db))

	owner := createUser(t, db, "owner")
	learner := createUser(t, db, "learner")
	class := createClass(t, db, owner.ID, false)
	quiz := createQuiz(t, db, class.ID, owner.ID, false)
	createQuestion(t, db, quiz.ID, nil, models.QuestionSingle, "", `["A"]`)

	if err := vis.SetPublic(owner.ID, models.TargetClass, class.ID, true); err != nil {
		t.Fatalf("SetPublic failed: %v", err)
	}
	if err := vis.SetShare(owner.ID, models.TargetClass, class.ID, true); err != nil {
		t.Fatalf("SetShare failed: %v", err)
	}
	if _, err := vis.Claim(learner.ID, &ClaimRequest{ClassID: class.ID}); err != nil {
		t.Fatalf("Claim failed: %v", err)
	}

	if err := svc.DeleteClass(owner.ID, class.ID); err != nil {
		t.Fatalf("DeleteClass failed: %v", err)
	}

	var counts = map[string]int64{}
	for name, model := range map[string]interface{}{
		"quizzes":         &models.Quiz{},
		"questions":       &models.Question{},
		"public items":    &models.PublicItem{},
		"share items":     &models.ShareItem{},
		"shared accesses": &models.SharedAccess{},
	} {
		var count int64
		if err := db.Model(model).Count(&count).Error; err != nil {
			t.Fatalf("count %s failed: %v", name, err)
		}
		counts[name] = count
	}
	for name, count := range counts {
		if count != 0 {
			t.Errorf("expected no %s left after class delete, got %d", name, count)
		}
	}
}
