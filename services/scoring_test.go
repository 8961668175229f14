package services

import (
	"testing"

	"quizdeck/models"
)

func TestGradeText(t *testing.T) {
	question := models.Question{Type: models.QuestionText, CorrectAnswers: `["Paris"]`}

	tests := []struct {
		name      string
		submitted interface{}
		want      bool
	}{
		{"exact", "Paris", true},
		{"padded and lowercase", " paris ", true},
		{"wrong answer", "London", false},
		{"substring is not a match", "Paris France", false},
		{"array takes first element", []interface{}{"PARIS", "London"}, true},
		{"empty array", []interface{}{}, false},
		{"nil submission", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gradeText(question, tt.submitted); got != tt.want {
				t.Errorf("gradeText() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGradeTextAcceptsAnyAnswer(t *testing.T) {
	question := models.Question{Type: models.QuestionText, CorrectAnswers: `["four", "4"]`}
	if !gradeText(question, "4") {
		t.Error("any listed answer should grade correct")
	}
}

func TestGradeDrag(t *testing.T) {
	question := models.Question{
		Type:           models.QuestionDrag,
		Options:        `{"items":[{"id":"a"},{"id":"b"}]}`,
		CorrectAnswers: `{"a":"x","b":"y"}`,
	}

	tests := []struct {
		name      string
		submitted interface{}
		want      bool
	}{
		{"all placed correctly", map[string]interface{}{"a": "x", "b": "y"}, true},
		{"one item unassigned", map[string]interface{}{"a": "x"}, false},
		{"one item wrong", map[string]interface{}{"a": "x", "b": "z"}, false},
		{"non-object submission", "garbage", false},
		{"nil submission", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gradeDrag(question, tt.submitted); got != tt.want {
				t.Errorf("gradeDrag() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGradeDragUnassignedMatchesNoTarget(t *testing.T) {
	// Item "b" has no expected target; leaving it unplaced must count.
	question := models.Question{
		Type:           models.QuestionDrag,
		Options:        `{"items":[{"id":"a"},{"id":"b"}]}`,
		CorrectAnswers: `{"a":"x"}`,
	}
	if !gradeDrag(question, map[string]interface{}{"a": "x"}) {
		t.Error("unplaced item with no expected target should match")
	}
	if !gradeDrag(question, map[string]interface{}{"a": "x", "b": ""}) {
		t.Error("empty string placement should normalize to unassigned")
	}
	if !gradeDrag(question, map[string]interface{}{"a": "x", "b": nil}) {
		t.Error("nil placement should normalize to unassigned")
	}
}

func TestGradeDragEmptyItemsFailsClosed(t *testing.T) {
	question := models.Question{
		Type:           models.QuestionDrag,
		Options:        `{"items":[]}`,
		CorrectAnswers: `{}`,
	}
	if gradeDrag(question, map[string]interface{}{}) {
		t.Error("a drag question without items can never be correct")
	}

	malformed := models.Question{Type: models.QuestionDrag, Options: `{{{`, CorrectAnswers: `{}`}
	if gradeDrag(malformed, map[string]interface{}{}) {
		t.Error("malformed options must degrade to never-correct")
	}
}

func TestGradeChoice(t *testing.T) {
	question := models.Question{Type: models.QuestionMultiple, CorrectAnswers: `["a","b"]`}

	tests := []struct {
		name      string
		submitted interface{}
		want      bool
	}{
		{"exact set", []interface{}{"a", "b"}, true},
		{"order irrelevant", []interface{}{"b", "a"}, true},
		{"missing option", []interface{}{"a"}, false},
		{"extra option", []interface{}{"a", "b", "c"}, false},
		{"duplicate cannot stand in for missing", []interface{}{"a", "a"}, false},
		{"non-array submission", "a", false},
		{"nil submission", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gradeChoice(question, tt.submitted); got != tt.want {
				t.Errorf("gradeChoice() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGradeChoiceSingle(t *testing.T) {
	question := models.Question{Type: models.QuestionSingle, CorrectAnswers: `["B"]`}
	if !gradeChoice(question, []interface{}{"B"}) {
		t.Error("single choice exact match should be correct")
	}
	if gradeChoice(question, []interface{}{"A"}) {
		t.Error("wrong single choice should be incorrect")
	}
	if gradeChoice(question, []interface{}{}) {
		t.Error("empty submission should be incorrect")
	}
}

func TestGradeChoiceMalformedKey(t *testing.T) {
	question := models.Question{Type: models.QuestionSingle, CorrectAnswers: `not json`}
	if gradeChoice(question, []interface{}{"A"}) {
		t.Error("malformed answer key must degrade to never-correct")
	}
}

func TestGradeChoiceEmptyKeyFailsClosed(t *testing.T) {
	question := models.Question{Type: models.QuestionMultiple, CorrectAnswers: `[]`}
	if gradeChoice(question, []interface{}{}) {
		t.Error("an empty answer key must never grade correct")
	}
	if gradeChoice(question, nil) {
		t.Error("an empty answer key must never grade correct")
	}
}

func TestFlattenLeaves(t *testing.T) {
	parentID := uint(10)
	questions := []models.Question{
		{ID: 1, Type: models.QuestionSingle},
		{ID: 10, Type: models.QuestionComposite},
		{ID: 11, Type: models.QuestionText, ParentID: &parentID},
		{ID: 12, Type: models.QuestionSingle, ParentID: &parentID},
		{ID: 2, Type: models.QuestionDrag},
	}

	leaves := flattenLeaves(questions)
	if len(leaves) != 4 {
		t.Fatalf("expected 4 leaves, got %d", len(leaves))
	}
	wantOrder := []uint{1, 11, 12, 2}
	for i, want := range wantOrder {
		if leaves[i].ID != want {
			t.Errorf("leaf %d = question %d, want %d", i, leaves[i].ID, want)
		}
	}
	for _, leaf := range leaves {
		if leaf.Type == models.QuestionComposite {
			t.Error("composite questions must never appear in the leaf list")
		}
	}
}

func TestFlattenLeavesCompositeOnly(t *testing.T) {
	parentID := uint(1)
	questions := []models.Question{
		{ID: 1, Type: models.QuestionComposite},
		{ID: 2, Type: models.QuestionSingle, ParentID: &parentID},
		{ID: 3, Type: models.QuestionSingle, ParentID: &parentID},
	}

	leaves := flattenLeaves(questions)
	if len(leaves) != 2 {
		t.Fatalf("composite with 2 children should flatten to 2 leaves, got %d", len(leaves))
	}
}
