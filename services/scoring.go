package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"quizdeck/models"
)

// Grading is deliberately tolerant of malformed question data: a question
// whose options or answer key fail to decode grades as "never correct"
// instead of failing the whole submission.

type dragItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type dragOptions struct {
	Items   []dragItem `json:"items"`
	Targets []dragItem `json:"targets"`
}

// flattenLeaves expands the question tree into the list of questions that are
// actually graded. Composite parents are replaced in place by their children
// and never appear in the result.
func flattenLeaves(questions []models.Question) []models.Question {
	children := make(map[uint][]models.Question)
	var topLevel []models.Question
	for _, q := range questions {
		if q.ParentID != nil {
			children[*q.ParentID] = append(children[*q.ParentID], q)
			continue
		}
		topLevel = append(topLevel, q)
	}

	var leaves []models.Question
	for _, q := range topLevel {
		if q.Type == models.QuestionComposite {
			leaves = append(leaves, children[q.ID]...)
			continue
		}
		leaves = append(leaves, q)
	}
	return leaves
}

// gradeQuestion reports whether the submitted value answers the question
// correctly. Missing submissions grade against the zero value for the type.
func gradeQuestion(q models.Question, submitted interface{}) bool {
	switch q.Type {
	case models.QuestionText:
		return gradeText(q, submitted)
	case models.QuestionDrag:
		return gradeDrag(q, submitted)
	case models.QuestionComposite:
		// Composites are filtered out by flattenLeaves; a stray one is never correct.
		return false
	default: // single, multiple
		return gradeChoice(q, submitted)
	}
}

// gradeText compares the submission against every accepted answer,
// case-insensitively and ignoring surrounding whitespace. Exact match only,
// no substring credit.
func gradeText(q models.Question, submitted interface{}) bool {
	value := submitted
	if arr, ok := submitted.([]interface{}); ok {
		if len(arr) == 0 {
			value = nil
		} else {
			value = arr[0]
		}
	}
	given := normalizeText(stringify(value))

	for _, answer := range decodeStringAnswers(q.CorrectAnswers) {
		if normalizeText(answer) == given {
			return true
		}
	}
	return false
}

// gradeDrag checks that every draggable item landed on its expected target.
// The question's item list is authoritative: if it is empty the question can
// never be correct, even against an empty submission. "Dragged nowhere" and
// "no expected target" both normalize to the unassigned sentinel and match
// each other.
func gradeDrag(q models.Question, submitted interface{}) bool {
	opts := decodeDragOptions(q.Options)
	if len(opts.Items) == 0 {
		return false
	}

	given := submittedMapping(submitted)
	expected := decodeDragKey(q.CorrectAnswers)

	for _, item := range opts.Items {
		// A missing key on either side reads as the empty sentinel.
		if normalizeSlot(given[item.ID]) != expected[item.ID] {
			return false
		}
	}
	return true
}

// gradeChoice grades single and multiple choice questions by true set
// equality: duplicates in the submission can never substitute for a missing
// answer.
func gradeChoice(q models.Question, submitted interface{}) bool {
	arr, ok := submitted.([]interface{})
	if !ok {
		arr = nil
	}
	correct := decodeStringAnswers(q.CorrectAnswers)
	if len(correct) == 0 {
		return false
	}

	givenSet := make(map[string]struct{}, len(arr))
	for _, v := range arr {
		givenSet[stringify(v)] = struct{}{}
	}
	correctSet := make(map[string]struct{}, len(correct))
	for _, v := range correct {
		correctSet[v] = struct{}{}
	}

	if len(arr) != len(correct) || len(givenSet) != len(correctSet) {
		return false
	}
	for v := range correctSet {
		if _, ok := givenSet[v]; !ok {
			return false
		}
	}
	return true
}

func decodeStringAnswers(raw string) []string {
	if raw == "" {
		return nil
	}
	var answers []string
	if err := json.Unmarshal([]byte(raw), &answers); err != nil {
		return nil
	}
	return answers
}

func decodeDragKey(raw string) map[string]string {
	if raw == "" {
		return map[string]string{}
	}
	var key map[string]string
	if err := json.Unmarshal([]byte(raw), &key); err != nil {
		return map[string]string{}
	}
	return key
}

func decodeDragOptions(raw string) dragOptions {
	var opts dragOptions
	if raw == "" {
		return opts
	}
	if err := json.Unmarshal([]byte(raw), &opts); err != nil {
		return dragOptions{}
	}
	return opts
}

func submittedMapping(v interface{}) map[string]interface{} {
	m, ok := v.(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	return m
}

func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// normalizeSlot maps nil and empty values to the unassigned sentinel.
func normalizeSlot(v interface{}) string {
	if v == nil {
		return ""
	}
	return stringify(v)
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
