package models

import (
	"time"

	"gorm.io/gorm"
)

// Question types. Composite questions group child questions and are never
// scored themselves; their children carry ParentID.
const (
	QuestionSingle    = "single"
	QuestionMultiple  = "multiple"
	QuestionText      = "text"
	QuestionDrag      = "drag"
	QuestionComposite = "composite"
)

type Question struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	QuizID         uint           `json:"quiz_id" gorm:"not null"`
	ParentID       *uint          `json:"parent_id" gorm:"index"`
	Type           string         `json:"type" gorm:"not null;default:'single'"`
	Text           string         `json:"text" gorm:"not null"`
	Position       int            `json:"position" gorm:"not null;default:0"`
	Options        string         `json:"options"`         // JSON, shape depends on Type
	CorrectAnswers string         `json:"correct_answers"` // JSON, shape depends on Type
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Quiz     Quiz       `json:"quiz,omitempty"`
	Children []Question `json:"children,omitempty" gorm:"foreignKey:ParentID"`
}
