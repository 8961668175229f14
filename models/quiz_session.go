package models

import (
	"time"

	"gorm.io/gorm"
)

// QuizSession is one graded submission of a quiz by a user. Created once at
// submission time and immutable afterwards.
type QuizSession struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	UUID           string         `json:"uuid" gorm:"uniqueIndex;not null"`
	QuizID         uint           `json:"quiz_id" gorm:"not null;index"`
	UserID         uint           `json:"user_id" gorm:"not null;index"`
	Score          int            `json:"score" gorm:"not null"`
	TotalQuestions int            `json:"total_questions" gorm:"not null"`
	TimeSpent      int            `json:"time_spent" gorm:"not null"` // seconds
	Answers        string         `json:"answers"`                    // raw submitted answers, JSON
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Quiz Quiz `json:"quiz,omitempty"`
	User User `json:"user,omitempty"`
}
