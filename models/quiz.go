package models

import (
	"time"

	"gorm.io/gorm"
)

type Quiz struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	ClassID     uint           `json:"class_id" gorm:"not null"`
	UserID      uint           `json:"user_id" gorm:"not null"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description"`
	Published   bool           `json:"published" gorm:"not null;default:false"` // legacy mirror of the public listing
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Class     Class         `json:"class,omitempty"`
	User      User          `json:"user,omitempty"`
	Questions []Question    `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
	Sessions  []QuizSession `json:"sessions,omitempty" gorm:"foreignKey:QuizID"`
}
