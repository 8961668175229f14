package models

import (
	"time"

	"gorm.io/gorm"
)

type Class struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	UserID      uint           `json:"user_id" gorm:"not null"`
	Name        string         `json:"name" gorm:"not null"`
	Description string         `json:"description"`
	IsPublic    bool           `json:"is_public" gorm:"not null;default:false"` // legacy mirror of the public listing
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	User    User   `json:"user,omitempty"`
	Quizzes []Quiz `json:"quizzes,omitempty" gorm:"foreignKey:ClassID"`
}
