package models

import (
	"time"

	"gorm.io/gorm"
)

type ChatMessage struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	ClassID   uint           `json:"class_id" gorm:"not null;index"`
	UserID    uint           `json:"user_id" gorm:"not null"`
	Body      string         `json:"body" gorm:"not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Class Class `json:"class,omitempty"`
	User  User  `json:"user,omitempty"`
}
