package models

import (
	"time"
)

// Visibility target types shared by PublicItem, ShareItem and SharedAccess.
const (
	TargetClass = "class"
	TargetQuiz  = "quiz"
)

// PublicItem is the canonical record that a class or quiz is publicly listed.
// At most one row exists per (target_type, target_id).
type PublicItem struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	TargetType string    `json:"target_type" gorm:"not null;uniqueIndex:idx_public_target"`
	TargetID   uint      `json:"target_id" gorm:"not null;uniqueIndex:idx_public_target"`
	CreatedAt  time.Time `json:"created_at"`
}
