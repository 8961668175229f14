package models

import (
	"time"
)

// ShareItem records that share-by-link is enabled for a class or quiz.
// One row per target; Code is the claimable share code.
type ShareItem struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	TargetType string    `json:"target_type" gorm:"not null;uniqueIndex:idx_share_target"`
	TargetID   uint      `json:"target_id" gorm:"not null;uniqueIndex:idx_share_target"`
	UserID     uint      `json:"user_id" gorm:"not null"`
	Code       string    `json:"code" gorm:"uniqueIndex;not null"`
	CreatedAt  time.Time `json:"created_at"`
}
