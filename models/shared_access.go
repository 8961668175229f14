package models

import (
	"time"
)

// SharedAccess records that a user has claimed read-only access to a shared
// class or quiz. Unique on the (user, target_type, target_id) triple.
type SharedAccess struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_shared_access"`
	TargetType string    `json:"target_type" gorm:"not null;uniqueIndex:idx_shared_access"`
	TargetID   uint      `json:"target_id" gorm:"not null;uniqueIndex:idx_shared_access"`
	CreatedAt  time.Time `json:"created_at"`
}
