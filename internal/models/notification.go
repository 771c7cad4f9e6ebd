package models

import "time"

// Notification represents a durable per-user notification (PostgreSQL).
// Rows are written once by the dispatcher; the only mutation afterwards is
// flipping the read state.
type Notification struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Type        string     `json:"type" gorm:"size:30;index"`
	ActorID     uint       `json:"actor_id" gorm:"index"`
	RecipientID uint       `json:"recipient_id" gorm:"index"`
	TargetID    string     `json:"target_id"`                  // post ID, comment ID, user ID, etc.
	TargetType  string     `json:"target_type" gorm:"size:20"` // post, comment, user
	Content     string     `json:"content"`
	ActionURL   string     `json:"action_url"`
	IsRead      bool       `json:"is_read" gorm:"default:false;index"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"index"`
}
