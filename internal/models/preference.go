package models

import "time"

// NotificationPreference holds the per-user real-time delivery toggles, one
// flag per coarse event family. A user without a row gets every push
// (fail-open default for new accounts); the row only exists once they opt
// out of something. Flags never gate persistence, only live delivery.
type NotificationPreference struct {
	ID             uint      `json:"-" gorm:"primaryKey"`
	UserID         uint      `json:"user_id" gorm:"uniqueIndex"`
	Reactions      bool      `json:"reactions" gorm:"default:true"`
	Comments       bool      `json:"comments" gorm:"default:true"`
	Mentions       bool      `json:"mentions" gorm:"default:true"`
	Follows        bool      `json:"follows" gorm:"default:true"`
	DirectMessages bool      `json:"direct_messages" gorm:"default:true"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DefaultNotificationPreference returns the flags applied when no row exists.
func DefaultNotificationPreference(userID uint) NotificationPreference {
	return NotificationPreference{
		UserID:         userID,
		Reactions:      true,
		Comments:       true,
		Mentions:       true,
		Follows:        true,
		DirectMessages: true,
	}
}

// UpdatePreferencesRequest updates all family flags at once.
type UpdatePreferencesRequest struct {
	Reactions      *bool `json:"reactions"`
	Comments       *bool `json:"comments"`
	Mentions       *bool `json:"mentions"`
	Follows        *bool `json:"follows"`
	DirectMessages *bool `json:"direct_messages"`
}
