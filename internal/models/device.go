package models

import "time"

// DeviceToken links a user to an FCM registration token. Used as the push
// fallback when a user has no live websocket connections.
type DeviceToken struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index"`
	Token     string    `json:"token" gorm:"size:255;uniqueIndex"`
	Platform  string    `json:"platform" gorm:"size:20"` // ios, android, web
	CreatedAt time.Time `json:"created_at"`
}

// RegisterDeviceRequest defines the request body for registering a device token
type RegisterDeviceRequest struct {
	Token    string `json:"token" validate:"required"`
	Platform string `json:"platform" validate:"required,oneof=ios android web"`
}
