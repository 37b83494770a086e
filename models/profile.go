package models

import "time"

// Profile is a local snapshot of user data needed by the game service:
// the display name shown on the leaderboard and the user's uploaded
// image URLs for the "custom" theme. Username is refreshed from the
// auth provider by the profile sync worker.
type Profile struct {
	UserID       string    `json:"user_id" gorm:"primaryKey;type:uuid"`
	Username     string    `json:"username" gorm:"index"`
	CustomImages []string  `json:"custom_images" gorm:"serializer:json"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
