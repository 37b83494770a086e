package models

import (
	"time"

	"memory-match-service/game"
)

// GameState is the single live session per user. Created by start,
// rewritten on every click/resolve/save, deleted on completion,
// give-up, or reset. The board is stored as a typed JSON column so the
// engine never touches untyped blobs.
type GameState struct {
	UserID      string     `json:"user_id" gorm:"primaryKey;type:uuid"`
	Board       game.Board `json:"board" gorm:"serializer:json"`
	Matched     []int      `json:"matched" gorm:"serializer:json"`
	Moves       int        `json:"moves" gorm:"default:0"`
	TimeStarted time.Time  `json:"time_started"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}
