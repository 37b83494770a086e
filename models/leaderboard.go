package models

import "time"

// LeaderboardRecord is the one-row-per-user win record. Wins only ever
// goes up; BestTime/BestMoves only ever go down (running minimums).
// Nil BestTime/BestMoves mean "no bound yet" — such rows sort last.
type LeaderboardRecord struct {
	UserID     string    `json:"user_id" gorm:"primaryKey;type:uuid"`
	Username   string    `json:"username" gorm:"index;not null"`
	Wins       int       `json:"wins" gorm:"default:0"`
	BestTime   *float64  `json:"best_time"`
	BestMoves  *int      `json:"best_moves"`
	LastPlayed time.Time `json:"last_played"`
}
