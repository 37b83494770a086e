package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"memory-match-service/game"
	"memory-match-service/models"
)

func TestSweepStaleSessions(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.GameState{}))

	s := NewSessionService(db, NewLeaderboardService(db))

	board := game.Generate(game.DefaultImages(), 8)
	require.NoError(t, db.Create(&models.GameState{
		UserID:      "stale-user",
		Board:       board,
		Matched:     []int{},
		TimeStarted: time.Now().Add(-60 * 24 * time.Hour),
	}).Error)
	require.NoError(t, db.Create(&models.GameState{
		UserID:      "active-user",
		Board:       board,
		Matched:     []int{},
		TimeStarted: time.Now(),
	}).Error)

	// push the stale row's updated_at past the cutoff; UpdateColumn skips
	// the auto-update hook
	require.NoError(t, db.Model(&models.GameState{}).
		Where("user_id = ?", "stale-user").
		UpdateColumn("updated_at", time.Now().Add(-31*24*time.Hour)).Error)

	s.sweepStaleSessions()

	var remaining []models.GameState
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "active-user", remaining[0].UserID)
}
