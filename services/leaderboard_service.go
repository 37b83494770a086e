package services

import (
	"errors"
	"time"

	"memory-match-service/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LeaderboardService struct {
	DB *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{DB: db}
}

// Merge folds one completed game into the user's record: first win
// creates the row verbatim, later wins increment the counter and keep
// the running minimum of time and moves. A nil existing best means "no
// bound yet", so the sample wins. Runs on the caller's tx so the
// completion protocol can pair it with the session delete.
func (l *LeaderboardService) Merge(tx *gorm.DB, userID, username string, elapsed float64, moves int, playedAt time.Time) error {
	row := models.LeaderboardRecord{
		UserID:     userID,
		Username:   username,
		Wins:       1,
		BestTime:   &elapsed,
		BestMoves:  &moves,
		LastPlayed: playedAt,
	}

	var prev models.LeaderboardRecord
	err := tx.First(&prev, "user_id = ?", userID).Error
	if err == nil {
		row.Wins = prev.Wins + 1
		if prev.BestTime != nil && *prev.BestTime < elapsed {
			row.BestTime = prev.BestTime
		}
		if prev.BestMoves != nil && *prev.BestMoves < moves {
			row.BestMoves = prev.BestMoves
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(&row).Error
}

// GetLeaderboard returns the ranked record list: fastest best time
// first, ties broken by fewest moves, never-bounded rows last.
func (l *LeaderboardService) GetLeaderboard(c *fiber.Ctx) error {
	var rows []models.LeaderboardRecord
	if err := l.DB.
		Order("best_time ASC NULLS LAST").
		Order("best_moves ASC NULLS LAST").
		Limit(50).
		Find(&rows).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "db error", "detail": err.Error()})
	}

	return c.JSON(fiber.Map{"rows": rows})
}
