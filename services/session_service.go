package services

import (
	"errors"
	"log"
	"math"
	"time"

	"memory-match-service/game"
	"memory-match-service/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionService owns the per-user game lifecycle: start, click,
// resolve, save, give-up, reset, load. All state lives in the
// game_states table between requests; the upsert-by-user-id is the
// only serialization point for racing requests of the same user.
type SessionService struct {
	DB          *gorm.DB
	Leaderboard *LeaderboardService
}

func NewSessionService(db *gorm.DB, leaderboard *LeaderboardService) *SessionService {
	return &SessionService{DB: db, Leaderboard: leaderboard}
}

// Start generates a fresh board for the requested difficulty and theme
// and replaces any previous session for the user. An abandoned game
// earns no leaderboard credit.
func (s *SessionService) Start(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var input struct {
		Difficulty string `json:"difficulty"`
		Theme      string `json:"theme"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}
	if input.Difficulty == "" {
		input.Difficulty = "4x4"
	}
	if input.Theme == "" {
		input.Theme = "fruits"
	}

	pairCount := game.PairCountFor(input.Difficulty)

	images := game.ThemeImages(input.Theme)
	if input.Theme == "custom" {
		var profile models.Profile
		if err := s.DB.First(&profile, "user_id = ?", userID).Error; err == nil && len(profile.CustomImages) > 0 {
			images = profile.CustomImages
		}
	}
	// Short image sets (typically custom uploads) are topped up with defaults.
	images = game.PadImages(images, pairCount)

	now := time.Now()
	state := models.GameState{
		UserID:      userID,
		Board:       game.Generate(images, pairCount),
		Matched:     []int{},
		Moves:       0,
		TimeStarted: now,
		UpdatedAt:   now,
	}

	if err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(&state).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "db error", "detail": err.Error()})
	}

	return c.JSON(fiber.Map{
		"board":   state.Board,
		"matched": state.Matched,
		"moves":   state.Moves,
	})
}

// Click flips one tile. A move is counted only when the flip actually
// changed the board — repeated or invalid clicks are free. With two
// tiles open the intermediate state is persisted and the client is told
// to follow up with a resolve call.
func (s *SessionService) Click(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var input struct {
		Index *int `json:"index"`
	}
	if err := c.BodyParser(&input); err != nil || input.Index == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	state, err := s.loadState(userID)
	if err != nil {
		return s.stateError(c, err)
	}

	board, changed := game.Flip(state.Board, *input.Index)
	moves := state.Moves
	if changed {
		moves++
	}

	open := game.OpenIndices(board)
	matched := game.MatchedPairIDs(board)

	if len(open) == 2 {
		if err := s.persistProgress(userID, board, matched, moves, state.TimeStarted); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "db error", "detail": err.Error()})
		}
		return c.JSON(fiber.Map{
			"board":            board,
			"matched":          matched,
			"moves":            moves,
			"completed":        false,
			"needs_resolution": true,
		})
	}

	if game.IsComplete(board) {
		return s.complete(c, userID, board, matched, moves, state.TimeStarted)
	}

	if err := s.persistProgress(userID, board, matched, moves, state.TimeStarted); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "db error", "detail": err.Error()})
	}
	return c.JSON(fiber.Map{
		"board":     board,
		"matched":   matched,
		"moves":     moves,
		"completed": false,
	})
}

// Resolve settles a persisted pending pair: a match locks both tiles,
// a mismatch flips both back down. This is the only operation that
// flips tiles face down, and it is safe to call whenever a pending
// state was persisted, regardless of client-side pacing.
func (s *SessionService) Resolve(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	state, err := s.loadState(userID)
	if err != nil {
		return s.stateError(c, err)
	}

	board := game.ResolvePending(state.Board)
	matched := game.MatchedPairIDs(board)

	if game.IsComplete(board) {
		return s.complete(c, userID, board, matched, state.Moves, state.TimeStarted)
	}

	if err := s.persistProgress(userID, board, matched, state.Moves, state.TimeStarted); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "db error", "detail": err.Error()})
	}
	return c.JSON(fiber.Map{
		"board":     board,
		"matched":   matched,
		"moves":     state.Moves,
		"completed": false,
	})
}

// Save overwrites the stored board/progress for a client resync.
// time_started is deliberately not in the update column list: a resync
// must never reset the elapsed-time accounting of a running game.
func (s *SessionService) Save(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var input struct {
		Board   game.Board `json:"board"`
		Matched []int      `json:"matched"`
		Moves   int        `json:"moves"`
	}
	if err := c.BodyParser(&input); err != nil || input.Board == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}
	if input.Matched == nil {
		input.Matched = []int{}
	}

	state := models.GameState{
		UserID:      userID,
		Board:       input.Board,
		Matched:     input.Matched,
		Moves:       input.Moves,
		TimeStarted: time.Now(), // only used when no row existed yet
		UpdatedAt:   time.Now(),
	}
	if err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"board", "matched", "moves", "updated_at"}),
	}).Create(&state).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "db error", "detail": err.Error()})
	}

	return c.JSON(fiber.Map{"ok": true})
}

// GiveUp reveals the whole board for one last render, deletes the
// session, and awards nothing. No session is not an error.
func (s *SessionService) GiveUp(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	state, err := s.loadState(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(fiber.Map{"ok": true})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "db error", "detail": err.Error()})
	}

	board := game.RevealAll(state.Board)

	if err := s.DB.Delete(&models.GameState{}, "user_id = ?", userID).Error; err != nil {
		log.Printf("[GIVEUP] failed to delete session for %s: %v", userID, err)
	}

	return c.JSON(fiber.Map{
		"board":   board,
		"matched": state.Matched,
		"moves":   state.Moves,
		"gaveUp":  true,
	})
}

// Reset deletes any stored session. Idempotent.
func (s *SessionService) Reset(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := s.DB.Delete(&models.GameState{}, "user_id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "db error", "detail": err.Error()})
	}
	return c.JSON(fiber.Map{"ok": true})
}

// Load returns the stored session. 404 is the client's signal to start
// a new game.
func (s *SessionService) Load(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	state, err := s.loadState(userID)
	if err != nil {
		return s.stateError(c, err)
	}

	return c.JSON(fiber.Map{
		"board":   state.Board,
		"matched": state.Matched,
		"moves":   state.Moves,
	})
}

// complete runs the completion protocol: compute the elapsed time,
// resolve the display name, merge the win into the leaderboard, and
// delete the session. Merge and delete run in one transaction so a
// crash can never drop the win while losing the session; re-running
// completion on a still-present session is safe (it merges again).
func (s *SessionService) complete(c *fiber.Ctx, userID string, board game.Board, matched []int, moves int, started time.Time) error {
	end := time.Now()
	secs := elapsedSeconds(started, end)

	username := "Unknown"
	var profile models.Profile
	if err := s.DB.First(&profile, "user_id = ?", userID).Error; err == nil && profile.Username != "" {
		username = profile.Username
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Leaderboard.Merge(tx, userID, username, secs, moves, end); err != nil {
			return err
		}
		return tx.Delete(&models.GameState{}, "user_id = ?", userID).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "db error", "detail": err.Error()})
	}

	log.Printf("🏆 [GAME WON] user=%s (%s) time=%.2fs moves=%d", username, userID, secs, moves)

	return c.JSON(fiber.Map{
		"board":     board,
		"matched":   matched,
		"moves":     moves,
		"completed": true,
	})
}

// persistProgress rewrites the user's row while keeping time_started
// from the loaded session.
func (s *SessionService) persistProgress(userID string, board game.Board, matched []int, moves int, started time.Time) error {
	state := models.GameState{
		UserID:      userID,
		Board:       board,
		Matched:     matched,
		Moves:       moves,
		TimeStarted: started,
		UpdatedAt:   time.Now(),
	}
	return s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(&state).Error
}

func (s *SessionService) loadState(userID string) (*models.GameState, error) {
	var state models.GameState
	if err := s.DB.First(&state, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	if state.Matched == nil {
		state.Matched = []int{}
	}
	return &state, nil
}

// stateError maps a loadState failure to the right response: a missing
// session is an ordinary 404, anything else is a storage failure.
func (s *SessionService) stateError(c *fiber.Ctx, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "db error", "detail": err.Error()})
}

// elapsedSeconds rounds the wall-clock game duration to two decimals.
func elapsedSeconds(start, end time.Time) float64 {
	if start.IsZero() || end.Before(start) {
		return 0
	}
	return math.Round(end.Sub(start).Seconds()*100) / 100
}
