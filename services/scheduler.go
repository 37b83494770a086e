// services/scheduler.go
package services

import (
	"log"
	"time"

	"memory-match-service/models"

	"github.com/go-co-op/gocron/v2"
)

// staleSessionAge is how long an untouched session survives. Only
// completion, reset, and give-up delete rows otherwise, so abandoned
// games would pile up forever without the sweeper.
const staleSessionAge = 30 * 24 * time.Hour

func (s *SessionService) StartCleanupScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every hour: sweep sessions nobody has touched in a month
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(s.sweepStaleSessions),
	)
}

func (s *SessionService) sweepStaleSessions() {
	cutoff := time.Now().Add(-staleSessionAge)
	res := s.DB.Where("updated_at < ?", cutoff).Delete(&models.GameState{})
	if res.Error != nil {
		log.Printf("[Sweeper] DB error: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("🧹 Swept %d stale game sessions", res.RowsAffected)
	}
}
