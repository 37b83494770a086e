// workers/profile_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"memory-match-service/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AuthProviderUser matches the JSON shape of the auth provider's admin
// user listing. Only the fields needed for display names are mapped.
type AuthProviderUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	UserMetadata struct {
		Username string `json:"username"`
	} `json:"user_metadata"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListUsersResponse is the top-level structure of the admin listing.
type ListUsersResponse struct {
	Users []AuthProviderUser `json:"users"`
}

// ProfileSyncWorker keeps the local profiles table's usernames in step
// with the auth provider, so the leaderboard shows current display
// names instead of whatever was cached at completion time. Custom
// image lists are never touched by the sync.
type ProfileSyncWorker struct {
	db         *gorm.DB
	interval   time.Duration
	baseURL    string // e.g., "https://xyz.supabase.co"
	serviceKey string
	httpClient *http.Client
}

func NewProfileSyncWorker(db *gorm.DB, authBaseURL, serviceKey string) *ProfileSyncWorker {
	return &ProfileSyncWorker{
		db:         db,
		interval:   10 * time.Minute,
		baseURL:    authBaseURL,
		serviceKey: serviceKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (w *ProfileSyncWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Profile Sync Worker (auth provider → profiles)…")
	go w.run(ctx)
}

func (w *ProfileSyncWorker) run(ctx context.Context) {
	if err := w.SyncOnce(ctx); err != nil {
		log.Printf("⚠️ Initial profile sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.SyncOnce(ctx); err != nil {
				log.Printf("❌ Profile sync failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Profile Sync Worker stopped")
			return
		}
	}
}

// SyncOnce fetches the auth provider's user list and upserts usernames
// into the local profiles table.
func (w *ProfileSyncWorker) SyncOnce(ctx context.Context) error {
	url := fmt.Sprintf("%s/auth/v1/admin/users", strings.TrimRight(w.baseURL, "/"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build sync request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+w.serviceKey)
	req.Header.Set("apikey", w.serviceKey)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch users from auth provider: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read sync response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("auth provider returned %d: %s", resp.StatusCode, string(body))
	}

	var out ListUsersResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return fmt.Errorf("decode sync response: %w", err)
	}

	synced := 0
	for _, u := range out.Users {
		if u.ID == "" {
			continue
		}
		username := u.UserMetadata.Username
		if username == "" {
			// fall back to the email local part
			if at := strings.Index(u.Email, "@"); at > 0 {
				username = u.Email[:at]
			}
		}
		if username == "" {
			continue
		}

		profile := models.Profile{
			UserID:   u.ID,
			Username: username,
		}
		if err := w.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "updated_at"}),
		}).Create(&profile).Error; err != nil {
			log.Printf("⚠️ Failed to upsert profile %s: %v", u.ID, err)
			continue
		}
		synced++
	}

	if synced > 0 {
		log.Printf("[SYNC] ✅ Upserted %d profile usernames", synced)
	}
	return nil
}
