package workers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"memory-match-service/models"
)

func setupWorkerTest(t *testing.T, usersJSON string) (*ProfileSyncWorker, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Profile{}))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/admin/users", r.URL.Path)
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(usersJSON))
	}))
	t.Cleanup(srv.Close)

	return NewProfileSyncWorker(db, srv.URL, "service-key"), db
}

func TestSyncOnce_UpsertsUsernames(t *testing.T) {
	worker, db := setupWorkerTest(t, `{
		"users": [
			{"id": "user-1", "email": "alice@example.com", "user_metadata": {"username": "alice"}},
			{"id": "user-2", "email": "bob@example.com", "user_metadata": {}},
			{"id": "", "email": "ghost@example.com"}
		]
	}`)

	require.NoError(t, worker.SyncOnce(context.Background()))

	var profiles []models.Profile
	require.NoError(t, db.Order("user_id").Find(&profiles).Error)
	require.Len(t, profiles, 2)

	assert.Equal(t, "alice", profiles[0].Username)
	// no metadata username: email local part is used
	assert.Equal(t, "bob", profiles[1].Username)
}

func TestSyncOnce_PreservesCustomImages(t *testing.T) {
	worker, db := setupWorkerTest(t, `{
		"users": [
			{"id": "user-1", "email": "alice@example.com", "user_metadata": {"username": "alice-renamed"}}
		]
	}`)

	require.NoError(t, db.Create(&models.Profile{
		UserID:       "user-1",
		Username:     "alice",
		CustomImages: []string{"https://cdn/a.png"},
	}).Error)

	require.NoError(t, worker.SyncOnce(context.Background()))

	var profile models.Profile
	require.NoError(t, db.First(&profile, "user_id = ?", "user-1").Error)
	assert.Equal(t, "alice-renamed", profile.Username)
	assert.Equal(t, []string{"https://cdn/a.png"}, profile.CustomImages)
}

func TestSyncOnce_ProviderError(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Profile{}))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	worker := NewProfileSyncWorker(db, srv.URL, "service-key")
	assert.Error(t, worker.SyncOnce(context.Background()))
}
