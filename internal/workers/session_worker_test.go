package workers

import (
	"context"
	"testing"
	"time"

	"linktree_backend/internal/database/dbtest"
	"linktree_backend/internal/models"
	"linktree_backend/internal/repositories"
	"linktree_backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionWorker_RunOnce(t *testing.T) {
	db := dbtest.Open(t)
	user := &models.User{Email: "a@x.com", PasswordHash: "h", Verified: true}
	require.NoError(t, db.Create(user).Error)

	now := time.Now()
	require.NoError(t, db.Create(&models.Session{ID: "old", UserID: user.ID, ExpiresAt: now.Add(-time.Hour)}).Error)
	require.NoError(t, db.Create(&models.Session{ID: "new", UserID: user.ID, ExpiresAt: now.Add(time.Hour)}).Error)

	sessions := services.NewSessionService(repositories.NewSessionRepository(), "secret", time.Hour)
	w := NewSessionWorker(db, sessions, 0)
	assert.Equal(t, DefaultSessionCleanupInterval, w.interval)

	assert.Equal(t, int64(1), w.RunOnce(context.Background()))

	var ids []string
	require.NoError(t, db.Model(&models.Session{}).Pluck("id", &ids).Error)
	assert.Equal(t, []string{"new"}, ids)
}

func TestSessionWorker_StopsOnCancel(t *testing.T) {
	db := dbtest.Open(t)
	sessions := services.NewSessionService(repositories.NewSessionRepository(), "secret", time.Hour)
	w := NewSessionWorker(db, sessions, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.cleanExpiredSessions(ctx)
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
