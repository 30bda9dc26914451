package workers

import (
	"context"
	"time"

	"linktree_backend/internal/logger"
	"linktree_backend/internal/services"

	"gorm.io/gorm"
)

const DefaultSessionCleanupInterval = 15 * time.Minute

type SessionWorker struct {
	db       *gorm.DB
	sessions services.SessionService
	interval time.Duration
}

func NewSessionWorker(db *gorm.DB, sessions services.SessionService, interval time.Duration) *SessionWorker {
	if interval <= 0 {
		interval = DefaultSessionCleanupInterval
	}
	return &SessionWorker{db: db, sessions: sessions, interval: interval}
}

// Start runs the cleanup loop until ctx is cancelled
func (w *SessionWorker) Start(ctx context.Context) {
	go w.cleanExpiredSessions(ctx)
}

func (w *SessionWorker) cleanExpiredSessions(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Session worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce deletes every expired session
func (w *SessionWorker) RunOnce(ctx context.Context) int64 {
	removed, err := w.sessions.CleanExpired(w.db.WithContext(ctx))
	logger.WorkerLog("session", "clean_expired", removed, err)
	return removed
}
