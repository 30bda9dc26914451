package repositories

import (
	"errors"
	"time"

	"linktree_backend/internal/models"

	"gorm.io/gorm"
)

// ErrSessionNotFound - no live session with that id
var ErrSessionNotFound = errors.New("session not found")

type SessionRepository interface {
	Create(db *gorm.DB, session *models.Session) error
	// FindActive returns the session only if it has not expired
	FindActive(db *gorm.DB, id string, now time.Time) (*models.Session, error)
	Delete(db *gorm.DB, id string) error
	CleanExpired(db *gorm.DB, now time.Time) (int64, error)
}

type sessionRepository struct{}

func NewSessionRepository() SessionRepository {
	return &sessionRepository{}
}

func (r *sessionRepository) Create(db *gorm.DB, session *models.Session) error {
	return db.Create(session).Error
}

func (r *sessionRepository) FindActive(db *gorm.DB, id string, now time.Time) (*models.Session, error) {
	var session models.Session
	err := db.Where("id = ? AND expires_at > ?", id, now).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Delete(db *gorm.DB, id string) error {
	return db.Where("id = ?", id).Delete(&models.Session{}).Error
}

func (r *sessionRepository) CleanExpired(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Where("expires_at <= ?", now).Delete(&models.Session{})
	return result.RowsAffected, result.Error
}
