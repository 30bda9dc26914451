package services

import (
	"errors"
	"time"

	"linktree_backend/internal/auth"
	"linktree_backend/internal/models"
	"linktree_backend/internal/repositories"
	"linktree_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type SessionService interface {
	// Create stores a session for userID and returns the signed cookie value.
	Create(db *gorm.DB, userID uint) (string, *models.Session, error)
	// Authenticate resolves a cookie value to a live session.
	Authenticate(db *gorm.DB, cookieValue string) (*models.Session, error)
	// Destroy removes the session behind a cookie value. Bad cookies are ignored.
	Destroy(db *gorm.DB, cookieValue string) error
	// Revoke removes a session by id. Unknown ids are ignored.
	Revoke(db *gorm.DB, sessionID string) error
	CleanExpired(db *gorm.DB) (int64, error)
	TTL() time.Duration
}

type SessionServiceImpl struct {
	sessionRepo repositories.SessionRepository
	secret      []byte
	ttl         time.Duration
	now         func() time.Time
}

func NewSessionService(sessionRepo repositories.SessionRepository, secret string, ttl time.Duration) SessionService {
	return &SessionServiceImpl{
		sessionRepo: sessionRepo,
		secret:      []byte(secret),
		ttl:         ttl,
		now:         time.Now,
	}
}

func (s *SessionServiceImpl) TTL() time.Duration {
	return s.ttl
}

func (s *SessionServiceImpl) Create(db *gorm.DB, userID uint) (string, *models.Session, error) {
	now := s.now()
	session := &models.Session{
		ID:        auth.NewSessionID(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.sessionRepo.Create(db, session); err != nil {
		return "", nil, apperrors.StoreFailure(err)
	}

	token, err := auth.SignSessionToken(session.ID, userID, session.ExpiresAt, s.secret)
	if err != nil {
		return "", nil, apperrors.InternalError(err)
	}
	return token, session, nil
}

func (s *SessionServiceImpl) Authenticate(db *gorm.DB, cookieValue string) (*models.Session, error) {
	if cookieValue == "" {
		return nil, apperrors.ErrUnauthorized
	}

	claims, err := auth.ParseSessionToken(cookieValue, s.secret)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}

	session, err := s.sessionRepo.FindActive(db, claims.ID, s.now())
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, apperrors.StoreFailure(err)
	}
	if session.UserID != userID {
		return nil, apperrors.ErrUnauthorized
	}
	return session, nil
}

func (s *SessionServiceImpl) Destroy(db *gorm.DB, cookieValue string) error {
	if cookieValue == "" {
		return nil
	}

	// unparseable or expired cookies are left to CleanExpired
	claims, err := auth.ParseSessionToken(cookieValue, s.secret)
	if err != nil {
		return nil
	}

	return s.Revoke(db, claims.ID)
}

func (s *SessionServiceImpl) Revoke(db *gorm.DB, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessionRepo.Delete(db, sessionID); err != nil {
		return apperrors.StoreFailure(err)
	}
	return nil
}

func (s *SessionServiceImpl) CleanExpired(db *gorm.DB) (int64, error) {
	removed, err := s.sessionRepo.CleanExpired(db, s.now())
	if err != nil {
		return 0, apperrors.StoreFailure(err)
	}
	return removed, nil
}
