package services

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"linktree_backend/internal/auth"
	"linktree_backend/internal/email"
	"linktree_backend/internal/logger"
	"linktree_backend/internal/models"
	"linktree_backend/internal/repositories"
	"linktree_backend/internal/services/dto"
	"linktree_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService interface {
	// Register stores an unverified account and mails its verification link.
	Register(db *gorm.DB, req *dto.RegisterRequest, baseURL string) error
	// Verify consumes a verification token and creates the user's profile.
	Verify(db *gorm.DB, token string) (*models.User, error)
	Login(db *gorm.DB, req *dto.LoginRequest) (*models.User, error)
}

type AuthServiceImpl struct {
	userRepo      repositories.UserRepository
	profileRepo   repositories.ProfileRepository
	emailProvider email.Provider
	bcryptCost    int
}

func NewAuthService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	emailProvider email.Provider,
	bcryptCost int,
) AuthService {
	return &AuthServiceImpl{
		userRepo:      userRepo,
		profileRepo:   profileRepo,
		emailProvider: emailProvider,
		bcryptCost:    bcryptCost,
	}
}

func (s *AuthServiceImpl) Register(db *gorm.DB, req *dto.RegisterRequest, baseURL string) error {
	ctx := db.Statement.Context

	hashedPassword, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return apperrors.InternalError(err)
	}

	token := auth.NewVerificationToken()
	user := &models.User{
		Email:             req.Email,
		PasswordHash:      hashedPassword,
		Verified:          false,
		VerificationToken: &token,
	}

	if err := s.userRepo.Create(db, user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return apperrors.ErrDuplicateEmail
		}
		return apperrors.StoreFailure(err)
	}

	if err := s.emailProvider.SendVerification(user.Email, VerificationURL(baseURL, token)); err != nil {
		logger.CtxWithError(ctx, "Failed to send verification email, removing account", err, "email", user.Email)
		s.rollbackRegistration(ctx, db, user.ID)
		return apperrors.ErrMailFailure(err)
	}

	logger.CtxInfo(ctx, "User registered, verification pending", "user_id", user.ID)
	return nil
}

func (s *AuthServiceImpl) rollbackRegistration(ctx context.Context, db *gorm.DB, userID uint) {
	if err := s.userRepo.Delete(db, userID); err != nil {
		logger.CtxWithError(ctx, "Failed to remove account after mail failure", err, "user_id", userID)
	}
}

func (s *AuthServiceImpl) Verify(db *gorm.DB, token string) (*models.User, error) {
	if token == "" {
		return nil, apperrors.ErrInvalidToken
	}

	var verified *models.User
	err := db.Transaction(func(tx *gorm.DB) error {
		user, err := s.userRepo.FindByVerificationToken(tx, token)
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return apperrors.ErrInvalidToken
			}
			return err
		}

		// guarded on the token so a concurrent verify of the same code loses here
		if err := s.userRepo.MarkVerified(tx, user.ID, token); err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return apperrors.ErrInvalidToken
			}
			return err
		}

		if err := s.profileRepo.Create(tx, &models.Profile{
			UserID:     user.ID,
			ThemeColor: models.DefaultThemeColor,
		}); err != nil {
			return err
		}

		user.Verified = true
		user.VerificationToken = nil
		verified = user
		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.StoreFailure(err)
	}

	logger.CtxInfo(db.Statement.Context, "Email verified", "user_id", verified.ID)
	return verified, nil
}

func (s *AuthServiceImpl) Login(db *gorm.DB, req *dto.LoginRequest) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.StoreFailure(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.Verified {
		return nil, apperrors.ErrUserNotVerified
	}

	return user, nil
}

// VerificationURL builds the link mailed to a new user
func VerificationURL(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/verify?code=" + url.QueryEscape(token)
}
