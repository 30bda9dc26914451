package services

import (
	"errors"

	"linktree_backend/internal/logger"
	"linktree_backend/internal/models"
	"linktree_backend/internal/repositories"
	"linktree_backend/internal/services/dto"
	"linktree_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// ProfileService - everything the signed-in owner can do to their page
type ProfileService interface {
	GetDashboard(db *gorm.DB, userID uint) (*dto.DashboardResponse, error)
	UpdateProfile(db *gorm.DB, userID uint, req *dto.UpdateProfileRequest) (*models.Profile, error)
	AddLink(db *gorm.DB, userID uint, req *dto.AddLinkRequest) (*models.Link, error)
	// DeleteLink is a no-op when the link is missing or owned by someone else.
	DeleteLink(db *gorm.DB, userID uint, linkID uint) error
}

type ProfileServiceImpl struct {
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
	linkRepo    repositories.LinkRepository
}

func NewProfileService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	linkRepo repositories.LinkRepository,
) ProfileService {
	return &ProfileServiceImpl{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		linkRepo:    linkRepo,
	}
}

func (s *ProfileServiceImpl) GetDashboard(db *gorm.DB, userID uint) (*dto.DashboardResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, apperrors.StoreFailure(err)
	}

	profile, err := s.findProfile(db, userID)
	if err != nil {
		return nil, err
	}

	links, err := s.linkRepo.ListByUserID(db, userID)
	if err != nil {
		return nil, apperrors.StoreFailure(err)
	}

	return &dto.DashboardResponse{
		Email:   user.Email,
		Profile: profile,
		Links:   links,
	}, nil
}

func (s *ProfileServiceImpl) UpdateProfile(db *gorm.DB, userID uint, req *dto.UpdateProfileRequest) (*models.Profile, error) {
	profile := &models.Profile{
		UserID:      userID,
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		ThemeColor:  req.ThemeColor,
	}
	if err := s.profileRepo.Upsert(db, profile); err != nil {
		return nil, apperrors.StoreFailure(err)
	}

	updated, err := s.profileRepo.FindByUserID(db, userID)
	if err != nil {
		return nil, apperrors.StoreFailure(err)
	}

	logger.CtxInfo(db.Statement.Context, "Profile updated", "user_id", userID)
	return updated, nil
}

func (s *ProfileServiceImpl) AddLink(db *gorm.DB, userID uint, req *dto.AddLinkRequest) (*models.Link, error) {
	link := &models.Link{
		UserID:   userID,
		Platform: req.Platform,
		URL:      req.URL,
	}
	if err := s.linkRepo.Create(db, link); err != nil {
		return nil, apperrors.StoreFailure(err)
	}

	logger.CtxInfo(db.Statement.Context, "Link added", "user_id", userID, "link_id", link.ID)
	return link, nil
}

func (s *ProfileServiceImpl) DeleteLink(db *gorm.DB, userID uint, linkID uint) error {
	affected, err := s.linkRepo.DeleteOwned(db, linkID, userID)
	if err != nil {
		return apperrors.StoreFailure(err)
	}

	if affected == 0 {
		logger.CtxDebug(db.Statement.Context, "Delete matched no owned link", "user_id", userID, "link_id", linkID)
	}
	return nil
}

// findProfile returns nil without error when the user has no profile row yet
func (s *ProfileServiceImpl) findProfile(db *gorm.DB, userID uint) (*models.Profile, error) {
	profile, err := s.profileRepo.FindByUserID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, nil
		}
		return nil, apperrors.StoreFailure(err)
	}
	return profile, nil
}
