package services

import (
	"errors"
	"strings"

	"linktree_backend/internal/repositories"
	"linktree_backend/internal/services/dto"
	"linktree_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// PageService resolves public identifiers to published pages
type PageService interface {
	Resolve(db *gorm.DB, identifier string) (*dto.PublicPageResponse, error)
	OwnerEmail(identifier string) string
}

type PageServiceImpl struct {
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
	linkRepo    repositories.LinkRepository
	emailDomain string
}

func NewPageService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	linkRepo repositories.LinkRepository,
	emailDomain string,
) PageService {
	return &PageServiceImpl{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		linkRepo:    linkRepo,
		emailDomain: strings.TrimPrefix(emailDomain, "@"),
	}
}

// OwnerEmail maps an identifier to the account email it stands for
func (s *PageServiceImpl) OwnerEmail(identifier string) string {
	return identifier + "@" + s.emailDomain
}

func (s *PageServiceImpl) Resolve(db *gorm.DB, identifier string) (*dto.PublicPageResponse, error) {
	if identifier == "" {
		return nil, apperrors.ErrPageNotFound
	}

	user, err := s.userRepo.FindByEmail(db, s.OwnerEmail(identifier))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrPageNotFound
		}
		return nil, apperrors.StoreFailure(err)
	}

	links, err := s.linkRepo.ListByUserID(db, user.ID)
	if err != nil {
		return nil, apperrors.StoreFailure(err)
	}
	// a page with nothing on it is not published
	if len(links) == 0 {
		return nil, apperrors.ErrPageNotFound
	}

	profile, err := s.profileRepo.FindByUserID(db, user.ID)
	if err != nil {
		if !errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.StoreFailure(err)
		}
		profile = nil
	}

	return &dto.PublicPageResponse{
		Profile: profile,
		Links:   links,
	}, nil
}
