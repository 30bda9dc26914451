package repositories

import (
	"errors"

	"linktree_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepository interface {
	Create(db *gorm.DB, profile *models.Profile) error
	FindByUserID(db *gorm.DB, userID uint) (*models.Profile, error)
	// Upsert writes display name, bio and theme color on the user's row,
	// inserting the row when it does not exist yet.
	Upsert(db *gorm.DB, profile *models.Profile) error
}

type profileRepository struct{}

func NewProfileRepository() ProfileRepository {
	return &profileRepository{}
}

func (r *profileRepository) Create(db *gorm.DB, profile *models.Profile) error {
	return db.Create(profile).Error
}

func (r *profileRepository) FindByUserID(db *gorm.DB, userID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Upsert(db *gorm.DB, profile *models.Profile) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"display_name", "bio", "theme_color"}),
	}).Create(profile).Error
}
