package repositories

import (
	"linktree_backend/internal/models"

	"gorm.io/gorm"
)

type LinkRepository interface {
	Create(db *gorm.DB, link *models.Link) error
	// DeleteOwned deletes the link only if userID owns it; zero rows is not an error.
	DeleteOwned(db *gorm.DB, linkID, userID uint) (int64, error)
	ListByUserID(db *gorm.DB, userID uint) ([]models.Link, error)
}

type linkRepository struct{}

func NewLinkRepository() LinkRepository {
	return &linkRepository{}
}

func (r *linkRepository) Create(db *gorm.DB, link *models.Link) error {
	return db.Create(link).Error
}

func (r *linkRepository) DeleteOwned(db *gorm.DB, linkID, userID uint) (int64, error) {
	result := db.Where("id = ? AND user_id = ?", linkID, userID).Delete(&models.Link{})
	return result.RowsAffected, result.Error
}

func (r *linkRepository) ListByUserID(db *gorm.DB, userID uint) ([]models.Link, error) {
	links := []models.Link{}
	err := db.Where("user_id = ?", userID).Order("id ASC").Find(&links).Error
	return links, err
}
