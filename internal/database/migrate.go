package database

import (
	"fmt"

	"linktree_backend/internal/logger"
	"linktree_backend/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the users, profiles, links and sessions tables
func AutoMigrate(db *gorm.DB) error {
	if db.Dialector.Name() == "sqlite" {
		// sqlite ships with foreign keys off
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return fmt.Errorf("enable foreign keys: %w", err)
		}
	}

	err := db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Link{},
		&models.Session{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	logger.Info("AutoMigrate completed")
	return nil
}
