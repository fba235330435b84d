package db

import (
	"fmt"

	"github.com/zulandar/launchpad/internal/models"
	"gorm.io/gorm"
)

// AllModels returns every GORM model Launchpad persists.
func AllModels() []interface{} {
	return []interface{}{
		&models.Idea{},
		&models.Pipeline{},
		&models.RepeatedTask{},
		&models.OfficeTask{},
		&models.RegularTask{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}
