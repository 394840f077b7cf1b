package db

import (
	"fmt"

	"github.com/sndworks/crewline/internal/models"
	"gorm.io/gorm"
)

// AllModels returns the list of all GORM models for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.Equipment{},
		&models.RentalAssignment{},
		&models.ProjectAssignment{},
		&models.RentalItem{},
		&models.EmployeeAssignment{},
	}
}

// AutoMigrate creates or updates all Crewline tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}
