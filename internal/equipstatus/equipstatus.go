// Package equipstatus maintains the denormalized availability status on
// equipment rows: "assigned" while any context store holds an open assignment
// for the unit, "available" otherwise.
package equipstatus

import (
	"fmt"

	"github.com/sndworks/crewline/internal/assignment"
	"github.com/sndworks/crewline/internal/models"
	"gorm.io/gorm"
)

const (
	StatusAvailable = "available"
	StatusAssigned  = "assigned"
)

// Recompute re-derives and persists the status for one equipment unit. It
// satisfies the engine's StatusRecomputer callback signature.
func Recompute(db *gorm.DB, equipmentID uint) error {
	assigned, err := hasOpenAssignment(db, equipmentID)
	if err != nil {
		return err
	}

	status := StatusAvailable
	if assigned {
		status = StatusAssigned
	}
	if err := db.Model(&models.Equipment{}).
		Where("id = ? AND status <> ?", equipmentID, status).
		Update("status", status).Error; err != nil {
		return fmt.Errorf("equipstatus: update equipment %d: %w", equipmentID, err)
	}
	return nil
}

func hasOpenAssignment(db *gorm.DB, equipmentID uint) (bool, error) {
	var count int64
	if err := db.Model(&models.RentalAssignment{}).
		Where("equipment_id = ? AND status = ?", equipmentID, assignment.StatusActive).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("equipstatus: count rental assignments for %d: %w", equipmentID, err)
	}
	if count > 0 {
		return true, nil
	}
	if err := db.Model(&models.ProjectAssignment{}).
		Where("equipment_id = ? AND status = ?", equipmentID, assignment.StatusActive).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("equipstatus: count project assignments for %d: %w", equipmentID, err)
	}
	return count > 0, nil
}
