package models

import "time"

// RentalItem is the rental-line-item mirror of a rental-context assignment.
// One row exists per (RentalID, EquipmentID) pair and its completion state
// must track the corresponding RentalAssignment row. CompletedDate plays the
// role EndDate plays on the primary stores.
type RentalItem struct {
	ID            uint       `gorm:"primaryKey;autoIncrement"`
	RentalID      uint       `gorm:"not null;index:idx_rental_equipment"`
	EquipmentID   uint       `gorm:"not null;index:idx_rental_equipment"`
	OperatorID    *uint
	UnitPrice     float64
	TotalPrice    float64
	Status        string     `gorm:"size:16;default:active;index"`
	CompletedDate *time.Time `gorm:"type:date"`
	Notes         string     `gorm:"type:text"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
