package models

import "time"

// RentalAssignment is the rental-context assignment store for equipment.
// Manual assignments also live here, tagged AssignmentType "manual" with the
// operator recorded in EmployeeID.
type RentalAssignment struct {
	ID             uint       `gorm:"primaryKey;autoIncrement"`
	EquipmentID    uint       `gorm:"not null;index"`
	RentalID       *uint      `gorm:"index"`
	ProjectID      *uint
	EmployeeID     *uint
	AssignmentType string     `gorm:"size:16;default:rental"`
	StartDate      time.Time  `gorm:"type:date;not null;index"`
	EndDate        *time.Time `gorm:"type:date"`
	Status         string     `gorm:"size:16;default:active;index"`
	Notes          string     `gorm:"type:text"`
	DailyRate      float64
	TotalAmount    float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
