package models

import "time"

// ProjectAssignment is the project-context assignment store for equipment.
type ProjectAssignment struct {
	ID          uint       `gorm:"primaryKey;autoIncrement"`
	ProjectID   uint       `gorm:"not null;index"`
	EquipmentID uint       `gorm:"not null;index"`
	OperatorID  *uint
	AssignedBy  *uint
	StartDate   time.Time  `gorm:"type:date;not null;index"`
	EndDate     *time.Time `gorm:"type:date"`
	HourlyRate  float64
	Status      string     `gorm:"size:16;default:active;index"`
	Notes       string     `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
