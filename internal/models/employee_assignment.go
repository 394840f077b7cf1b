package models

import "time"

// EmployeeAssignment is one interval on an employee's assignment timeline.
// EndDate nil means the assignment is open-ended (the employee's current one).
type EmployeeAssignment struct {
	ID         uint       `gorm:"primaryKey;autoIncrement"`
	EmployeeID uint       `gorm:"not null;index"`
	Name       string     `gorm:"size:255;not null"`
	Type       string     `gorm:"size:16;default:manual"`
	Location   string     `gorm:"size:255"`
	StartDate  time.Time  `gorm:"type:date;not null;index"`
	EndDate    *time.Time `gorm:"type:date"`
	Status     string     `gorm:"size:16;default:active;index"`
	Notes      string     `gorm:"type:text"`
	ProjectID  *uint
	RentalID   *uint
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
