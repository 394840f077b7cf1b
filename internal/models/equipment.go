package models

import "time"

// Equipment carries the denormalized availability summary recomputed after
// assignment completions. Status is derived: "assigned" while any store holds
// an open assignment for the unit, "available" otherwise.
type Equipment struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	Name       string `gorm:"size:255;not null"`
	DoorNumber string `gorm:"size:32"`
	Status     string `gorm:"size:16;default:available;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
