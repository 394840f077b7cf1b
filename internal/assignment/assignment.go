// Package assignment implements the resource-assignment lifecycle engine:
// deciding which assignment record is current for a resource (an equipment
// unit or an employee), closing out prior records when a new one is created,
// and keeping the timeline stitched end-to-start across the per-context
// backing stores.
package assignment

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ResourceKind identifies the family of record stores an assignment lives in.
type ResourceKind string

const (
	KindEquipment ResourceKind = "equipment"
	KindEmployee  ResourceKind = "employee"
)

// Context is the origin of an assignment, determining which store and which
// metadata fields apply.
type Context string

const (
	ContextRental  Context = "rental"
	ContextProject Context = "project"
	ContextManual  Context = "manual"
)

// Assignment statuses. A resource's current assignment is the single record
// with StatusActive and a nil end date.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusPending   = "pending"
)

// Store names reported by PartialCompletionError.
const (
	StoreRental      = "rental_assignments"
	StoreProject     = "project_assignments"
	StoreRentalItems = "rental_items"
	StoreEmployee    = "employee_assignments"
)

// StatusRecomputer recalculates and persists an equipment unit's derived
// availability status. Called fire-and-forget after completions: failures are
// logged, never propagated.
type StatusRecomputer func(db *gorm.DB, equipmentID uint) error

// Engine owns the assignment lifecycle operations. All state lives in the
// backing stores; the Engine itself holds no mutable state and is safe for
// concurrent use across resources.
type Engine struct {
	db        *gorm.DB
	log       *zap.Logger
	recompute StatusRecomputer
}

// New returns an Engine over db. log may be nil; recompute may be nil when no
// denormalized status is maintained (tests, CLI one-shots).
func New(db *gorm.DB, log *zap.Logger, recompute StatusRecomputer) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{db: db, log: log, recompute: recompute}
}

// Record is a store-independent view of one assignment row, returned by the
// mutating operations and the combined chronological view.
type Record struct {
	ID         uint         `json:"id"`
	Kind       ResourceKind `json:"kind"`
	Context    Context      `json:"context"`
	EntityID   uint         `json:"entityId"`
	Name       string       `json:"name,omitempty"`
	Location   string       `json:"location,omitempty"`
	StartDate  time.Time    `json:"startDate"`
	EndDate    *time.Time   `json:"endDate"`
	Status     string       `json:"status"`
	Notes      string       `json:"notes,omitempty"`
	RentalID   *uint        `json:"rentalId,omitempty"`
	ProjectID  *uint        `json:"projectId,omitempty"`
	OperatorID *uint        `json:"operatorId,omitempty"`
}

// recomputeStatus runs the injected status callback for an equipment unit.
func (e *Engine) recomputeStatus(equipmentID uint) {
	if e.recompute == nil {
		return
	}
	if err := e.recompute(e.db, equipmentID); err != nil {
		e.log.Warn("equipment status recompute failed",
			zap.Uint("equipment_id", equipmentID),
			zap.Error(err))
	}
}
