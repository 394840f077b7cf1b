package assignment

import "fmt"

// Metadata carries the context-dependent fields of a new assignment. Each
// context has its own variant holding only the fields valid for it, checked
// at construction instead of at write time.
type Metadata interface {
	// Context returns the assignment context this metadata belongs to.
	Context() Context

	validate() error
}

// RentalMetadata describes a rental-originated assignment.
type RentalMetadata struct {
	RentalID      uint
	ProjectID     *uint
	DailyRate     float64
	TotalAmount   float64
	EquipmentName string // used when synthesizing an employee assignment name
}

func (RentalMetadata) Context() Context { return ContextRental }

func (m RentalMetadata) validate() error {
	if m.RentalID == 0 {
		return fmt.Errorf("%w: rental context requires a rental id", ErrInvalidAssignment)
	}
	return nil
}

// ProjectMetadata describes a project-originated assignment. AssignedBy is
// the user who made the assignment, distinct from the operator running the
// equipment.
type ProjectMetadata struct {
	ProjectID   uint
	OperatorID  *uint
	AssignedBy  *uint
	HourlyRate  float64
	ProjectName string
}

func (ProjectMetadata) Context() Context { return ContextProject }

func (m ProjectMetadata) validate() error {
	if m.ProjectID == 0 {
		return fmt.Errorf("%w: project context requires a project id", ErrInvalidAssignment)
	}
	return nil
}

// ManualMetadata describes a manually entered assignment. It has no required
// cross-references.
type ManualMetadata struct {
	OperatorID  *uint
	DailyRate   float64
	TotalAmount float64
	Name        string
	Location    string
}

func (ManualMetadata) Context() Context { return ContextManual }

func (ManualMetadata) validate() error { return nil }

// primaryStore returns the store a new equipment assignment of this context
// is inserted into: the Active-status flag owner whose completion must
// succeed before any insert.
func primaryStore(ctx Context) (string, error) {
	switch ctx {
	case ContextRental, ContextManual:
		return StoreRental, nil
	case ContextProject:
		return StoreProject, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidContext, ctx)
	}
}
