package assignment

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sndworks/crewline/internal/dateutil"
	"github.com/sndworks/crewline/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateOpts holds parameters for creating a new assignment.
type CreateOpts struct {
	Kind      ResourceKind
	EntityID  uint
	StartDate time.Time
	EndDate   *time.Time // nil = open-ended
	Status    string     // defaults to StatusActive
	Notes     string
	Meta      Metadata

	// Employee assignments only: display overrides. When empty, a name and
	// location are synthesized from the metadata.
	Name     string
	Location string
}

// Create completes all prior open assignments for the resource, then inserts
// the new record as the current one. For employees the whole timeline is
// reconciled afterwards so out-of-order inserts still produce a consistent
// history.
//
// A failed completion of the primary store (the store the new record will
// live in) aborts before any insert, so a resource can never end up with two
// open assignments. Secondary-store failures are logged and tolerated; the
// sweep re-derives their state from the primary.
func (e *Engine) Create(opts CreateOpts) (*Record, error) {
	if opts.Meta == nil {
		return nil, fmt.Errorf("%w: metadata is required", ErrInvalidAssignment)
	}
	if err := opts.Meta.validate(); err != nil {
		return nil, err
	}
	if opts.StartDate.IsZero() {
		return nil, fmt.Errorf("%w: start date is required", ErrInvalidAssignment)
	}
	if opts.Status == "" {
		opts.Status = StatusActive
	}
	switch opts.Status {
	case StatusActive, StatusCompleted, StatusPending:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidAssignment, opts.Status)
	}

	switch opts.Kind {
	case KindEquipment:
		primary, err := primaryStore(opts.Meta.Context())
		if err != nil {
			return nil, err
		}
		if err := e.completeOpenEquipmentAssignments(opts.EntityID, dateutil.DayBefore(opts.StartDate)); err != nil {
			var pce *PartialCompletionError
			if errors.As(err, &pce) && !pce.FailedStore(primary) {
				e.log.Warn("secondary store completion failed, proceeding with insert",
					zap.Uint("equipment_id", opts.EntityID),
					zap.Strings("failed_stores", pce.Failed))
			} else {
				return nil, err
			}
		}
		return e.insertEquipment(opts)

	case KindEmployee:
		end := dateutil.DayBefore(opts.StartDate)
		if err := e.db.Model(&models.EmployeeAssignment{}).
			Where("employee_id = ? AND status = ?", opts.EntityID, StatusActive).
			Updates(map[string]interface{}{
				"end_date": end,
				"status":   StatusCompleted,
			}).Error; err != nil {
			return nil, fmt.Errorf("assignment: complete previous for employee %d: %w", opts.EntityID, err)
		}
		return e.insertEmployee(opts)

	default:
		return nil, fmt.Errorf("%w: unknown resource kind %q", ErrInvalidContext, opts.Kind)
	}
}

// CompletePrevious closes every open assignment for a resource with an end
// date one day before the given start. It is the completion half of Create,
// callable standalone.
func (e *Engine) CompletePrevious(kind ResourceKind, entityID uint, startDate time.Time) error {
	if startDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalidAssignment)
	}
	end := dateutil.DayBefore(startDate)

	switch kind {
	case KindEquipment:
		return e.completeOpenEquipmentAssignments(entityID, end)
	case KindEmployee:
		if err := e.db.Model(&models.EmployeeAssignment{}).
			Where("employee_id = ? AND status = ?", entityID, StatusActive).
			Updates(map[string]interface{}{
				"end_date": end,
				"status":   StatusCompleted,
			}).Error; err != nil {
			return fmt.Errorf("assignment: complete previous for employee %d: %w", entityID, err)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown resource kind %q", ErrInvalidContext, kind)
	}
}

// Complete closes one specific assignment by id. Equipment ids are looked up
// across the candidate stores (at most one owns the id); completing a
// rental-context record also completes its rental-item mirror, matched by the
// (rental, equipment) pair since the mirror has its own identity space.
// endDate defaults to today.
func (e *Engine) Complete(kind ResourceKind, assignmentID uint, endDate *time.Time) error {
	end := dateutil.Today()
	if endDate != nil {
		end = dateutil.Truncate(*endDate)
	}

	switch kind {
	case KindEmployee:
		res := e.db.Model(&models.EmployeeAssignment{}).
			Where("id = ?", assignmentID).
			Updates(map[string]interface{}{
				"end_date": end,
				"status":   StatusCompleted,
			})
		if res.Error != nil {
			return fmt.Errorf("assignment: complete employee assignment %d: %w", assignmentID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: employee assignment %d", ErrNotFound, assignmentID)
		}
		return nil
	case KindEquipment:
		return e.completeEquipmentByID(assignmentID, end)
	default:
		return fmt.Errorf("%w: unknown resource kind %q", ErrInvalidContext, kind)
	}
}

func (e *Engine) completeEquipmentByID(assignmentID uint, end time.Time) error {
	var ra models.RentalAssignment
	err := e.db.First(&ra, assignmentID).Error
	if err == nil {
		if err := e.db.Model(&ra).Updates(map[string]interface{}{
			"end_date": end,
			"status":   StatusCompleted,
		}).Error; err != nil {
			return fmt.Errorf("assignment: complete rental assignment %d: %w", assignmentID, err)
		}
		if ra.RentalID != nil {
			if err := e.db.Model(&models.RentalItem{}).
				Where("rental_id = ? AND equipment_id = ?", *ra.RentalID, ra.EquipmentID).
				Updates(map[string]interface{}{
					"completed_date": end,
					"status":         StatusCompleted,
				}).Error; err != nil {
				// Self-heals on the next sweep, which re-derives mirror
				// state from the primary record.
				e.log.Warn("rental item mirror completion failed",
					zap.Uint("rental_id", *ra.RentalID),
					zap.Uint("equipment_id", ra.EquipmentID),
					zap.Error(err))
			}
		}
		e.recomputeStatus(ra.EquipmentID)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("assignment: look up rental assignment %d: %w", assignmentID, err)
	}

	var pa models.ProjectAssignment
	err = e.db.First(&pa, assignmentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: equipment assignment %d", ErrNotFound, assignmentID)
	}
	if err != nil {
		return fmt.Errorf("assignment: look up project assignment %d: %w", assignmentID, err)
	}
	if err := e.db.Model(&pa).Updates(map[string]interface{}{
		"end_date": end,
		"status":   StatusCompleted,
	}).Error; err != nil {
		return fmt.Errorf("assignment: complete project assignment %d: %w", assignmentID, err)
	}
	e.recomputeStatus(pa.EquipmentID)
	return nil
}

// EquipmentAssignments is the per-store view of one equipment unit's history
// plus a combined chronological view across all three stores.
type EquipmentAssignments struct {
	RentalHistory  []models.RentalAssignment  `json:"rentalHistory"`
	ProjectHistory []models.ProjectAssignment `json:"projectHistory"`
	RentalItems    []models.RentalItem        `json:"rentalItems"`
	Combined       []Record                   `json:"combined"`
}

// GetEquipmentAssignments returns all assignment records for an equipment
// unit from every context store.
func (e *Engine) GetEquipmentAssignments(equipmentID uint) (*EquipmentAssignments, error) {
	out := &EquipmentAssignments{}

	if err := e.db.Where("equipment_id = ?", equipmentID).
		Order("start_date ASC, id ASC").
		Find(&out.RentalHistory).Error; err != nil {
		return nil, fmt.Errorf("assignment: list rental history for equipment %d: %w", equipmentID, err)
	}
	if err := e.db.Where("equipment_id = ?", equipmentID).
		Order("start_date ASC, id ASC").
		Find(&out.ProjectHistory).Error; err != nil {
		return nil, fmt.Errorf("assignment: list project history for equipment %d: %w", equipmentID, err)
	}
	if err := e.db.Where("equipment_id = ?", equipmentID).
		Order("created_at ASC, id ASC").
		Find(&out.RentalItems).Error; err != nil {
		return nil, fmt.Errorf("assignment: list rental items for equipment %d: %w", equipmentID, err)
	}

	for i := range out.RentalHistory {
		out.Combined = append(out.Combined, *rentalRecord(&out.RentalHistory[i]))
	}
	for i := range out.ProjectHistory {
		out.Combined = append(out.Combined, *projectRecord(&out.ProjectHistory[i]))
	}
	for i := range out.RentalItems {
		out.Combined = append(out.Combined, *itemRecord(&out.RentalItems[i]))
	}
	sort.SliceStable(out.Combined, func(i, j int) bool {
		a, b := out.Combined[i], out.Combined[j]
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.Before(b.StartDate)
		}
		return a.ID < b.ID
	})
	return out, nil
}

// GetEmployeeAssignments returns an employee's full timeline ordered by start
// date (id tie-break).
func (e *Engine) GetEmployeeAssignments(employeeID uint) ([]models.EmployeeAssignment, error) {
	var recs []models.EmployeeAssignment
	if err := e.db.Where("employee_id = ?", employeeID).
		Order("start_date ASC, id ASC").
		Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("assignment: list assignments for employee %d: %w", employeeID, err)
	}
	return recs, nil
}

// UpdateOpts holds a partial edit of an employee assignment. Nil fields are
// left untouched.
type UpdateOpts struct {
	Name         *string
	Type         *string
	Location     *string
	StartDate    *time.Time
	EndDate      *time.Time
	ClearEndDate bool
	Status       *string
	Notes        *string
}

// UpdateEmployeeAssignment applies a partial edit and reconciles the
// employee's timeline, so moving a start date restitches the neighbors.
func (e *Engine) UpdateEmployeeAssignment(assignmentID uint, opts UpdateOpts) (*models.EmployeeAssignment, error) {
	var rec models.EmployeeAssignment
	if err := e.db.First(&rec, assignmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: employee assignment %d", ErrNotFound, assignmentID)
		}
		return nil, fmt.Errorf("assignment: look up employee assignment %d: %w", assignmentID, err)
	}

	updates := map[string]interface{}{}
	if opts.Name != nil {
		updates["name"] = *opts.Name
	}
	if opts.Type != nil {
		switch Context(*opts.Type) {
		case ContextRental, ContextProject, ContextManual:
		default:
			return nil, fmt.Errorf("%w: %q", ErrInvalidContext, *opts.Type)
		}
		updates["type"] = *opts.Type
	}
	if opts.Location != nil {
		updates["location"] = *opts.Location
	}
	if opts.StartDate != nil {
		if opts.StartDate.IsZero() {
			return nil, fmt.Errorf("%w: start date cannot be cleared", ErrInvalidAssignment)
		}
		updates["start_date"] = dateutil.Truncate(*opts.StartDate)
	}
	if opts.ClearEndDate {
		updates["end_date"] = nil
	} else if opts.EndDate != nil {
		updates["end_date"] = dateutil.Truncate(*opts.EndDate)
	}
	if opts.Status != nil {
		switch *opts.Status {
		case StatusActive, StatusCompleted, StatusPending:
		default:
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidAssignment, *opts.Status)
		}
		updates["status"] = *opts.Status
	}
	if opts.Notes != nil {
		updates["notes"] = *opts.Notes
	}

	if len(updates) > 0 {
		if err := e.db.Model(&rec).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("assignment: update employee assignment %d: %w", assignmentID, err)
		}
	}
	if _, err := e.ReconcileEmployeeTimeline(rec.EmployeeID); err != nil {
		return nil, err
	}
	if err := e.db.First(&rec, assignmentID).Error; err != nil {
		return nil, fmt.Errorf("assignment: reload employee assignment %d: %w", assignmentID, err)
	}
	return &rec, nil
}

// Delete removes one assignment record. Employee deletions reconcile the
// remaining timeline (reopening the newest survivor). Rental-context
// deletions also remove the rental-item mirror created in tandem with them.
func (e *Engine) Delete(kind ResourceKind, assignmentID uint) (*Record, error) {
	switch kind {
	case KindEmployee:
		var rec models.EmployeeAssignment
		if err := e.db.First(&rec, assignmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: employee assignment %d", ErrNotFound, assignmentID)
			}
			return nil, fmt.Errorf("assignment: look up employee assignment %d: %w", assignmentID, err)
		}
		if err := e.db.Delete(&models.EmployeeAssignment{}, assignmentID).Error; err != nil {
			return nil, fmt.Errorf("assignment: delete employee assignment %d: %w", assignmentID, err)
		}
		if _, err := e.ReconcileEmployeeTimeline(rec.EmployeeID); err != nil {
			return nil, err
		}
		return employeeRecord(&rec), nil

	case KindEquipment:
		return e.deleteEquipmentByID(assignmentID)
	default:
		return nil, fmt.Errorf("%w: unknown resource kind %q", ErrInvalidContext, kind)
	}
}

func (e *Engine) deleteEquipmentByID(assignmentID uint) (*Record, error) {
	var ra models.RentalAssignment
	err := e.db.First(&ra, assignmentID).Error
	if err == nil {
		if err := e.db.Delete(&models.RentalAssignment{}, assignmentID).Error; err != nil {
			return nil, fmt.Errorf("assignment: delete rental assignment %d: %w", assignmentID, err)
		}
		if ra.RentalID != nil {
			if err := e.db.Where("rental_id = ? AND equipment_id = ?", *ra.RentalID, ra.EquipmentID).
				Delete(&models.RentalItem{}).Error; err != nil {
				e.log.Warn("rental item mirror deletion failed",
					zap.Uint("rental_id", *ra.RentalID),
					zap.Uint("equipment_id", ra.EquipmentID),
					zap.Error(err))
			}
		}
		e.recomputeStatus(ra.EquipmentID)
		return rentalRecord(&ra), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("assignment: look up rental assignment %d: %w", assignmentID, err)
	}

	var pa models.ProjectAssignment
	err = e.db.First(&pa, assignmentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: equipment assignment %d", ErrNotFound, assignmentID)
	}
	if err != nil {
		return nil, fmt.Errorf("assignment: look up project assignment %d: %w", assignmentID, err)
	}
	if err := e.db.Delete(&models.ProjectAssignment{}, assignmentID).Error; err != nil {
		return nil, fmt.Errorf("assignment: delete project assignment %d: %w", assignmentID, err)
	}
	e.recomputeStatus(pa.EquipmentID)
	return projectRecord(&pa), nil
}

// insertEquipment writes the new equipment record into the store chosen by
// its metadata context.
func (e *Engine) insertEquipment(opts CreateOpts) (*Record, error) {
	start := dateutil.Truncate(opts.StartDate)
	var end *time.Time
	if opts.EndDate != nil {
		t := dateutil.Truncate(*opts.EndDate)
		end = &t
	}

	switch m := opts.Meta.(type) {
	case RentalMetadata:
		rid := m.RentalID
		rec := models.RentalAssignment{
			EquipmentID:    opts.EntityID,
			RentalID:       &rid,
			ProjectID:      m.ProjectID,
			AssignmentType: string(ContextRental),
			StartDate:      start,
			EndDate:        end,
			Status:         opts.Status,
			Notes:          opts.Notes,
			DailyRate:      m.DailyRate,
			TotalAmount:    m.TotalAmount,
		}
		if err := e.db.Create(&rec).Error; err != nil {
			return nil, fmt.Errorf("assignment: create rental assignment: %w", err)
		}
		e.log.Info("created equipment assignment",
			zap.Uint("equipment_id", opts.EntityID),
			zap.String("context", string(ContextRental)),
			zap.Uint("id", rec.ID))
		return rentalRecord(&rec), nil

	case ManualMetadata:
		rec := models.RentalAssignment{
			EquipmentID:    opts.EntityID,
			EmployeeID:     m.OperatorID,
			AssignmentType: string(ContextManual),
			StartDate:      start,
			EndDate:        end,
			Status:         opts.Status,
			Notes:          opts.Notes,
			DailyRate:      m.DailyRate,
			TotalAmount:    m.TotalAmount,
		}
		if err := e.db.Create(&rec).Error; err != nil {
			return nil, fmt.Errorf("assignment: create manual assignment: %w", err)
		}
		e.log.Info("created equipment assignment",
			zap.Uint("equipment_id", opts.EntityID),
			zap.String("context", string(ContextManual)),
			zap.Uint("id", rec.ID))
		return rentalRecord(&rec), nil

	case ProjectMetadata:
		rec := models.ProjectAssignment{
			ProjectID:   m.ProjectID,
			EquipmentID: opts.EntityID,
			OperatorID:  m.OperatorID,
			AssignedBy:  m.AssignedBy,
			HourlyRate:  m.HourlyRate,
			StartDate:   start,
			EndDate:     end,
			Status:      opts.Status,
			Notes:       opts.Notes,
		}
		if err := e.db.Create(&rec).Error; err != nil {
			return nil, fmt.Errorf("assignment: create project assignment: %w", err)
		}
		e.log.Info("created equipment assignment",
			zap.Uint("equipment_id", opts.EntityID),
			zap.String("context", string(ContextProject)),
			zap.Uint("id", rec.ID))
		return projectRecord(&rec), nil

	default:
		return nil, fmt.Errorf("%w: unsupported metadata %T", ErrInvalidContext, opts.Meta)
	}
}

// insertEmployee writes the new employee record with a synthesized name and
// location when none were supplied, then reconciles the timeline.
func (e *Engine) insertEmployee(opts CreateOpts) (*Record, error) {
	start := dateutil.Truncate(opts.StartDate)
	var end *time.Time
	if opts.EndDate != nil {
		t := dateutil.Truncate(*opts.EndDate)
		end = &t
	}

	name, location := employeeNameFor(opts)
	rec := models.EmployeeAssignment{
		EmployeeID: opts.EntityID,
		Name:       name,
		Type:       string(opts.Meta.Context()),
		Location:   location,
		StartDate:  start,
		EndDate:    end,
		Status:     opts.Status,
		Notes:      opts.Notes,
	}
	switch m := opts.Meta.(type) {
	case RentalMetadata:
		rid := m.RentalID
		rec.RentalID = &rid
		rec.ProjectID = m.ProjectID
	case ProjectMetadata:
		pid := m.ProjectID
		rec.ProjectID = &pid
	case ManualMetadata:
		// no cross-references
	default:
		return nil, fmt.Errorf("%w: unsupported metadata %T", ErrInvalidContext, opts.Meta)
	}

	if err := e.db.Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("assignment: create employee assignment: %w", err)
	}
	e.log.Info("created employee assignment",
		zap.Uint("employee_id", opts.EntityID),
		zap.String("context", string(opts.Meta.Context())),
		zap.Uint("id", rec.ID))

	if _, err := e.ReconcileEmployeeTimeline(opts.EntityID); err != nil {
		return nil, err
	}
	if err := e.db.First(&rec, rec.ID).Error; err != nil {
		return nil, fmt.Errorf("assignment: reload employee assignment %d: %w", rec.ID, err)
	}
	return employeeRecord(&rec), nil
}

// employeeNameFor synthesizes a display name and location from the metadata
// when the caller supplied none.
func employeeNameFor(opts CreateOpts) (string, string) {
	if opts.Name != "" {
		return opts.Name, opts.Location
	}
	switch m := opts.Meta.(type) {
	case RentalMetadata:
		name := m.EquipmentName
		if name == "" {
			name = "Equipment"
		}
		return "Rental Operator - " + name, "Rental Site"
	case ProjectMetadata:
		name := m.ProjectName
		if name == "" {
			name = "Project"
		}
		return "Project Assignment - " + name, "Project Site"
	case ManualMetadata:
		if m.Name != "" {
			return m.Name, m.Location
		}
		if opts.Notes != "" {
			return opts.Notes, m.Location
		}
		return "Manual Assignment", m.Location
	}
	return "Assignment", ""
}

func rentalRecord(m *models.RentalAssignment) *Record {
	ctx := ContextRental
	if m.AssignmentType == string(ContextManual) {
		ctx = ContextManual
	}
	return &Record{
		ID:         m.ID,
		Kind:       KindEquipment,
		Context:    ctx,
		EntityID:   m.EquipmentID,
		StartDate:  m.StartDate,
		EndDate:    m.EndDate,
		Status:     m.Status,
		Notes:      m.Notes,
		RentalID:   m.RentalID,
		ProjectID:  m.ProjectID,
		OperatorID: m.EmployeeID,
	}
}

func projectRecord(m *models.ProjectAssignment) *Record {
	pid := m.ProjectID
	return &Record{
		ID:         m.ID,
		Kind:       KindEquipment,
		Context:    ContextProject,
		EntityID:   m.EquipmentID,
		StartDate:  m.StartDate,
		EndDate:    m.EndDate,
		Status:     m.Status,
		Notes:      m.Notes,
		ProjectID:  &pid,
		OperatorID: m.OperatorID,
	}
}

// itemRecord views a rental-item mirror as a timeline record. Mirrors carry
// no start date of their own, so the creation day stands in for ordering.
func itemRecord(m *models.RentalItem) *Record {
	rid := m.RentalID
	return &Record{
		ID:         m.ID,
		Kind:       KindEquipment,
		Context:    ContextRental,
		EntityID:   m.EquipmentID,
		StartDate:  dateutil.Truncate(m.CreatedAt),
		EndDate:    m.CompletedDate,
		Status:     m.Status,
		Notes:      m.Notes,
		RentalID:   &rid,
		OperatorID: m.OperatorID,
	}
}

func employeeRecord(m *models.EmployeeAssignment) *Record {
	return &Record{
		ID:        m.ID,
		Kind:      KindEmployee,
		Context:   Context(m.Type),
		EntityID:  m.EmployeeID,
		Name:      m.Name,
		Location:  m.Location,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		Status:    m.Status,
		Notes:     m.Notes,
		RentalID:  m.RentalID,
		ProjectID: m.ProjectID,
	}
}
