package assignment

import (
	"fmt"

	"github.com/sndworks/crewline/internal/dateutil"
	"github.com/sndworks/crewline/internal/models"
	"go.uber.org/zap"
)

// ReconcileEmployeeTimeline recomputes every record's status and end date for
// one employee from scratch, so the timeline is consistent regardless of the
// order records were inserted, edited, or deleted in.
//
// The record with the latest start date (highest id on ties) is the current
// one: forced active and open-ended. Every other record ends the day before
// the first record with a strictly later start date — or the day before the
// current record's start when no such record exists. Two records sharing a
// start date therefore collapse the loser to a zero-length completed
// interval.
//
// Only records whose computed status or end date differ from their stored
// value are written, so a pass over an already-consistent timeline performs
// no writes. Returns the number of records updated.
func (e *Engine) ReconcileEmployeeTimeline(employeeID uint) (int, error) {
	var recs []models.EmployeeAssignment
	if err := e.db.Where("employee_id = ?", employeeID).
		Order("start_date ASC, id ASC").
		Find(&recs).Error; err != nil {
		return 0, fmt.Errorf("assignment: reconcile employee %d: %w", employeeID, err)
	}
	if len(recs) == 0 {
		return 0, nil
	}

	current := recs[len(recs)-1]
	updated := 0

	for i := range recs {
		r := &recs[i]

		if r.ID == current.ID {
			if r.Status == StatusActive && r.EndDate == nil {
				continue
			}
			if err := e.db.Model(r).Updates(map[string]interface{}{
				"status":   StatusActive,
				"end_date": nil,
			}).Error; err != nil {
				return updated, fmt.Errorf("assignment: reconcile employee %d: reopen %d: %w", employeeID, r.ID, err)
			}
			updated++
			continue
		}

		// First record after i whose start is strictly later; duplicates of
		// r's own start date are skipped over.
		var next *models.EmployeeAssignment
		for j := i + 1; j < len(recs); j++ {
			if recs[j].StartDate.After(r.StartDate) {
				next = &recs[j]
				break
			}
		}
		end := dateutil.DayBefore(current.StartDate)
		if next != nil {
			end = dateutil.DayBefore(next.StartDate)
		}

		if r.Status == StatusCompleted && r.EndDate != nil && dateutil.SameDay(*r.EndDate, end) {
			continue
		}
		if err := e.db.Model(r).Updates(map[string]interface{}{
			"status":   StatusCompleted,
			"end_date": end,
		}).Error; err != nil {
			return updated, fmt.Errorf("assignment: reconcile employee %d: close %d: %w", employeeID, r.ID, err)
		}
		updated++
	}

	if updated > 0 {
		e.log.Debug("reconciled employee timeline",
			zap.Uint("employee_id", employeeID),
			zap.Int("records", len(recs)),
			zap.Int("updated", updated))
	}
	return updated, nil
}
