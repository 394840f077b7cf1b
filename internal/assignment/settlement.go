package assignment

import (
	"fmt"
	"time"

	"github.com/sndworks/crewline/internal/dateutil"
	"github.com/sndworks/crewline/internal/models"
	"go.uber.org/zap"
)

// Settlement operations: an employee's vacation or exit forcibly completes
// every assignment they hold, and deleting the settlement record reverses it.
// The restore side matches on the exact end date the forward side wrote, so
// both must route their date arithmetic through dateutil.DayBefore.

// CompleteForVacation completes every assignment the employee holds that is
// not already completed, ending the day before the vacation starts. An
// employee on leave has no current assignment by definition, so pending
// records are swept up too. Returns the number of records completed.
func (e *Engine) CompleteForVacation(employeeID uint, vacationStart time.Time) (int, error) {
	if vacationStart.IsZero() {
		return 0, fmt.Errorf("%w: vacation start date is required", ErrInvalidAssignment)
	}
	return e.completeAllOpen(employeeID, dateutil.DayBefore(vacationStart), "vacation")
}

// CompleteForExit completes every non-completed assignment with the last
// working date itself as the end date (inclusive last day), unlike the
// day-before rule used everywhere else.
func (e *Engine) CompleteForExit(employeeID uint, lastWorkingDate time.Time) (int, error) {
	if lastWorkingDate.IsZero() {
		return 0, fmt.Errorf("%w: last working date is required", ErrInvalidAssignment)
	}
	return e.completeAllOpen(employeeID, dateutil.Truncate(lastWorkingDate), "exit")
}

// RestoreAfterVacationDeletion reverses CompleteForVacation: records completed
// with exactly the end date that operation would have written flip back to
// active and open-ended.
func (e *Engine) RestoreAfterVacationDeletion(employeeID uint, vacationStart time.Time) (int, error) {
	if vacationStart.IsZero() {
		return 0, fmt.Errorf("%w: vacation start date is required", ErrInvalidAssignment)
	}
	return e.restoreCompletedAt(employeeID, dateutil.DayBefore(vacationStart), "vacation")
}

// RestoreAfterExitDeletion reverses CompleteForExit.
func (e *Engine) RestoreAfterExitDeletion(employeeID uint, lastWorkingDate time.Time) (int, error) {
	if lastWorkingDate.IsZero() {
		return 0, fmt.Errorf("%w: last working date is required", ErrInvalidAssignment)
	}
	return e.restoreCompletedAt(employeeID, dateutil.Truncate(lastWorkingDate), "exit")
}

// completeAllOpen is the shared forward pass. Best-effort: a failed
// individual update is logged and skipped, the batch continues.
func (e *Engine) completeAllOpen(employeeID uint, end time.Time, reason string) (int, error) {
	var recs []models.EmployeeAssignment
	if err := e.db.Where("employee_id = ? AND status <> ?", employeeID, StatusCompleted).
		Find(&recs).Error; err != nil {
		return 0, fmt.Errorf("assignment: list open assignments for employee %d: %w", employeeID, err)
	}

	completed := 0
	for i := range recs {
		if err := e.db.Model(&recs[i]).Updates(map[string]interface{}{
			"status":   StatusCompleted,
			"end_date": end,
		}).Error; err != nil {
			e.log.Warn("settlement completion failed for record",
				zap.String("reason", reason),
				zap.Uint("employee_id", employeeID),
				zap.Uint("id", recs[i].ID),
				zap.Error(err))
			continue
		}
		completed++
	}
	e.log.Info("completed assignments for settlement",
		zap.String("reason", reason),
		zap.Uint("employee_id", employeeID),
		zap.String("end_date", dateutil.Format(end)),
		zap.Int("completed", completed))
	return completed, nil
}

// restoreCompletedAt is the shared reverse pass, matching by exact end date.
func (e *Engine) restoreCompletedAt(employeeID uint, end time.Time, reason string) (int, error) {
	var recs []models.EmployeeAssignment
	if err := e.db.Where("employee_id = ? AND status = ? AND end_date = ?",
		employeeID, StatusCompleted, end).
		Find(&recs).Error; err != nil {
		return 0, fmt.Errorf("assignment: list restorable assignments for employee %d: %w", employeeID, err)
	}

	restored := 0
	for i := range recs {
		if err := e.db.Model(&recs[i]).Updates(map[string]interface{}{
			"status":   StatusActive,
			"end_date": nil,
		}).Error; err != nil {
			e.log.Warn("settlement restore failed for record",
				zap.String("reason", reason),
				zap.Uint("employee_id", employeeID),
				zap.Uint("id", recs[i].ID),
				zap.Error(err))
			continue
		}
		restored++
	}
	e.log.Info("restored assignments after settlement deletion",
		zap.String("reason", reason),
		zap.Uint("employee_id", employeeID),
		zap.String("end_date", dateutil.Format(end)),
		zap.Int("restored", restored))
	return restored, nil
}
