// Package sweep runs the scheduled repair pass: reconciling every open
// employee timeline and re-deriving rental-item mirror state from the primary
// records.
// It is the self-healing path that closes the gap left by the non-transactional
// cross-store completion fan-out.
package sweep

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sndworks/crewline/internal/assignment"
	"github.com/sndworks/crewline/internal/dateutil"
	"github.com/sndworks/crewline/internal/equipstatus"
	"github.com/sndworks/crewline/internal/models"
	"github.com/sndworks/crewline/internal/notify"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Result summarizes one repair pass.
type Result struct {
	EmployeesChecked int
	TimelineUpdates  int
	MirrorsRepaired  int
	StatusRefreshed  int
}

// Repairs reports whether the pass changed anything.
func (r *Result) Repairs() int {
	return r.TimelineUpdates + r.MirrorsRepaired
}

// Run executes one repair pass. Per-employee reconciliation failures are
// logged and skipped so one bad timeline doesn't stall the rest.
func Run(db *gorm.DB, eng *assignment.Engine, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	res := &Result{}

	// Only employees holding a non-completed record. A fully settled
	// timeline (vacation or exit closed everything out) is consistent by
	// construction, and reconciling it would reopen the newest record and
	// break the exact-end-date match the settlement restore relies on.
	var employeeIDs []uint
	if err := db.Model(&models.EmployeeAssignment{}).
		Where("status <> ?", assignment.StatusCompleted).
		Distinct("employee_id").
		Pluck("employee_id", &employeeIDs).Error; err != nil {
		return nil, fmt.Errorf("sweep: list employees: %w", err)
	}
	for _, id := range employeeIDs {
		n, err := eng.ReconcileEmployeeTimeline(id)
		if err != nil {
			logger.Warn("sweep: reconcile failed", zap.Uint("employee_id", id), zap.Error(err))
			continue
		}
		res.EmployeesChecked++
		res.TimelineUpdates += n
	}

	repaired, touched, err := repairMirrors(db)
	if err != nil {
		return res, err
	}
	res.MirrorsRepaired = repaired
	for _, equipmentID := range touched {
		if err := equipstatus.Recompute(db, equipmentID); err != nil {
			logger.Warn("sweep: status recompute failed", zap.Uint("equipment_id", equipmentID), zap.Error(err))
			continue
		}
		res.StatusRefreshed++
	}

	logger.Info("sweep complete",
		zap.Int("employees_checked", res.EmployeesChecked),
		zap.Int("timeline_updates", res.TimelineUpdates),
		zap.Int("mirrors_repaired", res.MirrorsRepaired))
	return res, nil
}

// repairMirrors completes any rental-item mirror still open while its primary
// rental-context record is completed, copying the primary's end date.
func repairMirrors(db *gorm.DB) (int, []uint, error) {
	var primaries []models.RentalAssignment
	if err := db.Where("status = ? AND rental_id IS NOT NULL", assignment.StatusCompleted).
		Find(&primaries).Error; err != nil {
		return 0, nil, fmt.Errorf("sweep: list completed rental assignments: %w", err)
	}

	repaired := 0
	var touched []uint
	for i := range primaries {
		p := &primaries[i]
		end := dateutil.Today()
		if p.EndDate != nil {
			end = dateutil.Truncate(*p.EndDate)
		}
		res := db.Model(&models.RentalItem{}).
			Where("rental_id = ? AND equipment_id = ? AND status <> ?",
				*p.RentalID, p.EquipmentID, assignment.StatusCompleted).
			Updates(map[string]interface{}{
				"status":         assignment.StatusCompleted,
				"completed_date": end,
			})
		if res.Error != nil {
			return repaired, touched, fmt.Errorf("sweep: repair mirror for rental %d equipment %d: %w",
				*p.RentalID, p.EquipmentID, res.Error)
		}
		if res.RowsAffected > 0 {
			repaired += int(res.RowsAffected)
			touched = append(touched, p.EquipmentID)
		}
	}
	return repaired, touched, nil
}

// Opts configures the scheduled runner.
type Opts struct {
	DB       *gorm.DB
	Engine   *assignment.Engine
	Log      *zap.Logger
	Schedule string // 5-field cron expression
	Notify   notify.Config
}

// Start runs the repair pass on the configured cron schedule until ctx is
// cancelled.
func Start(ctx context.Context, opts Opts) error {
	sched, err := cronParser.Parse(opts.Schedule)
	if err != nil {
		return fmt.Errorf("sweep: parse schedule %q: %w", opts.Schedule, err)
	}
	logger := opts.Log
	if logger == nil {
		logger = zap.NewNop()
	}

	for {
		next := sched.Next(time.Now())
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Until(next)):
			res, err := Run(opts.DB, opts.Engine, logger)
			if err != nil {
				logger.Error("sweep failed", zap.Error(err))
				continue
			}
			if res.Repairs() > 0 {
				notify.Send(notify.Event{
					Subject: "Crewline sweep repaired assignments",
					Body: fmt.Sprintf("%d timeline updates, %d mirrors repaired",
						res.TimelineUpdates, res.MirrorsRepaired),
				}, opts.Notify)
			}
		}
	}
}
