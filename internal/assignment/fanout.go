package assignment

import (
	"time"

	"github.com/sndworks/crewline/internal/models"
	"go.uber.org/zap"
)

// storeResult is one store's outcome in the completion fan-out.
type storeResult struct {
	store string
	err   error
}

// completeOpenEquipmentAssignments closes every open assignment for one
// equipment unit across all three context stores, setting the given end date.
// The three updates run concurrently with no cross-store transaction: each is
// idempotent (filtered on status=active) and safe to retry, so a partial
// failure leaves the survivors committed and is reported explicitly rather
// than rolled back.
func (e *Engine) completeOpenEquipmentAssignments(equipmentID uint, endDate time.Time) error {
	results := make(chan storeResult, 3)

	go func() {
		err := e.db.Model(&models.RentalAssignment{}).
			Where("equipment_id = ? AND status = ?", equipmentID, StatusActive).
			Updates(map[string]interface{}{
				"end_date": endDate,
				"status":   StatusCompleted,
			}).Error
		results <- storeResult{StoreRental, err}
	}()

	go func() {
		err := e.db.Model(&models.ProjectAssignment{}).
			Where("equipment_id = ? AND status = ?", equipmentID, StatusActive).
			Updates(map[string]interface{}{
				"end_date": endDate,
				"status":   StatusCompleted,
			}).Error
		results <- storeResult{StoreProject, err}
	}()

	go func() {
		err := e.db.Model(&models.RentalItem{}).
			Where("equipment_id = ? AND status = ?", equipmentID, StatusActive).
			Updates(map[string]interface{}{
				"completed_date": endDate,
				"status":         StatusCompleted,
			}).Error
		results <- storeResult{StoreRentalItems, err}
	}()

	var pce PartialCompletionError
	for i := 0; i < 3; i++ {
		r := <-results
		if r.err != nil {
			pce.Failed = append(pce.Failed, r.store)
			pce.Errs = append(pce.Errs, r.err)
			e.log.Error("equipment completion store update failed",
				zap.Uint("equipment_id", equipmentID),
				zap.String("store", r.store),
				zap.Error(r.err))
		} else {
			pce.Succeeded = append(pce.Succeeded, r.store)
		}
	}

	if len(pce.Failed) > 0 {
		return &pce
	}
	return nil
}
