package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sndworks/crewline/internal/assignment"
	"github.com/sndworks/crewline/internal/dateutil"
)

// createRequest is the JSON body for POST /api/assignments. Context-specific
// fields are flattened; metadataFrom picks the ones valid for the context.
type createRequest struct {
	Kind      string `json:"kind" binding:"required"`
	EntityID  uint   `json:"entityId" binding:"required"`
	Context   string `json:"context" binding:"required"`
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate"`
	Status    string `json:"status"`
	Notes     string `json:"notes"`
	Name      string `json:"name"`
	Location  string `json:"location"`

	RentalID      uint    `json:"rentalId"`
	ProjectID     uint    `json:"projectId"`
	OperatorID    uint    `json:"operatorId"`
	AssignedBy    uint    `json:"assignedBy"`
	DailyRate     float64 `json:"dailyRate"`
	TotalAmount   float64 `json:"totalAmount"`
	HourlyRate    float64 `json:"hourlyRate"`
	EquipmentName string  `json:"equipmentName"`
	ProjectName   string  `json:"projectName"`
}

func handleCreate(eng *assignment.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		start, err := dateutil.Parse(req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid startDate: %v", err)})
			return
		}
		var end *time.Time
		if req.EndDate != "" {
			d, err := dateutil.Parse(req.EndDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid endDate: %v", err)})
				return
			}
			end = &d
		}
		meta, err := metadataFrom(&req)
		if err != nil {
			writeError(c, err)
			return
		}

		rec, err := eng.Create(assignment.CreateOpts{
			Kind:      assignment.ResourceKind(req.Kind),
			EntityID:  req.EntityID,
			StartDate: start,
			EndDate:   end,
			Status:    req.Status,
			Notes:     req.Notes,
			Meta:      meta,
			Name:      req.Name,
			Location:  req.Location,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, rec)
	}
}

func handleComplete(eng *assignment.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		kind, id, ok := kindAndID(c)
		if !ok {
			return
		}
		var req struct {
			EndDate string `json:"endDate"`
		}
		if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var end *time.Time
		if req.EndDate != "" {
			d, err := dateutil.Parse(req.EndDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid endDate: %v", err)})
				return
			}
			end = &d
		}
		if err := eng.Complete(kind, id, end); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"completed": id})
	}
}

func handleDelete(eng *assignment.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		kind, id, ok := kindAndID(c)
		if !ok {
			return
		}
		rec, err := eng.Delete(kind, id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

func handleEquipmentAssignments(eng *assignment.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		out, err := eng.GetEquipmentAssignments(id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func handleEmployeeAssignments(eng *assignment.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		recs, err := eng.GetEmployeeAssignments(id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"assignments": recs})
	}
}

// updateRequest is the JSON body for PATCH. Only present fields are applied;
// an explicit null endDate clears it.
type updateRequest struct {
	Name      *string `json:"name"`
	Type      *string `json:"type"`
	Location  *string `json:"location"`
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
	Status    *string `json:"status"`
	Notes     *string `json:"notes"`
}

func handleUpdateEmployee(eng *assignment.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req updateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		opts := assignment.UpdateOpts{
			Name:     req.Name,
			Type:     req.Type,
			Location: req.Location,
			Status:   req.Status,
			Notes:    req.Notes,
		}
		if req.StartDate != nil {
			d, err := dateutil.Parse(*req.StartDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid startDate: %v", err)})
				return
			}
			opts.StartDate = &d
		}
		if req.EndDate != nil {
			if *req.EndDate == "" {
				opts.ClearEndDate = true
			} else {
				d, err := dateutil.Parse(*req.EndDate)
				if err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid endDate: %v", err)})
					return
				}
				opts.EndDate = &d
			}
		}

		rec, err := eng.UpdateEmployeeAssignment(id, opts)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

func handleReconcile(eng *assignment.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		updated, err := eng.ReconcileEmployeeTimeline(id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"updated": updated})
	}
}

// settlementHandler adapts the four settlement operations, which share the
// same request shape (one date) and response shape (a record count).
func settlementHandler(field string, op func(uint, time.Time) (int, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req map[string]string
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		raw, found := req[field]
		if !found || raw == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s is required", field)})
			return
		}
		date, err := dateutil.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s: %v", field, err)})
			return
		}
		n, err := op(id, date)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"affected": n})
	}
}

func handleVacation(eng *assignment.Engine) gin.HandlerFunc {
	return settlementHandler("startDate", eng.CompleteForVacation)
}

func handleVacationDeletion(eng *assignment.Engine) gin.HandlerFunc {
	return settlementHandler("startDate", eng.RestoreAfterVacationDeletion)
}

func handleExit(eng *assignment.Engine) gin.HandlerFunc {
	return settlementHandler("lastWorkingDate", eng.CompleteForExit)
}

func handleExitDeletion(eng *assignment.Engine) gin.HandlerFunc {
	return settlementHandler("lastWorkingDate", eng.RestoreAfterExitDeletion)
}

// metadataFrom builds the context metadata variant from the flattened
// request fields.
func metadataFrom(req *createRequest) (assignment.Metadata, error) {
	switch assignment.Context(req.Context) {
	case assignment.ContextRental:
		return assignment.RentalMetadata{
			RentalID:      req.RentalID,
			ProjectID:     optID(req.ProjectID),
			DailyRate:     req.DailyRate,
			TotalAmount:   req.TotalAmount,
			EquipmentName: req.EquipmentName,
		}, nil
	case assignment.ContextProject:
		return assignment.ProjectMetadata{
			ProjectID:   req.ProjectID,
			OperatorID:  optID(req.OperatorID),
			AssignedBy:  optID(req.AssignedBy),
			HourlyRate:  req.HourlyRate,
			ProjectName: req.ProjectName,
		}, nil
	case assignment.ContextManual:
		return assignment.ManualMetadata{
			OperatorID:  optID(req.OperatorID),
			DailyRate:   req.DailyRate,
			TotalAmount: req.TotalAmount,
			Name:        req.Name,
			Location:    req.Location,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", assignment.ErrInvalidContext, req.Context)
	}
}

func optID(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}

func pathID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s %q", name, raw)})
		return 0, false
	}
	return uint(id), true
}

func kindAndID(c *gin.Context) (assignment.ResourceKind, uint, bool) {
	kind := assignment.ResourceKind(c.Param("kind"))
	switch kind {
	case assignment.KindEquipment, assignment.KindEmployee:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown kind %q", c.Param("kind"))})
		return "", 0, false
	}
	id, ok := pathID(c, "id")
	if !ok {
		return "", 0, false
	}
	return kind, id, true
}

// writeError maps engine errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	var pce *assignment.PartialCompletionError
	switch {
	case errors.Is(err, assignment.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, assignment.ErrInvalidContext), errors.Is(err, assignment.ErrInvalidAssignment):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &pce):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":     err.Error(),
			"failed":    pce.Failed,
			"succeeded": pce.Succeeded,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
