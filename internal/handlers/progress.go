package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/classtrack/classtrack-backend/internal/services"
	"github.com/classtrack/classtrack-backend/internal/types"
)

type ProgressHandler struct {
	progressService services.ProgressService
	notifier        services.RiskNotifier
}

func NewProgressHandler(progressService services.ProgressService, notifier services.RiskNotifier) *ProgressHandler {
	return &ProgressHandler{progressService: progressService, notifier: notifier}
}

func (ph *ProgressHandler) GetSnapshot(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	snapshot, err := ph.progressService.GetSnapshot(c.Request.Context(), studentID)
	if err != nil {
		if errors.Is(err, services.ErrMalformedRecord) {
			RespondError(c, http.StatusUnprocessableEntity, "malformed_history", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "snapshot_failed", err)
		return
	}
	RespondOK(c, snapshot)
}

func (ph *ProgressHandler) Recompute(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	snapshot, err := ph.progressService.Recompute(c.Request.Context(), studentID)
	if err != nil {
		if errors.Is(err, services.ErrMalformedRecord) {
			RespondError(c, http.StatusUnprocessableEntity, "malformed_history", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "recompute_failed", err)
		return
	}
	if snapshot.NeedsAttention {
		ph.notifier.StudentAtRisk(c.Request.Context(), snapshot)
	}
	RespondOK(c, snapshot)
}

func (ph *ProgressHandler) BulkRecompute(c *gin.Context) {
	classroomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	outcomes, err := ph.progressService.BulkRecompute(c.Request.Context(), classroomID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "bulk_recompute_failed", err)
		return
	}
	succeeded := 0
	for _, outcome := range outcomes {
		if outcome.Success {
			succeeded++
		}
	}
	RespondOK(c, gin.H{
		"outcomes":  outcomes,
		"total":     len(outcomes),
		"succeeded": succeeded,
		"failed":    len(outcomes) - succeeded,
	})
}

func (ph *ProgressHandler) ListAtRisk(c *gin.Context) {
	minLevel := types.RiskLevel(c.DefaultQuery("min_level", string(types.RiskHigh)))
	if !minLevel.Valid() {
		RespondError(c, http.StatusBadRequest, "invalid_level", errors.New("min_level must be one of low, medium, high, critical"))
		return
	}
	snapshots, err := ph.progressService.ListAtRisk(c.Request.Context(), minLevel)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "at_risk_failed", err)
		return
	}
	RespondOK(c, snapshots)
}
