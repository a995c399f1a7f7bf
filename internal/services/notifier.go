package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/classtrack/classtrack-backend/internal/logger"
	"github.com/classtrack/classtrack-backend/internal/types"
)

// RiskNotifier is the seam between the snapshot engine and whatever delivers
// alerts. Recomputation itself never notifies; callers inspect the returned
// snapshot and forward flagged students here.
type RiskNotifier interface {
	StudentAtRisk(ctx context.Context, snapshot *types.ProgressSnapshot)
}

type logRiskNotifier struct {
	log *logger.Logger
}

func NewLogRiskNotifier(baseLog *logger.Logger) RiskNotifier {
	return &logRiskNotifier{log: baseLog.With("service", "RiskNotifier")}
}

func (n *logRiskNotifier) StudentAtRisk(ctx context.Context, snapshot *types.ProgressSnapshot) {
	if n == nil || snapshot == nil || snapshot.StudentID == uuid.Nil {
		return
	}
	if !snapshot.NeedsAttention {
		return
	}
	n.log.Warn("student flagged at risk",
		"student_id", snapshot.StudentID,
		"risk_level", snapshot.RiskLevel,
		"intervention_required", snapshot.InterventionRequired,
		"reasons", []string(snapshot.AttentionReasons),
	)
}
