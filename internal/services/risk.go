package services

import (
	"fmt"

	"github.com/classtrack/classtrack-backend/internal/types"
)

// riskInput carries the four aggregate signals the classifier reads.
type riskInput struct {
	AttendanceRate float64
	HomeworkRate   float64
	BehaviorAvg    float64
	WeakSubjects   int
}

// Severity score boundaries for the final risk tier.
const (
	criticalScore = 7
	highScore     = 4
	mediumScore   = 2
)

// classifyRisk maps aggregated metrics to a discrete risk level plus the
// reasons behind it. Each metric contributes at most one tier, evaluated
// worst-first, and reasons accumulate in a fixed order (attendance, homework,
// behavior, weak subjects) so messages are deterministic.
func classifyRisk(in riskInput) (types.RiskLevel, []string) {
	score := 0
	var reasons []string

	switch {
	case in.AttendanceRate < 60:
		score += 3
		reasons = append(reasons, "Attendance below 60%")
	case in.AttendanceRate < 75:
		score += 2
		reasons = append(reasons, "Attendance below 75%")
	case in.AttendanceRate < 85:
		score++
		reasons = append(reasons, "Attendance below 85%")
	}

	switch {
	case in.HomeworkRate < 40:
		score += 3
		reasons = append(reasons, "Homework completion below 40%")
	case in.HomeworkRate < 60:
		score += 2
		reasons = append(reasons, "Homework completion below 60%")
	case in.HomeworkRate < 75:
		score++
		reasons = append(reasons, "Homework completion below 75%")
	}

	switch {
	case in.BehaviorAvg > 0 && in.BehaviorAvg < 2:
		score += 2
		reasons = append(reasons, "Poor behavior rating")
	case in.BehaviorAvg >= 2 && in.BehaviorAvg < 3:
		score++
		reasons = append(reasons, "Below average behavior")
	}

	switch {
	case in.WeakSubjects >= 3:
		score += 2
		reasons = append(reasons, fmt.Sprintf("%d weak subjects", in.WeakSubjects))
	case in.WeakSubjects >= 1:
		score++
		reasons = append(reasons, fmt.Sprintf("%d weak subject(s)", in.WeakSubjects))
	}

	return riskLevelForScore(score), reasons
}

func riskLevelForScore(score int) types.RiskLevel {
	switch {
	case score >= criticalScore:
		return types.RiskCritical
	case score >= highScore:
		return types.RiskHigh
	case score >= mediumScore:
		return types.RiskMedium
	default:
		return types.RiskLow
	}
}
