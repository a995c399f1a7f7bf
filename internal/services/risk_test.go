package services

import (
	"testing"

	"github.com/classtrack/classtrack-backend/internal/types"
)

func TestClassifyRiskLevels(t *testing.T) {
	tests := []struct {
		name string
		in   riskInput
		want types.RiskLevel
	}{
		{
			name: "healthy student",
			in:   riskInput{AttendanceRate: 95, HomeworkRate: 90, BehaviorAvg: 4.5, WeakSubjects: 0},
			want: types.RiskLow,
		},
		{
			name: "single mild signal stays low",
			in:   riskInput{AttendanceRate: 84, HomeworkRate: 90, BehaviorAvg: 4, WeakSubjects: 0},
			want: types.RiskLow,
		},
		{
			name: "two mild signals reach medium",
			in:   riskInput{AttendanceRate: 84, HomeworkRate: 74, BehaviorAvg: 4, WeakSubjects: 0},
			want: types.RiskMedium,
		},
		{
			name: "poor attendance alone is medium",
			in:   riskInput{AttendanceRate: 55, HomeworkRate: 90, BehaviorAvg: 4, WeakSubjects: 0},
			want: types.RiskMedium,
		},
		{
			name: "attendance and homework collapse is high",
			in:   riskInput{AttendanceRate: 55, HomeworkRate: 35, BehaviorAvg: 4, WeakSubjects: 0},
			want: types.RiskHigh,
		},
		{
			name: "everything failing is critical",
			in:   riskInput{AttendanceRate: 50, HomeworkRate: 30, BehaviorAvg: 1.5, WeakSubjects: 3},
			want: types.RiskCritical,
		},
		{
			name: "zero behavior means no data not poor behavior",
			in:   riskInput{AttendanceRate: 95, HomeworkRate: 90, BehaviorAvg: 0, WeakSubjects: 0},
			want: types.RiskLow,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := classifyRisk(tt.in)
			if got != tt.want {
				t.Fatalf("level: want=%q got=%q", tt.want, got)
			}
		})
	}
}

func TestClassifyRiskReasonOrder(t *testing.T) {
	_, reasons := classifyRisk(riskInput{
		AttendanceRate: 50,
		HomeworkRate:   30,
		BehaviorAvg:    1.5,
		WeakSubjects:   4,
	})
	want := []string{
		"Attendance below 60%",
		"Homework completion below 40%",
		"Poor behavior rating",
		"4 weak subjects",
	}
	if len(reasons) != len(want) {
		t.Fatalf("reasons: want=%d got=%d (%v)", len(want), len(reasons), reasons)
	}
	for i := range want {
		if reasons[i] != want[i] {
			t.Fatalf("reason[%d]: want=%q got=%q", i, want[i], reasons[i])
		}
	}
}

func TestClassifyRiskFewWeakSubjectsWording(t *testing.T) {
	_, reasons := classifyRisk(riskInput{AttendanceRate: 95, HomeworkRate: 90, BehaviorAvg: 4, WeakSubjects: 2})
	if len(reasons) != 1 || reasons[0] != "2 weak subject(s)" {
		t.Fatalf("reasons: want [\"2 weak subject(s)\"] got=%v", reasons)
	}
}

func TestClassifyRiskAttendanceMonotonic(t *testing.T) {
	// Worsening attendance alone must never lower the risk level.
	prev := 0
	for _, rate := range []float64{90, 84, 74, 59} {
		level, _ := classifyRisk(riskInput{AttendanceRate: rate, HomeworkRate: 90, BehaviorAvg: 4})
		if level.Severity() < prev {
			t.Fatalf("severity decreased at attendance=%v", rate)
		}
		prev = level.Severity()
	}
}

func TestRiskLevelForScoreBoundaries(t *testing.T) {
	tests := []struct {
		score int
		want  types.RiskLevel
	}{
		{0, types.RiskLow},
		{1, types.RiskLow},
		{2, types.RiskMedium},
		{3, types.RiskMedium},
		{4, types.RiskHigh},
		{6, types.RiskHigh},
		{7, types.RiskCritical},
		{10, types.RiskCritical},
	}
	for _, tt := range tests {
		if got := riskLevelForScore(tt.score); got != tt.want {
			t.Fatalf("score=%d: want=%q got=%q", tt.score, tt.want, got)
		}
	}
}
