package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/classtrack/classtrack-backend/internal/types"
)

func day(offset int) time.Time {
	return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func record(offset int, status types.AttendanceStatus) *types.ActivityRecord {
	return &types.ActivityRecord{
		ID:               uuid.New(),
		StudentID:        uuid.New(),
		Date:             day(offset),
		AttendanceStatus: status,
	}
}

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func TestAggregateAttendanceEmpty(t *testing.T) {
	got := aggregateAttendance(nil)
	if got.RatePercent != 0 {
		t.Fatalf("rate: want=0 got=%v", got.RatePercent)
	}
	if got.DaysPresent != 0 || got.DaysAbsent != 0 {
		t.Fatalf("counts: want 0/0 got %d/%d", got.DaysPresent, got.DaysAbsent)
	}
}

func TestAggregateAttendanceCountsLateAsPresent(t *testing.T) {
	records := []*types.ActivityRecord{}
	for i := 0; i < 6; i++ {
		records = append(records, record(i, types.AttendancePresent))
	}
	records = append(records, record(6, types.AttendanceLate))
	records = append(records, record(7, types.AttendanceLate))
	records = append(records, record(8, types.AttendanceAbsent))
	records = append(records, record(9, types.AttendanceExcused))

	got := aggregateAttendance(records)
	if got.DaysPresent != 8 {
		t.Fatalf("days present: want=8 got=%d", got.DaysPresent)
	}
	if got.DaysAbsent != 1 {
		t.Fatalf("days absent: want=1 got=%d", got.DaysAbsent)
	}
	if got.RatePercent != 80 {
		t.Fatalf("rate: want=80 got=%v", got.RatePercent)
	}
}

func TestAggregateAttendanceRounding(t *testing.T) {
	records := []*types.ActivityRecord{
		record(0, types.AttendancePresent),
		record(1, types.AttendancePresent),
		record(2, types.AttendanceAbsent),
	}
	got := aggregateAttendance(records)
	if got.RatePercent != 66.7 {
		t.Fatalf("rate: want=66.7 got=%v", got.RatePercent)
	}
}

func TestComputeStreaksAttendance(t *testing.T) {
	records := []*types.ActivityRecord{
		record(0, types.AttendancePresent),
		record(1, types.AttendancePresent),
		record(2, types.AttendancePresent),
		record(3, types.AttendanceAbsent),
		record(4, types.AttendanceLate),
		record(5, types.AttendancePresent),
	}
	got := computeStreaks(records)
	if got.CurrentAttendance != 2 {
		t.Fatalf("current: want=2 got=%d", got.CurrentAttendance)
	}
	if got.LongestAttendance != 3 {
		t.Fatalf("longest: want=3 got=%d", got.LongestAttendance)
	}
	if got.CurrentAttendance > got.LongestAttendance {
		t.Fatalf("current %d exceeds longest %d", got.CurrentAttendance, got.LongestAttendance)
	}
}

func TestComputeStreaksHomeworkResetsOnEmptyDay(t *testing.T) {
	complete := []types.HomeworkItem{{SubjectID: uuid.New(), CompletionStatus: types.HomeworkComplete}}

	withHomework := record(0, types.AttendancePresent)
	withHomework.HomeworkCompleted = datatypes.NewJSONSlice(complete)
	alsoWithHomework := record(1, types.AttendancePresent)
	alsoWithHomework.HomeworkCompleted = datatypes.NewJSONSlice(complete)
	emptyDay := record(2, types.AttendancePresent)
	lastDay := record(3, types.AttendancePresent)
	lastDay.HomeworkCompleted = datatypes.NewJSONSlice(complete)

	got := computeStreaks([]*types.ActivityRecord{withHomework, alsoWithHomework, emptyDay, lastDay})
	if got.CurrentHomework != 1 {
		t.Fatalf("homework streak: want=1 got=%d", got.CurrentHomework)
	}
}

func TestComputeStreaksHomeworkPartialBreaks(t *testing.T) {
	r := record(0, types.AttendancePresent)
	r.HomeworkCompleted = datatypes.NewJSONSlice([]types.HomeworkItem{
		{SubjectID: uuid.New(), CompletionStatus: types.HomeworkComplete},
		{SubjectID: uuid.New(), CompletionStatus: types.HomeworkPartial},
	})
	got := computeStreaks([]*types.ActivityRecord{r})
	if got.CurrentHomework != 0 {
		t.Fatalf("homework streak: want=0 got=%d", got.CurrentHomework)
	}
}

func TestAggregateHomeworkEmptyIsFullCompliance(t *testing.T) {
	got := aggregateHomework(nil, day(0))
	if got.CompletionRate != 100 {
		t.Fatalf("rate: want=100 got=%v", got.CompletionRate)
	}
	if got.AvgQuality != 0 {
		t.Fatalf("quality: want=0 got=%v", got.AvgQuality)
	}
}

func TestAggregateHomeworkRateAndQuality(t *testing.T) {
	subject := uuid.New()
	r := record(0, types.AttendancePresent)
	r.HomeworkAssigned = datatypes.NewJSONSlice([]types.HomeworkItem{
		{SubjectID: subject}, {SubjectID: subject}, {SubjectID: subject}, {SubjectID: subject},
	})
	r.HomeworkCompleted = datatypes.NewJSONSlice([]types.HomeworkItem{
		{SubjectID: subject, CompletionStatus: types.HomeworkComplete, Quality: intPtr(4)},
		{SubjectID: subject, CompletionStatus: types.HomeworkComplete, Quality: intPtr(5)},
		{SubjectID: subject, CompletionStatus: types.HomeworkPartial, Quality: intPtr(2)},
		// Out-of-range quality is ignored, not clamped.
		{SubjectID: subject, CompletionStatus: types.HomeworkNotDone, Quality: intPtr(9)},
	})

	got := aggregateHomework([]*types.ActivityRecord{r}, day(1))
	if got.AssignedTotal != 4 {
		t.Fatalf("assigned: want=4 got=%d", got.AssignedTotal)
	}
	if got.CompletedCount != 2 {
		t.Fatalf("completed: want=2 got=%d", got.CompletedCount)
	}
	if got.CompletionRate != 50 {
		t.Fatalf("rate: want=50 got=%v", got.CompletionRate)
	}
	if got.AvgQuality != 3.7 {
		t.Fatalf("quality: want=3.7 got=%v", got.AvgQuality)
	}
}

func TestAggregateHomeworkPendingOverdueStrict(t *testing.T) {
	now := day(5)
	subject := uuid.New()
	r := record(0, types.AttendancePresent)
	r.HomeworkAssigned = datatypes.NewJSONSlice([]types.HomeworkItem{
		{SubjectID: subject, DueDate: timePtr(day(6))}, // after now: pending
		{SubjectID: subject, DueDate: timePtr(day(4))}, // before now: overdue
		{SubjectID: subject, DueDate: timePtr(now)},    // equal: neither
		{SubjectID: subject},                           // no due date
	})

	got := aggregateHomework([]*types.ActivityRecord{r}, now)
	if got.PendingCount != 1 {
		t.Fatalf("pending: want=1 got=%d", got.PendingCount)
	}
	if got.OverdueCount != 1 {
		t.Fatalf("overdue: want=1 got=%d", got.OverdueCount)
	}
}

func TestAggregateHomeworkRateNonIncreasingWithNotDone(t *testing.T) {
	subject := uuid.New()
	base := record(0, types.AttendancePresent)
	base.HomeworkAssigned = datatypes.NewJSONSlice([]types.HomeworkItem{{SubjectID: subject}})
	base.HomeworkCompleted = datatypes.NewJSONSlice([]types.HomeworkItem{
		{SubjectID: subject, CompletionStatus: types.HomeworkComplete},
	})
	before := aggregateHomework([]*types.ActivityRecord{base}, day(2))

	extra := record(1, types.AttendancePresent)
	extra.HomeworkAssigned = datatypes.NewJSONSlice([]types.HomeworkItem{{SubjectID: subject}})
	extra.HomeworkCompleted = datatypes.NewJSONSlice([]types.HomeworkItem{
		{SubjectID: subject, CompletionStatus: types.HomeworkNotDone},
	})
	after := aggregateHomework([]*types.ActivityRecord{base, extra}, day(2))

	if after.CompletionRate > before.CompletionRate {
		t.Fatalf("rate increased after NOT_DONE: before=%v after=%v", before.CompletionRate, after.CompletionRate)
	}
}

func TestAggregateBehaviorSkipsUnratedDays(t *testing.T) {
	rated := record(0, types.AttendancePresent)
	rated.BehaviorRating = 4
	rated.ParticipationLevel = 3
	rated.Punctuality = true
	unrated := record(1, types.AttendanceAbsent)

	got := aggregateBehavior([]*types.ActivityRecord{rated, unrated})
	if got.BehaviorAvg != 4 {
		t.Fatalf("behavior avg: want=4 got=%v", got.BehaviorAvg)
	}
	if got.ParticipationAvg != 3 {
		t.Fatalf("participation avg: want=3 got=%v", got.ParticipationAvg)
	}
	if got.PunctualityRate != 50 {
		t.Fatalf("punctuality: want=50 got=%v", got.PunctualityRate)
	}
}

func TestAggregateBehaviorSkillAverages(t *testing.T) {
	first := record(0, types.AttendancePresent)
	first.SkillsSnapshot = datatypes.NewJSONType(map[string]int{
		types.SkillReading: 4,
		types.SkillWriting: 2,
	})
	second := record(1, types.AttendancePresent)
	second.SkillsSnapshot = datatypes.NewJSONType(map[string]int{
		types.SkillReading: 5,
	})

	got := aggregateBehavior([]*types.ActivityRecord{first, second})
	if got.SkillAvgs[types.SkillReading] != 4.5 {
		t.Fatalf("reading: want=4.5 got=%v", got.SkillAvgs[types.SkillReading])
	}
	if got.SkillAvgs[types.SkillWriting] != 2 {
		t.Fatalf("writing: want=2 got=%v", got.SkillAvgs[types.SkillWriting])
	}
	if got.SkillAvgs[types.SkillSpeaking] != 0 {
		t.Fatalf("speaking defaults to 0, got=%v", got.SkillAvgs[types.SkillSpeaking])
	}
}

func TestAggregateSubjectsMixesStudyAndAssessments(t *testing.T) {
	math := uuid.New()
	r := record(0, types.AttendancePresent)
	r.SubjectsStudied = datatypes.NewJSONSlice([]types.SubjectStudy{
		{SubjectID: math, UnderstandingLevel: 4}, // 80
	})
	r.AssessmentsTaken = datatypes.NewJSONSlice([]types.AssessmentResult{
		{SubjectID: math, MarksObtained: 45, TotalMarks: 50}, // 90
	})

	got := aggregateSubjects([]*types.ActivityRecord{r}, map[uuid.UUID]string{math: "Mathematics"})
	if len(got.Performance) != 1 {
		t.Fatalf("performance entries: want=1 got=%d", len(got.Performance))
	}
	perf := got.Performance[0]
	if perf.Percentage != 85 {
		t.Fatalf("percentage: want=85 got=%v", perf.Percentage)
	}
	if perf.Name != "Mathematics" {
		t.Fatalf("name: want=Mathematics got=%q", perf.Name)
	}
	if len(got.Strongest) != 1 || got.Strongest[0] != math {
		t.Fatalf("expected math in strongest, got=%v", got.Strongest)
	}
}

func TestAggregateSubjectsZeroObservationsExcluded(t *testing.T) {
	zeroTotal := uuid.New()
	r := record(0, types.AttendancePresent)
	r.AssessmentsTaken = datatypes.NewJSONSlice([]types.AssessmentResult{
		{SubjectID: zeroTotal, MarksObtained: 10, TotalMarks: 0},
	})

	got := aggregateSubjects([]*types.ActivityRecord{r}, nil)
	if len(got.Weakest) != 0 {
		t.Fatalf("subject without observations must not be weak, got=%v", got.Weakest)
	}
	if len(got.Strongest) != 0 {
		t.Fatalf("subject without observations must not be strong, got=%v", got.Strongest)
	}
}

func TestAggregateSubjectsWeakThreshold(t *testing.T) {
	weak := uuid.New()
	r := record(0, types.AttendancePresent)
	r.SubjectsStudied = datatypes.NewJSONSlice([]types.SubjectStudy{
		{SubjectID: weak, UnderstandingLevel: 2}, // 40
	})
	got := aggregateSubjects([]*types.ActivityRecord{r}, nil)
	if len(got.Weakest) != 1 || got.Weakest[0] != weak {
		t.Fatalf("expected weak subject, got=%v", got.Weakest)
	}
	if got.Performance[0].Name != "Unknown" {
		t.Fatalf("unresolved subject name: want=Unknown got=%q", got.Performance[0].Name)
	}
}

func TestSubjectTrend(t *testing.T) {
	tests := []struct {
		name         string
		observations []float64
		want         string
	}{
		{"too few observations", []float64{10, 90, 90}, types.TrendStable},
		{"improving", []float64{40, 40, 80, 80}, types.TrendImproving},
		{"declining", []float64{80, 80, 40, 40}, types.TrendDeclining},
		{"flat", []float64{60, 60, 62, 62}, types.TrendStable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := subjectTrend(tt.observations); got != tt.want {
				t.Fatalf("trend: want=%q got=%q", tt.want, got)
			}
		})
	}
}

func TestRound1(t *testing.T) {
	if got := round1(66.666666); got != 66.7 {
		t.Fatalf("round1: want=66.7 got=%v", got)
	}
	if got := round1(66.64); got != 66.6 {
		t.Fatalf("round1: want=66.6 got=%v", got)
	}
}
