package services

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/classtrack/classtrack-backend/internal/types"
)

// Pure aggregation passes over a student's date-sorted activity history.
// Each fold is independent so they can be tested in isolation; the
// orchestrator in progress.go runs them in sequence and assembles the
// snapshot.

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

type attendanceTotals struct {
	DaysPresent int
	DaysAbsent  int
	TotalHours  float64
	RatePercent float64
}

func aggregateAttendance(records []*types.ActivityRecord) attendanceTotals {
	var out attendanceTotals
	for _, r := range records {
		if r.AttendanceStatus.CountsPresent() {
			out.DaysPresent++
		}
		if r.AttendanceStatus == types.AttendanceAbsent {
			out.DaysAbsent++
		}
		if r.TotalHoursSpent > 0 {
			out.TotalHours += r.TotalHoursSpent
		}
	}
	out.TotalHours = round1(out.TotalHours)
	if len(records) > 0 {
		out.RatePercent = round1(float64(out.DaysPresent) / float64(len(records)) * 100)
	}
	return out
}

type streakTotals struct {
	CurrentAttendance int
	LongestAttendance int
	CurrentHomework   int
}

// computeStreaks expects records sorted ascending by date. A present or late
// day extends the attendance streak, anything else resets it. The homework
// streak extends only on days where at least one completed entry exists and
// every completed entry is fully complete; a day with no completed entries
// resets it.
func computeStreaks(records []*types.ActivityRecord) streakTotals {
	var out streakTotals
	for _, r := range records {
		if r.AttendanceStatus.CountsPresent() {
			out.CurrentAttendance++
			if out.CurrentAttendance > out.LongestAttendance {
				out.LongestAttendance = out.CurrentAttendance
			}
		} else {
			out.CurrentAttendance = 0
		}

		if homeworkDayComplete(r.HomeworkCompleted) {
			out.CurrentHomework++
		} else {
			out.CurrentHomework = 0
		}
	}
	return out
}

func homeworkDayComplete(completed []types.HomeworkItem) bool {
	if len(completed) == 0 {
		return false
	}
	for _, item := range completed {
		if item.CompletionStatus != types.HomeworkComplete {
			return false
		}
	}
	return true
}

type homeworkTotals struct {
	AssignedTotal  int
	CompletedCount int
	PendingCount   int
	OverdueCount   int
	CompletionRate float64
	AvgQuality     float64
}

// aggregateHomework walks assigned and completed arrays independently; they
// are not required to correspond 1:1. Due-date classification is strict:
// a due date equal to now is neither pending nor overdue.
func aggregateHomework(records []*types.ActivityRecord, now time.Time) homeworkTotals {
	var out homeworkTotals
	var qualitySum, qualityCount int
	for _, r := range records {
		out.AssignedTotal += len(r.HomeworkAssigned)
		for _, item := range r.HomeworkAssigned {
			if item.DueDate == nil {
				continue
			}
			if item.DueDate.After(now) {
				out.PendingCount++
			} else if item.DueDate.Before(now) {
				out.OverdueCount++
			}
		}
		for _, item := range r.HomeworkCompleted {
			if item.CompletionStatus == types.HomeworkComplete {
				out.CompletedCount++
			}
			if item.Quality != nil && *item.Quality >= 1 && *item.Quality <= 5 {
				qualitySum += *item.Quality
				qualityCount++
			}
		}
	}
	if out.AssignedTotal == 0 {
		// No assigned homework is full compliance, not zero.
		out.CompletionRate = 100
	} else {
		out.CompletionRate = round1(float64(out.CompletedCount) / float64(out.AssignedTotal) * 100)
	}
	if qualityCount > 0 {
		out.AvgQuality = round1(float64(qualitySum) / float64(qualityCount))
	}
	return out
}

type behaviorTotals struct {
	BehaviorAvg      float64
	ParticipationAvg float64
	DisciplineAvg    float64
	PunctualityRate  float64
	SkillAvgs        map[string]float64
}

// aggregateBehavior averages the 1-5 ratings, skipping records where a rating
// was never captured (stored as 0). Skill averages only cover records where
// the skill appears in the day's snapshot.
func aggregateBehavior(records []*types.ActivityRecord) behaviorTotals {
	out := behaviorTotals{SkillAvgs: make(map[string]float64, len(types.RecognizedSkills))}

	avg := func(pick func(*types.ActivityRecord) int) float64 {
		var sum, count int
		for _, r := range records {
			if v := pick(r); v >= 1 && v <= 5 {
				sum += v
				count++
			}
		}
		if count == 0 {
			return 0
		}
		return round1(float64(sum) / float64(count))
	}

	out.BehaviorAvg = avg(func(r *types.ActivityRecord) int { return r.BehaviorRating })
	out.ParticipationAvg = avg(func(r *types.ActivityRecord) int { return r.ParticipationLevel })
	out.DisciplineAvg = avg(func(r *types.ActivityRecord) int { return r.DisciplineScore })

	if len(records) > 0 {
		var punctual int
		for _, r := range records {
			if r.Punctuality {
				punctual++
			}
		}
		out.PunctualityRate = round1(float64(punctual) / float64(len(records)) * 100)
	}

	for _, skill := range types.RecognizedSkills {
		var sum, count int
		for _, r := range records {
			snapshot := r.SkillsSnapshot.Data()
			if snapshot == nil {
				continue
			}
			if v, ok := snapshot[skill]; ok && v >= 1 && v <= 5 {
				sum += v
				count++
			}
		}
		if count > 0 {
			out.SkillAvgs[skill] = round1(float64(sum) / float64(count))
		} else {
			out.SkillAvgs[skill] = 0
		}
	}
	return out
}

type subjectTotals struct {
	Performance []types.SubjectPerformance
	Strongest   []uuid.UUID
	Weakest     []uuid.UUID
}

const (
	strongSubjectThreshold = 80
	weakSubjectThreshold   = 50
)

// aggregateSubjects mixes two observation kinds per subject on a 0-100 scale:
// understanding levels from study sessions (level * 20) and percentage-correct
// from assessments. Records missing a subject id land in a uuid.Nil bucket.
// A subject with no observations scores 0 and is excluded from both the
// strongest and weakest lists; absence of data is not evidence of weakness.
func aggregateSubjects(records []*types.ActivityRecord, names map[uuid.UUID]string) subjectTotals {
	type bucket struct {
		observations []float64
	}
	buckets := make(map[uuid.UUID]*bucket)
	var order []uuid.UUID

	observe := func(subjectID uuid.UUID, value float64) {
		b, ok := buckets[subjectID]
		if !ok {
			b = &bucket{}
			buckets[subjectID] = b
			order = append(order, subjectID)
		}
		b.observations = append(b.observations, value)
	}

	for _, r := range records {
		for _, study := range r.SubjectsStudied {
			if study.UnderstandingLevel >= 1 && study.UnderstandingLevel <= 5 {
				observe(study.SubjectID, float64(study.UnderstandingLevel)*20)
			}
		}
		for _, assessment := range r.AssessmentsTaken {
			if assessment.TotalMarks > 0 {
				observe(assessment.SubjectID, assessment.MarksObtained/assessment.TotalMarks*100)
			}
		}
	}

	out := subjectTotals{}
	sort.Slice(order, func(i, j int) bool { return order[i].String() < order[j].String() })
	for _, subjectID := range order {
		b := buckets[subjectID]
		var sum float64
		for _, v := range b.observations {
			sum += v
		}
		percentage := 0.0
		if len(b.observations) > 0 {
			percentage = round1(sum / float64(len(b.observations)))
		}
		name := names[subjectID]
		if name == "" {
			name = "Unknown"
		}
		out.Performance = append(out.Performance, types.SubjectPerformance{
			SubjectID:  subjectID,
			Name:       name,
			Percentage: percentage,
			Trend:      subjectTrend(b.observations),
		})
		switch {
		case percentage >= strongSubjectThreshold:
			out.Strongest = append(out.Strongest, subjectID)
		case percentage > 0 && percentage < weakSubjectThreshold:
			out.Weakest = append(out.Weakest, subjectID)
		}
	}
	return out
}

// subjectTrend compares the first and second half of a subject's observation
// series (records are walked in date order, so the split is chronological).
// Fewer than four observations is too little signal to call a direction.
func subjectTrend(observations []float64) string {
	if len(observations) < 4 {
		return types.TrendStable
	}
	half := len(observations) / 2
	mean := func(vals []float64) float64 {
		var sum float64
		for _, v := range vals {
			sum += v
		}
		return sum / float64(len(vals))
	}
	delta := mean(observations[half:]) - mean(observations[:half])
	switch {
	case delta > 5:
		return types.TrendImproving
	case delta < -5:
		return types.TrendDeclining
	default:
		return types.TrendStable
	}
}
