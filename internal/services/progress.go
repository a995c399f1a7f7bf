package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/classtrack/classtrack-backend/internal/clients/redis"
	"github.com/classtrack/classtrack-backend/internal/logger"
	"github.com/classtrack/classtrack-backend/internal/repos"
	"github.com/classtrack/classtrack-backend/internal/types"
)

// ErrMalformedRecord is returned when a student's history contains a record
// with no usable date. The student's recompute fails as a whole; other
// students in a bulk run are unaffected.
var ErrMalformedRecord = errors.New("activity record has no usable date")

// RecomputeOutcome reports one student's result inside a bulk run.
type RecomputeOutcome struct {
	StudentID uuid.UUID       `json:"student_id"`
	Success   bool            `json:"success"`
	RiskLevel types.RiskLevel `json:"risk_level,omitempty"`
	Error     string          `json:"error,omitempty"`
}

type ProgressService interface {
	// Recompute rebuilds a student's snapshot from their full activity
	// history and replaces the stored row wholesale.
	Recompute(ctx context.Context, studentID uuid.UUID) (*types.ProgressSnapshot, error)
	// BulkRecompute recomputes every actively enrolled student in a
	// classroom. One student's failure never aborts the rest; the outcome
	// slice has exactly one entry per distinct student.
	BulkRecompute(ctx context.Context, classroomID uuid.UUID) ([]RecomputeOutcome, error)
	// GetSnapshot serves the stored snapshot, computing one lazily when the
	// student has never been recomputed.
	GetSnapshot(ctx context.Context, studentID uuid.UUID) (*types.ProgressSnapshot, error)
	ListAtRisk(ctx context.Context, minLevel types.RiskLevel) ([]*types.ProgressSnapshot, error)
}

type progressService struct {
	db          *gorm.DB
	log         *logger.Logger
	records     repos.ActivityRecordRepo
	snapshots   repos.ProgressSnapshotRepo
	enrollments repos.EnrollmentRepo
	subjects    repos.SubjectRepo
	cache       redis.SnapshotCache
	concurrency int
	now         func() time.Time
}

func NewProgressService(
	db *gorm.DB,
	baseLog *logger.Logger,
	records repos.ActivityRecordRepo,
	snapshots repos.ProgressSnapshotRepo,
	enrollments repos.EnrollmentRepo,
	subjects repos.SubjectRepo,
	cache redis.SnapshotCache,
	concurrency int,
) ProgressService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &progressService{
		db:          db,
		log:         baseLog.With("service", "ProgressService"),
		records:     records,
		snapshots:   snapshots,
		enrollments: enrollments,
		subjects:    subjects,
		cache:       cache,
		concurrency: concurrency,
		now:         time.Now,
	}
}

func (s *progressService) Recompute(ctx context.Context, studentID uuid.UUID) (*types.ProgressSnapshot, error) {
	if studentID == uuid.Nil {
		return nil, fmt.Errorf("recompute: student id is required")
	}
	history, err := s.records.GetByStudentID(ctx, nil, studentID)
	if err != nil {
		s.log.Error("failed to load activity history", "student_id", studentID, "error", err)
		return nil, err
	}
	for _, r := range history {
		if r.Date.IsZero() {
			return nil, fmt.Errorf("student %s record %s: %w", studentID, r.ID, ErrMalformedRecord)
		}
	}
	sort.Slice(history, func(i, j int) bool { return history[i].Date.Before(history[j].Date) })

	snapshot, err := s.buildSnapshot(ctx, studentID, history)
	if err != nil {
		return nil, err
	}
	if err := s.snapshots.Upsert(ctx, nil, snapshot); err != nil {
		s.log.Error("failed to upsert snapshot", "student_id", studentID, "error", err)
		return nil, err
	}
	s.cache.Set(ctx, snapshot)
	s.cache.InvalidateAtRisk(ctx)
	s.log.Info("snapshot recomputed",
		"student_id", studentID,
		"records", len(history),
		"risk_level", snapshot.RiskLevel,
	)
	return snapshot, nil
}

// buildSnapshot runs the aggregation folds over a date-sorted history and
// assembles the replacement row. It never touches storage for the write; the
// caller owns persistence.
func (s *progressService) buildSnapshot(ctx context.Context, studentID uuid.UUID, history []*types.ActivityRecord) (*types.ProgressSnapshot, error) {
	now := s.now()
	snapshot := &types.ProgressSnapshot{
		StudentID:        studentID,
		RiskLevel:        types.RiskLow,
		LastCalculatedAt: now,
	}
	if len(history) == 0 {
		// A student with no recorded activity still gets a snapshot row so
		// dashboards can tell "never computed" from "nothing to report".
		return snapshot, nil
	}

	lastDate := history[len(history)-1].Date
	snapshot.LastActivityDate = &lastDate

	attendance := aggregateAttendance(history)
	streaks := computeStreaks(history)
	homework := aggregateHomework(history, now)
	behavior := aggregateBehavior(history)

	names, err := s.subjectNames(ctx, history)
	if err != nil {
		return nil, err
	}
	subjects := aggregateSubjects(history, names)

	snapshot.DaysPresent = attendance.DaysPresent
	snapshot.DaysAbsent = attendance.DaysAbsent
	snapshot.TotalHoursStudied = attendance.TotalHours
	snapshot.OverallAttendanceRate = attendance.RatePercent

	snapshot.CurrentAttendanceStreak = streaks.CurrentAttendance
	snapshot.LongestAttendanceStreak = streaks.LongestAttendance
	snapshot.CurrentHomeworkStreak = streaks.CurrentHomework

	snapshot.HomeworkCompletionRate = homework.CompletionRate
	snapshot.AverageHomeworkQuality = homework.AvgQuality
	snapshot.PendingHomeworkCount = homework.PendingCount
	snapshot.OverdueHomeworkCount = homework.OverdueCount

	snapshot.AvgBehaviorRating = behavior.BehaviorAvg
	snapshot.AvgParticipationLevel = behavior.ParticipationAvg
	snapshot.AvgDisciplineScore = behavior.DisciplineAvg
	snapshot.PunctualityRate = behavior.PunctualityRate

	snapshot.ReadingLevel = behavior.SkillAvgs[types.SkillReading]
	snapshot.WritingLevel = behavior.SkillAvgs[types.SkillWriting]
	snapshot.ListeningLevel = behavior.SkillAvgs[types.SkillListening]
	snapshot.SpeakingLevel = behavior.SkillAvgs[types.SkillSpeaking]
	snapshot.CriticalThinkingLevel = behavior.SkillAvgs[types.SkillCriticalThinking]

	snapshot.SubjectPerformance = datatypes.NewJSONSlice(subjects.Performance)
	snapshot.StrongestSubjects = datatypes.NewJSONSlice(subjects.Strongest)
	snapshot.WeakestSubjects = datatypes.NewJSONSlice(subjects.Weakest)

	level, reasons := classifyRisk(riskInput{
		AttendanceRate: attendance.RatePercent,
		HomeworkRate:   homework.CompletionRate,
		BehaviorAvg:    behavior.BehaviorAvg,
		WeakSubjects:   len(subjects.Weakest),
	})
	snapshot.RiskLevel = level
	snapshot.AttentionReasons = datatypes.NewJSONSlice(reasons)
	snapshot.NeedsAttention = level != types.RiskLow
	snapshot.InterventionRequired = level == types.RiskCritical

	return snapshot, nil
}

// subjectNames resolves every subject id referenced anywhere in the history.
// Unresolvable ids are left out; the aggregator falls back to "Unknown".
func (s *progressService) subjectNames(ctx context.Context, history []*types.ActivityRecord) (map[uuid.UUID]string, error) {
	seen := make(map[uuid.UUID]struct{})
	for _, r := range history {
		for _, study := range r.SubjectsStudied {
			seen[study.SubjectID] = struct{}{}
		}
		for _, assessment := range r.AssessmentsTaken {
			seen[assessment.SubjectID] = struct{}{}
		}
	}
	delete(seen, uuid.Nil)
	if len(seen) == 0 {
		return map[uuid.UUID]string{}, nil
	}
	ids := make([]uuid.UUID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	rows, err := s.subjects.GetByIDs(ctx, nil, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(rows))
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}

func (s *progressService) BulkRecompute(ctx context.Context, classroomID uuid.UUID) ([]RecomputeOutcome, error) {
	if classroomID == uuid.Nil {
		return nil, fmt.Errorf("bulk recompute: classroom id is required")
	}
	ids, err := s.enrollments.ListActiveStudentIDs(ctx, nil, classroomID)
	if err != nil {
		s.log.Error("failed to list enrolled students", "classroom_id", classroomID, "error", err)
		return nil, err
	}

	// Dedupe so the same student never runs twice in one pass.
	seen := make(map[uuid.UUID]struct{}, len(ids))
	students := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		students = append(students, id)
	}

	outcomes := make([]RecomputeOutcome, len(students))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, studentID := range students {
		g.Go(func() error {
			snapshot, err := s.Recompute(gctx, studentID)
			if err != nil {
				outcomes[i] = RecomputeOutcome{StudentID: studentID, Error: err.Error()}
				return nil
			}
			outcomes[i] = RecomputeOutcome{
				StudentID: studentID,
				Success:   true,
				RiskLevel: snapshot.RiskLevel,
			}
			return nil
		})
	}
	// Workers record per-student failures in outcomes and never return an
	// error, so Wait only blocks until the pool drains.
	_ = g.Wait()

	failed := 0
	for _, outcome := range outcomes {
		if !outcome.Success {
			failed++
		}
	}
	s.log.Info("bulk recompute finished",
		"classroom_id", classroomID,
		"students", len(students),
		"failed", failed,
	)
	return outcomes, nil
}

func (s *progressService) GetSnapshot(ctx context.Context, studentID uuid.UUID) (*types.ProgressSnapshot, error) {
	if studentID == uuid.Nil {
		return nil, fmt.Errorf("get snapshot: student id is required")
	}
	if snapshot, ok := s.cache.Get(ctx, studentID); ok {
		return snapshot, nil
	}
	snapshot, err := s.snapshots.GetByStudentID(ctx, nil, studentID)
	if err != nil {
		return nil, err
	}
	if snapshot != nil {
		s.cache.Set(ctx, snapshot)
		return snapshot, nil
	}
	return s.Recompute(ctx, studentID)
}

func (s *progressService) ListAtRisk(ctx context.Context, minLevel types.RiskLevel) ([]*types.ProgressSnapshot, error) {
	if !minLevel.Valid() {
		minLevel = types.RiskHigh
	}
	if snapshots, ok := s.cache.GetAtRisk(ctx, minLevel); ok {
		return snapshots, nil
	}
	snapshots, err := s.snapshots.ListNeedingAttention(ctx, nil, minLevel)
	if err != nil {
		s.log.Error("failed to list at-risk students", "min_level", minLevel, "error", err)
		return nil, err
	}
	s.cache.SetAtRisk(ctx, minLevel, snapshots)
	return snapshots, nil
}
