package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/classtrack/classtrack-backend/internal/clients/redis"
	"github.com/classtrack/classtrack-backend/internal/logger"
	"github.com/classtrack/classtrack-backend/internal/repos"
	"github.com/classtrack/classtrack-backend/internal/types"
)

type ActivityService interface {
	// RecordDay stores one day of observed activity. With overwrite set the
	// day's existing record is replaced wholesale; without it a duplicate
	// date surfaces repos.ErrDuplicateActivityDate.
	RecordDay(ctx context.Context, record *types.ActivityRecord, overwrite bool) (*types.ActivityRecord, error)
	// ListByStudent returns the student's history sorted ascending by date.
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*types.ActivityRecord, error)
}

type activityService struct {
	db          *gorm.DB
	log         *logger.Logger
	recordRepo  repos.ActivityRecordRepo
	studentRepo repos.StudentRepo
	cache       redis.SnapshotCache
}

func NewActivityService(
	db *gorm.DB,
	baseLog *logger.Logger,
	recordRepo repos.ActivityRecordRepo,
	studentRepo repos.StudentRepo,
	cache redis.SnapshotCache,
) ActivityService {
	return &activityService{
		db:          db,
		log:         baseLog.With("service", "ActivityService"),
		recordRepo:  recordRepo,
		studentRepo: studentRepo,
		cache:       cache,
	}
}

func (s *activityService) RecordDay(ctx context.Context, record *types.ActivityRecord, overwrite bool) (*types.ActivityRecord, error) {
	if record == nil {
		return nil, fmt.Errorf("record is required")
	}
	if record.StudentID == uuid.Nil {
		return nil, fmt.Errorf("student id is required")
	}
	if record.Date.IsZero() {
		return nil, fmt.Errorf("date is required")
	}
	if !record.AttendanceStatus.Valid() {
		return nil, fmt.Errorf("unknown attendance status %q", record.AttendanceStatus)
	}
	if err := validateRatings(record); err != nil {
		return nil, err
	}

	students, err := s.studentRepo.GetByIDs(ctx, nil, []uuid.UUID{record.StudentID})
	if err != nil {
		return nil, fmt.Errorf("failed to load student: %w", err)
	}
	if len(students) == 0 {
		return nil, fmt.Errorf("student not found")
	}

	record.ID = uuid.New()
	if overwrite {
		if err := s.recordRepo.Upsert(ctx, nil, record); err != nil {
			s.log.Error("failed to upsert activity record", "student_id", record.StudentID, "error", err)
			return nil, err
		}
	} else {
		if _, err := s.recordRepo.Create(ctx, nil, []*types.ActivityRecord{record}); err != nil {
			return nil, err
		}
	}

	// The stored snapshot is now stale; drop the cached copy so readers fall
	// back to the table until the next recompute.
	s.cache.Invalidate(ctx, record.StudentID)
	return record, nil
}

func (s *activityService) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*types.ActivityRecord, error) {
	if studentID == uuid.Nil {
		return nil, fmt.Errorf("student id is required")
	}
	records, err := s.recordRepo.GetByStudentID(ctx, nil, studentID)
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date.Before(records[j].Date) })
	return records, nil
}

func validateRatings(record *types.ActivityRecord) error {
	check := func(name string, v int) error {
		if v != 0 && (v < 1 || v > 5) {
			return fmt.Errorf("%s must be between 1 and 5", name)
		}
		return nil
	}
	if err := check("behavior rating", record.BehaviorRating); err != nil {
		return err
	}
	if err := check("participation level", record.ParticipationLevel); err != nil {
		return err
	}
	if err := check("discipline score", record.DisciplineScore); err != nil {
		return err
	}
	for _, item := range record.HomeworkCompleted {
		if !item.CompletionStatus.Valid() {
			return fmt.Errorf("unknown homework completion status %q", item.CompletionStatus)
		}
		if item.Quality != nil {
			if err := check("homework quality", *item.Quality); err != nil {
				return err
			}
		}
	}
	for _, study := range record.SubjectsStudied {
		if err := check("understanding level", study.UnderstandingLevel); err != nil {
			return err
		}
	}
	return nil
}
