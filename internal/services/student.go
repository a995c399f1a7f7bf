package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/classtrack/classtrack-backend/internal/clients/redis"
	"github.com/classtrack/classtrack-backend/internal/logger"
	"github.com/classtrack/classtrack-backend/internal/repos"
	"github.com/classtrack/classtrack-backend/internal/types"
)

type StudentService interface {
	CreateStudent(ctx context.Context, student *types.Student) (*types.Student, error)
	GetStudent(ctx context.Context, id uuid.UUID) (*types.Student, error)
	ListStudents(ctx context.Context, activeOnly bool) ([]*types.Student, error)
	UpdateStudent(ctx context.Context, student *types.Student) error
	// DeactivateStudent marks the student inactive and removes them from all
	// derived data surfaces. Their raw activity history is kept.
	DeactivateStudent(ctx context.Context, id uuid.UUID) error
}

type studentService struct {
	db           *gorm.DB
	log          *logger.Logger
	studentRepo  repos.StudentRepo
	snapshotRepo repos.ProgressSnapshotRepo
	cache        redis.SnapshotCache
}

func NewStudentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	studentRepo repos.StudentRepo,
	snapshotRepo repos.ProgressSnapshotRepo,
	cache redis.SnapshotCache,
) StudentService {
	return &studentService{
		db:           db,
		log:          baseLog.With("service", "StudentService"),
		studentRepo:  studentRepo,
		snapshotRepo: snapshotRepo,
		cache:        cache,
	}
}

func (ss *studentService) CreateStudent(ctx context.Context, student *types.Student) (*types.Student, error) {
	if student == nil {
		return nil, fmt.Errorf("student is required")
	}
	student.FirstName = strings.TrimSpace(student.FirstName)
	student.LastName = strings.TrimSpace(student.LastName)
	student.AdmissionNumber = strings.TrimSpace(student.AdmissionNumber)
	if student.FirstName == "" || student.LastName == "" {
		return nil, fmt.Errorf("first and last name are required")
	}
	if student.AdmissionNumber == "" {
		return nil, fmt.Errorf("admission number is required")
	}
	student.ID = uuid.New()
	student.Active = true
	created, err := ss.studentRepo.Create(ctx, nil, []*types.Student{student})
	if err != nil {
		ss.log.Error("failed to create student", "admission_number", student.AdmissionNumber, "error", err)
		return nil, fmt.Errorf("failed to create student: %w", err)
	}
	return created[0], nil
}

func (ss *studentService) GetStudent(ctx context.Context, id uuid.UUID) (*types.Student, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("student id is required")
	}
	students, err := ss.studentRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("failed to load student: %w", err)
	}
	if len(students) == 0 {
		return nil, fmt.Errorf("student not found")
	}
	return students[0], nil
}

func (ss *studentService) ListStudents(ctx context.Context, activeOnly bool) ([]*types.Student, error) {
	return ss.studentRepo.List(ctx, nil, activeOnly)
}

func (ss *studentService) UpdateStudent(ctx context.Context, student *types.Student) error {
	if student == nil || student.ID == uuid.Nil {
		return fmt.Errorf("student id is required")
	}
	if err := ss.studentRepo.Update(ctx, nil, student); err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}
	return nil
}

func (ss *studentService) DeactivateStudent(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("student id is required")
	}
	err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		student, err := ss.GetStudent(ctx, id)
		if err != nil {
			return err
		}
		student.Active = false
		if err := ss.studentRepo.Update(ctx, tx, student); err != nil {
			return fmt.Errorf("failed to deactivate student: %w", err)
		}
		if err := ss.snapshotRepo.FullDeleteByStudentIDs(ctx, tx, []uuid.UUID{id}); err != nil {
			return fmt.Errorf("failed to remove snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	ss.cache.Invalidate(ctx, id)
	ss.cache.InvalidateAtRisk(ctx)
	return nil
}
