package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/classtrack/classtrack-backend/internal/logger"
	"github.com/classtrack/classtrack-backend/internal/repos"
	"github.com/classtrack/classtrack-backend/internal/types"
)

type ClassroomService interface {
	CreateClassroom(ctx context.Context, classroom *types.Classroom) (*types.Classroom, error)
	GetClassroom(ctx context.Context, id uuid.UUID) (*types.Classroom, error)
	ListClassrooms(ctx context.Context) ([]*types.Classroom, error)
	EnrollStudent(ctx context.Context, classroomID, studentID uuid.UUID) (*types.Enrollment, error)
	UpdateEnrollmentStatus(ctx context.Context, enrollmentID uuid.UUID, status types.EnrollmentStatus) error
	ListEnrollments(ctx context.Context, classroomID uuid.UUID) ([]*types.Enrollment, error)
}

type classroomService struct {
	db             *gorm.DB
	log            *logger.Logger
	classroomRepo  repos.ClassroomRepo
	enrollmentRepo repos.EnrollmentRepo
	studentRepo    repos.StudentRepo
}

func NewClassroomService(
	db *gorm.DB,
	baseLog *logger.Logger,
	classroomRepo repos.ClassroomRepo,
	enrollmentRepo repos.EnrollmentRepo,
	studentRepo repos.StudentRepo,
) ClassroomService {
	return &classroomService{
		db:             db,
		log:            baseLog.With("service", "ClassroomService"),
		classroomRepo:  classroomRepo,
		enrollmentRepo: enrollmentRepo,
		studentRepo:    studentRepo,
	}
}

func (cs *classroomService) CreateClassroom(ctx context.Context, classroom *types.Classroom) (*types.Classroom, error) {
	if classroom == nil {
		return nil, fmt.Errorf("classroom is required")
	}
	classroom.Name = strings.TrimSpace(classroom.Name)
	if classroom.Name == "" {
		return nil, fmt.Errorf("classroom name is required")
	}
	if classroom.AcademicYear == "" {
		return nil, fmt.Errorf("academic year is required")
	}
	classroom.ID = uuid.New()
	created, err := cs.classroomRepo.Create(ctx, nil, []*types.Classroom{classroom})
	if err != nil {
		cs.log.Error("failed to create classroom", "name", classroom.Name, "error", err)
		return nil, fmt.Errorf("failed to create classroom: %w", err)
	}
	return created[0], nil
}

func (cs *classroomService) GetClassroom(ctx context.Context, id uuid.UUID) (*types.Classroom, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("classroom id is required")
	}
	classrooms, err := cs.classroomRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("failed to load classroom: %w", err)
	}
	if len(classrooms) == 0 {
		return nil, fmt.Errorf("classroom not found")
	}
	return classrooms[0], nil
}

func (cs *classroomService) ListClassrooms(ctx context.Context) ([]*types.Classroom, error) {
	return cs.classroomRepo.List(ctx, nil)
}

func (cs *classroomService) EnrollStudent(ctx context.Context, classroomID, studentID uuid.UUID) (*types.Enrollment, error) {
	if classroomID == uuid.Nil || studentID == uuid.Nil {
		return nil, fmt.Errorf("classroom id and student id are required")
	}
	var enrollment *types.Enrollment
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		classrooms, err := cs.classroomRepo.GetByIDs(ctx, tx, []uuid.UUID{classroomID})
		if err != nil {
			return fmt.Errorf("failed to load classroom: %w", err)
		}
		if len(classrooms) == 0 {
			return fmt.Errorf("classroom not found")
		}
		students, err := cs.studentRepo.GetByIDs(ctx, tx, []uuid.UUID{studentID})
		if err != nil {
			return fmt.Errorf("failed to load student: %w", err)
		}
		if len(students) == 0 {
			return fmt.Errorf("student not found")
		}
		if !students[0].Active {
			return fmt.Errorf("student is not active")
		}
		enrollment = &types.Enrollment{
			ID:          uuid.New(),
			StudentID:   studentID,
			ClassroomID: classroomID,
			Status:      types.EnrollmentActive,
		}
		if _, err := cs.enrollmentRepo.Create(ctx, tx, []*types.Enrollment{enrollment}); err != nil {
			return fmt.Errorf("failed to create enrollment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (cs *classroomService) UpdateEnrollmentStatus(ctx context.Context, enrollmentID uuid.UUID, status types.EnrollmentStatus) error {
	if enrollmentID == uuid.Nil {
		return fmt.Errorf("enrollment id is required")
	}
	if !status.Valid() {
		return fmt.Errorf("unknown enrollment status %q", status)
	}
	if err := cs.enrollmentRepo.UpdateStatus(ctx, nil, enrollmentID, status); err != nil {
		return fmt.Errorf("failed to update enrollment status: %w", err)
	}
	return nil
}

func (cs *classroomService) ListEnrollments(ctx context.Context, classroomID uuid.UUID) ([]*types.Enrollment, error) {
	if classroomID == uuid.Nil {
		return nil, fmt.Errorf("classroom id is required")
	}
	return cs.enrollmentRepo.GetByClassroomID(ctx, nil, classroomID)
}
