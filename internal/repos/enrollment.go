package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/classtrack/classtrack-backend/internal/logger"
	"github.com/classtrack/classtrack-backend/internal/types"
)

type EnrollmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Enrollment) ([]*types.Enrollment, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Enrollment, error)
	GetByClassroomID(ctx context.Context, tx *gorm.DB, classroomID uuid.UUID) ([]*types.Enrollment, error)
	// ListActiveStudentIDs resolves the currently-enrolled students of a classroom.
	ListActiveStudentIDs(ctx context.Context, tx *gorm.DB, classroomID uuid.UUID) ([]uuid.UUID, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.EnrollmentStatus) error
}

type enrollmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	return &enrollmentRepo{db: db, log: baseLog.With("repo", "EnrollmentRepo")}
}

func (r *enrollmentRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Enrollment) ([]*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.Enrollment{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *enrollmentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Enrollment
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *enrollmentRepo) GetByClassroomID(ctx context.Context, tx *gorm.DB, classroomID uuid.UUID) ([]*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Enrollment
	if classroomID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("classroom_id = ?", classroomID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *enrollmentRepo) ListActiveStudentIDs(ctx context.Context, tx *gorm.DB, classroomID uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var ids []uuid.UUID
	if classroomID == uuid.Nil {
		return ids, nil
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Enrollment{}).
		Where("classroom_id = ? AND status = ?", classroomID, types.EnrollmentActive).
		Order("enrolled_at").
		Pluck("student_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *enrollmentRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.EnrollmentStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	updates := map[string]interface{}{"status": status}
	if status != types.EnrollmentActive {
		updates["left_at"] = gorm.Expr("now()")
	}
	return transaction.WithContext(ctx).
		Model(&types.Enrollment{}).
		Where("id = ?", id).
		Updates(updates).Error
}
