package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/classtrack/classtrack-backend/internal/logger"
	"github.com/classtrack/classtrack-backend/internal/types"
)

type ClassroomRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Classroom) ([]*types.Classroom, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Classroom, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Classroom, error)
}

type classroomRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClassroomRepo(db *gorm.DB, baseLog *logger.Logger) ClassroomRepo {
	return &classroomRepo{db: db, log: baseLog.With("repo", "ClassroomRepo")}
}

func (r *classroomRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Classroom) ([]*types.Classroom, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.Classroom{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *classroomRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Classroom, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Classroom
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

func (r *classroomRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Classroom, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Classroom
	if err := transaction.WithContext(ctx).
		Order("academic_year DESC, grade_level, name").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
