package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/classtrack/classtrack-backend/internal/logger"
	"github.com/classtrack/classtrack-backend/internal/types"
)

// ErrDuplicateActivityDate is returned when a second record is created for the
// same student and calendar date. The store holds at most one row per day.
var ErrDuplicateActivityDate = errors.New("activity record already exists for this date")

type ActivityRecordRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.ActivityRecord) ([]*types.ActivityRecord, error)
	// Upsert replaces the day's record wholesale when one already exists.
	Upsert(ctx context.Context, tx *gorm.DB, row *types.ActivityRecord) error
	// GetByStudentID returns the student's full history. No ordering is
	// guaranteed; callers sort as needed.
	GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.ActivityRecord, error)
	FullDeleteByStudentIDs(ctx context.Context, tx *gorm.DB, studentIDs []uuid.UUID) error
}

type activityRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityRecordRepo(db *gorm.DB, baseLog *logger.Logger) ActivityRecordRepo {
	return &activityRecordRepo{db: db, log: baseLog.With("repo", "ActivityRecordRepo")}
}

func (r *activityRecordRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.ActivityRecord) ([]*types.ActivityRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.ActivityRecord{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateActivityDate
		}
		return nil, err
	}
	return rows, nil
}

func (r *activityRecordRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.ActivityRecord) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "date"}},
			UpdateAll: true,
		}).
		Create(row).Error
}

func (r *activityRecordRepo) GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.ActivityRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ActivityRecord
	if studentID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *activityRecordRepo) FullDeleteByStudentIDs(ctx context.Context, tx *gorm.DB, studentIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(studentIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Unscoped().
		Where("student_id IN ?", studentIDs).
		Delete(&types.ActivityRecord{}).Error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
