package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/classtrack/classtrack-backend/internal/logger"
	"github.com/classtrack/classtrack-backend/internal/types"
)

type ProgressSnapshotRepo interface {
	// Upsert replaces every derived field of the student's snapshot row.
	// The write is a full replace keyed by student_id, never a partial merge.
	Upsert(ctx context.Context, tx *gorm.DB, row *types.ProgressSnapshot) error
	GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (*types.ProgressSnapshot, error)
	GetByStudentIDs(ctx context.Context, tx *gorm.DB, studentIDs []uuid.UUID) ([]*types.ProgressSnapshot, error)
	// ListNeedingAttention returns flagged snapshots at or above minLevel,
	// most severe first.
	ListNeedingAttention(ctx context.Context, tx *gorm.DB, minLevel types.RiskLevel) ([]*types.ProgressSnapshot, error)
	FullDeleteByStudentIDs(ctx context.Context, tx *gorm.DB, studentIDs []uuid.UUID) error
}

type progressSnapshotRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgressSnapshotRepo(db *gorm.DB, baseLog *logger.Logger) ProgressSnapshotRepo {
	return &progressSnapshotRepo{db: db, log: baseLog.With("repo", "ProgressSnapshotRepo")}
}

func (r *progressSnapshotRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.ProgressSnapshot) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}},
			UpdateAll: true,
		}).
		Create(row).Error
}

func (r *progressSnapshotRepo) GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (*types.ProgressSnapshot, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if studentID == uuid.Nil {
		return nil, nil
	}
	var results []*types.ProgressSnapshot
	if err := transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *progressSnapshotRepo) GetByStudentIDs(ctx context.Context, tx *gorm.DB, studentIDs []uuid.UUID) ([]*types.ProgressSnapshot, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ProgressSnapshot
	if len(studentIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("student_id IN ?", studentIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *progressSnapshotRepo) ListNeedingAttention(ctx context.Context, tx *gorm.DB, minLevel types.RiskLevel) ([]*types.ProgressSnapshot, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	levels := make([]types.RiskLevel, 0, 3)
	for _, level := range []types.RiskLevel{types.RiskMedium, types.RiskHigh, types.RiskCritical} {
		if level.Severity() >= minLevel.Severity() {
			levels = append(levels, level)
		}
	}
	var results []*types.ProgressSnapshot
	if len(levels) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("needs_attention = ? AND risk_level IN ?", true, levels).
		Order(`CASE risk_level WHEN 'critical' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END, overall_attendance_rate`).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *progressSnapshotRepo) FullDeleteByStudentIDs(ctx context.Context, tx *gorm.DB, studentIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(studentIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("student_id IN ?", studentIDs).
		Delete(&types.ProgressSnapshot{}).Error
}
