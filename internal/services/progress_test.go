package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/classtrack/classtrack-backend/internal/clients/redis"
	"github.com/classtrack/classtrack-backend/internal/logger"
	"github.com/classtrack/classtrack-backend/internal/repos"
	"github.com/classtrack/classtrack-backend/internal/types"
)

// In-memory repo fakes. Only the methods the orchestrator touches have real
// behavior; the rest return zero values.

type fakeActivityRecordRepo struct {
	mu        sync.Mutex
	byStudent map[uuid.UUID][]*types.ActivityRecord
}

func newFakeActivityRecordRepo() *fakeActivityRecordRepo {
	return &fakeActivityRecordRepo{byStudent: map[uuid.UUID][]*types.ActivityRecord{}}
}

func (f *fakeActivityRecordRepo) add(records ...*types.ActivityRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range records {
		f.byStudent[r.StudentID] = append(f.byStudent[r.StudentID], r)
	}
}

func (f *fakeActivityRecordRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.ActivityRecord) ([]*types.ActivityRecord, error) {
	f.add(rows...)
	return rows, nil
}

func (f *fakeActivityRecordRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.ActivityRecord) error {
	f.add(row)
	return nil
}

func (f *fakeActivityRecordRepo) GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.ActivityRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*types.ActivityRecord{}, f.byStudent[studentID]...), nil
}

func (f *fakeActivityRecordRepo) FullDeleteByStudentIDs(ctx context.Context, tx *gorm.DB, studentIDs []uuid.UUID) error {
	return nil
}

type fakeProgressSnapshotRepo struct {
	mu        sync.Mutex
	byStudent map[uuid.UUID]*types.ProgressSnapshot
	upserts   int
}

func newFakeProgressSnapshotRepo() *fakeProgressSnapshotRepo {
	return &fakeProgressSnapshotRepo{byStudent: map[uuid.UUID]*types.ProgressSnapshot{}}
}

func (f *fakeProgressSnapshotRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.ProgressSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	f.byStudent[row.StudentID] = row
	return nil
}

func (f *fakeProgressSnapshotRepo) GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (*types.ProgressSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byStudent[studentID], nil
}

func (f *fakeProgressSnapshotRepo) GetByStudentIDs(ctx context.Context, tx *gorm.DB, studentIDs []uuid.UUID) ([]*types.ProgressSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.ProgressSnapshot
	for _, id := range studentIDs {
		if s, ok := f.byStudent[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeProgressSnapshotRepo) ListNeedingAttention(ctx context.Context, tx *gorm.DB, minLevel types.RiskLevel) ([]*types.ProgressSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.ProgressSnapshot
	for _, s := range f.byStudent {
		if s.NeedsAttention && s.RiskLevel.Severity() >= minLevel.Severity() {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeProgressSnapshotRepo) FullDeleteByStudentIDs(ctx context.Context, tx *gorm.DB, studentIDs []uuid.UUID) error {
	return nil
}

type fakeEnrollmentRepo struct {
	activeByClassroom map[uuid.UUID][]uuid.UUID
}

func (f *fakeEnrollmentRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Enrollment) ([]*types.Enrollment, error) {
	return rows, nil
}

func (f *fakeEnrollmentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Enrollment, error) {
	return nil, nil
}

func (f *fakeEnrollmentRepo) GetByClassroomID(ctx context.Context, tx *gorm.DB, classroomID uuid.UUID) ([]*types.Enrollment, error) {
	return nil, nil
}

func (f *fakeEnrollmentRepo) ListActiveStudentIDs(ctx context.Context, tx *gorm.DB, classroomID uuid.UUID) ([]uuid.UUID, error) {
	return f.activeByClassroom[classroomID], nil
}

func (f *fakeEnrollmentRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.EnrollmentStatus) error {
	return nil
}

type fakeSubjectRepo struct {
	byID map[uuid.UUID]*types.Subject
}

func (f *fakeSubjectRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Subject) ([]*types.Subject, error) {
	return rows, nil
}

func (f *fakeSubjectRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Subject, error) {
	var out []*types.Subject
	for _, id := range ids {
		if s, ok := f.byID[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubjectRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Subject, error) {
	return nil, nil
}

func testProgressService(t *testing.T, records repos.ActivityRecordRepo, snapshots repos.ProgressSnapshotRepo, enrollments repos.EnrollmentRepo, subjects repos.SubjectRepo, concurrency int) *progressService {
	t.Helper()
	log, err := logger.New("production")
	if err != nil {
		t.Fatalf("logger init: %v", err)
	}
	svc := NewProgressService(nil, log, records, snapshots, enrollments, subjects, redis.NewNoopSnapshotCache(), concurrency)
	ps := svc.(*progressService)
	ps.now = func() time.Time { return day(30) }
	return ps
}

func TestRecomputeEmptyHistoryWritesMinimalSnapshot(t *testing.T) {
	records := newFakeActivityRecordRepo()
	snapshots := newFakeProgressSnapshotRepo()
	svc := testProgressService(t, records, snapshots, &fakeEnrollmentRepo{}, &fakeSubjectRepo{}, 1)

	studentID := uuid.New()
	got, err := svc.Recompute(context.Background(), studentID)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if got.RiskLevel != types.RiskLow {
		t.Fatalf("risk: want=low got=%q", got.RiskLevel)
	}
	if got.LastActivityDate != nil {
		t.Fatalf("last activity date: want=nil got=%v", got.LastActivityDate)
	}
	if got.NeedsAttention {
		t.Fatal("empty history must not need attention")
	}
	if got.OverallAttendanceRate != 0 || got.HomeworkCompletionRate != 0 {
		t.Fatalf("rates: want 0/0 got %v/%v", got.OverallAttendanceRate, got.HomeworkCompletionRate)
	}
	if snapshots.upserts != 1 {
		t.Fatalf("upserts: want=1 got=%d", snapshots.upserts)
	}
}

func TestRecomputeMalformedRecordFails(t *testing.T) {
	records := newFakeActivityRecordRepo()
	snapshots := newFakeProgressSnapshotRepo()
	svc := testProgressService(t, records, snapshots, &fakeEnrollmentRepo{}, &fakeSubjectRepo{}, 1)

	studentID := uuid.New()
	good := record(0, types.AttendancePresent)
	good.StudentID = studentID
	bad := &types.ActivityRecord{ID: uuid.New(), StudentID: studentID, AttendanceStatus: types.AttendancePresent}
	records.add(good, bad)

	_, err := svc.Recompute(context.Background(), studentID)
	if !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("want ErrMalformedRecord, got=%v", err)
	}
	if snapshots.upserts != 0 {
		t.Fatalf("no snapshot must be written on failure, upserts=%d", snapshots.upserts)
	}
}

func TestRecomputeIsIdempotent(t *testing.T) {
	records := newFakeActivityRecordRepo()
	snapshots := newFakeProgressSnapshotRepo()
	svc := testProgressService(t, records, snapshots, &fakeEnrollmentRepo{}, &fakeSubjectRepo{}, 1)

	studentID := uuid.New()
	for i := 0; i < 5; i++ {
		r := record(i, types.AttendancePresent)
		r.StudentID = studentID
		records.add(r)
	}

	first, err := svc.Recompute(context.Background(), studentID)
	if err != nil {
		t.Fatalf("first recompute: %v", err)
	}
	second, err := svc.Recompute(context.Background(), studentID)
	if err != nil {
		t.Fatalf("second recompute: %v", err)
	}
	if first.OverallAttendanceRate != second.OverallAttendanceRate ||
		first.RiskLevel != second.RiskLevel ||
		first.CurrentAttendanceStreak != second.CurrentAttendanceStreak {
		t.Fatalf("recompute not stable: first=%+v second=%+v", first, second)
	}
	if snapshots.upserts != 2 {
		t.Fatalf("upserts: want=2 got=%d", snapshots.upserts)
	}
}

func TestBulkRecomputeIsolatesFailures(t *testing.T) {
	records := newFakeActivityRecordRepo()
	snapshots := newFakeProgressSnapshotRepo()

	classroomID := uuid.New()
	var studentIDs []uuid.UUID
	for i := 0; i < 5; i++ {
		studentIDs = append(studentIDs, uuid.New())
	}
	for i, id := range studentIDs {
		r := record(i, types.AttendancePresent)
		r.StudentID = id
		if i == 2 {
			// Zero date poisons this student's history.
			r.Date = time.Time{}
		}
		records.add(r)
	}
	enrollments := &fakeEnrollmentRepo{activeByClassroom: map[uuid.UUID][]uuid.UUID{
		// Duplicate enrollment rows for the first student.
		classroomID: append([]uuid.UUID{studentIDs[0]}, studentIDs...),
	}}
	svc := testProgressService(t, records, snapshots, enrollments, &fakeSubjectRepo{}, 3)

	outcomes, err := svc.BulkRecompute(context.Background(), classroomID)
	if err != nil {
		t.Fatalf("bulk recompute: %v", err)
	}
	if len(outcomes) != 5 {
		t.Fatalf("outcomes: want=5 got=%d", len(outcomes))
	}
	failures := 0
	for _, outcome := range outcomes {
		if outcome.Success {
			if outcome.RiskLevel == "" {
				t.Fatalf("successful outcome missing risk level: %+v", outcome)
			}
			continue
		}
		failures++
		if outcome.StudentID != studentIDs[2] {
			t.Fatalf("unexpected failed student: %s", outcome.StudentID)
		}
		if outcome.Error == "" {
			t.Fatal("failed outcome missing error message")
		}
	}
	if failures != 1 {
		t.Fatalf("failures: want=1 got=%d", failures)
	}
	if snapshots.upserts != 4 {
		t.Fatalf("upserts: want=4 got=%d", snapshots.upserts)
	}
}

func TestGetSnapshotComputesLazily(t *testing.T) {
	records := newFakeActivityRecordRepo()
	snapshots := newFakeProgressSnapshotRepo()
	svc := testProgressService(t, records, snapshots, &fakeEnrollmentRepo{}, &fakeSubjectRepo{}, 1)

	studentID := uuid.New()
	r := record(0, types.AttendancePresent)
	r.StudentID = studentID
	records.add(r)

	got, err := svc.GetSnapshot(context.Background(), studentID)
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if got == nil {
		t.Fatal("want snapshot, got nil")
	}
	if snapshots.upserts != 1 {
		t.Fatalf("lazy compute should persist once, upserts=%d", snapshots.upserts)
	}

	// Second read serves the stored row without recomputing.
	if _, err := svc.GetSnapshot(context.Background(), studentID); err != nil {
		t.Fatalf("second get snapshot: %v", err)
	}
	if snapshots.upserts != 1 {
		t.Fatalf("stored snapshot must be reused, upserts=%d", snapshots.upserts)
	}
}

func TestListAtRiskFiltersByLevel(t *testing.T) {
	records := newFakeActivityRecordRepo()
	snapshots := newFakeProgressSnapshotRepo()
	svc := testProgressService(t, records, snapshots, &fakeEnrollmentRepo{}, &fakeSubjectRepo{}, 1)

	atRisk := &types.ProgressSnapshot{StudentID: uuid.New(), RiskLevel: types.RiskCritical, NeedsAttention: true}
	fine := &types.ProgressSnapshot{StudentID: uuid.New(), RiskLevel: types.RiskLow}
	if err := snapshots.Upsert(context.Background(), nil, atRisk); err != nil {
		t.Fatalf("seed upsert: %v", err)
	}
	if err := snapshots.Upsert(context.Background(), nil, fine); err != nil {
		t.Fatalf("seed upsert: %v", err)
	}

	got, err := svc.ListAtRisk(context.Background(), types.RiskHigh)
	if err != nil {
		t.Fatalf("list at risk: %v", err)
	}
	if len(got) != 1 || got[0].StudentID != atRisk.StudentID {
		t.Fatalf("want only the critical student, got=%v", got)
	}
}

func TestRecomputeResolvesSubjectNames(t *testing.T) {
	records := newFakeActivityRecordRepo()
	snapshots := newFakeProgressSnapshotRepo()
	mathID := uuid.New()
	subjects := &fakeSubjectRepo{byID: map[uuid.UUID]*types.Subject{
		mathID: {ID: mathID, Name: "Mathematics", Code: "MATH"},
	}}
	svc := testProgressService(t, records, snapshots, &fakeEnrollmentRepo{}, subjects, 1)

	studentID := uuid.New()
	r := record(0, types.AttendancePresent)
	r.StudentID = studentID
	r.SubjectsStudied = []types.SubjectStudy{{SubjectID: mathID, UnderstandingLevel: 5}}
	records.add(r)

	got, err := svc.Recompute(context.Background(), studentID)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if len(got.SubjectPerformance) != 1 {
		t.Fatalf("subject performance: want=1 got=%d", len(got.SubjectPerformance))
	}
	if got.SubjectPerformance[0].Name != "Mathematics" {
		t.Fatalf("name: want=Mathematics got=%q", got.SubjectPerformance[0].Name)
	}
	if len(got.StrongestSubjects) != 1 {
		t.Fatalf("strongest: want=1 got=%d", len(got.StrongestSubjects))
	}
}
