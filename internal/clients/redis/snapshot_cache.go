package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/classtrack/classtrack-backend/internal/logger"
	"github.com/classtrack/classtrack-backend/internal/types"
)

// SnapshotCache fronts the progress_snapshots table for read-heavy dashboard
// traffic. Recompute writes through; reads fall back to the table on a miss.
type SnapshotCache interface {
	Get(ctx context.Context, studentID uuid.UUID) (*types.ProgressSnapshot, bool)
	Set(ctx context.Context, snapshot *types.ProgressSnapshot)
	Invalidate(ctx context.Context, studentID uuid.UUID)
	GetAtRisk(ctx context.Context, minLevel types.RiskLevel) ([]*types.ProgressSnapshot, bool)
	SetAtRisk(ctx context.Context, minLevel types.RiskLevel, snapshots []*types.ProgressSnapshot)
	InvalidateAtRisk(ctx context.Context)
	Close() error
}

type snapshotCache struct {
	log       *logger.Logger
	rdb       *goredis.Client
	ttl       time.Duration
	atRiskTTL time.Duration
	keyPrefix string
}

func NewSnapshotCache(log *logger.Logger) (SnapshotCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	ttlSeconds := 300
	if v := strings.TrimSpace(os.Getenv("SNAPSHOT_CACHE_TTL_SECONDS")); v != "" {
		if _, err := fmt.Sscanf(v, "%d", &ttlSeconds); err != nil {
			ttlSeconds = 300
		}
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &snapshotCache{
		log:       log.With("service", "SnapshotCache"),
		rdb:       rdb,
		ttl:       time.Duration(ttlSeconds) * time.Second,
		atRiskTTL: 30 * time.Second,
		keyPrefix: "classtrack:snapshot:",
	}, nil
}

// NewNoopSnapshotCache returns a cache whose operations all miss. Used when
// REDIS_ADDR is not configured; reads fall straight through to postgres.
func NewNoopSnapshotCache() SnapshotCache {
	return (*snapshotCache)(nil)
}

func (c *snapshotCache) snapshotKey(studentID uuid.UUID) string {
	return c.keyPrefix + studentID.String()
}

func (c *snapshotCache) atRiskKey(minLevel types.RiskLevel) string {
	return c.keyPrefix + "at_risk:" + string(minLevel)
}

func (c *snapshotCache) Get(ctx context.Context, studentID uuid.UUID) (*types.ProgressSnapshot, bool) {
	if c == nil || studentID == uuid.Nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, c.snapshotKey(studentID)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Debug("snapshot cache read failed", "error", err, "student_id", studentID)
		}
		return nil, false
	}
	var snapshot types.ProgressSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		c.log.Warn("snapshot cache entry corrupt, dropping", "error", err, "student_id", studentID)
		_ = c.rdb.Del(ctx, c.snapshotKey(studentID)).Err()
		return nil, false
	}
	return &snapshot, true
}

func (c *snapshotCache) Set(ctx context.Context, snapshot *types.ProgressSnapshot) {
	if c == nil || snapshot == nil || snapshot.StudentID == uuid.Nil {
		return
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		c.log.Warn("snapshot cache marshal failed", "error", err, "student_id", snapshot.StudentID)
		return
	}
	if err := c.rdb.Set(ctx, c.snapshotKey(snapshot.StudentID), raw, c.ttl).Err(); err != nil {
		c.log.Debug("snapshot cache write failed", "error", err, "student_id", snapshot.StudentID)
	}
}

func (c *snapshotCache) Invalidate(ctx context.Context, studentID uuid.UUID) {
	if c == nil || studentID == uuid.Nil {
		return
	}
	if err := c.rdb.Del(ctx, c.snapshotKey(studentID)).Err(); err != nil {
		c.log.Debug("snapshot cache invalidate failed", "error", err, "student_id", studentID)
	}
}

func (c *snapshotCache) GetAtRisk(ctx context.Context, minLevel types.RiskLevel) ([]*types.ProgressSnapshot, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, c.atRiskKey(minLevel)).Bytes()
	if err != nil {
		return nil, false
	}
	var snapshots []*types.ProgressSnapshot
	if err := json.Unmarshal(raw, &snapshots); err != nil {
		_ = c.rdb.Del(ctx, c.atRiskKey(minLevel)).Err()
		return nil, false
	}
	return snapshots, true
}

func (c *snapshotCache) SetAtRisk(ctx context.Context, minLevel types.RiskLevel, snapshots []*types.ProgressSnapshot) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(snapshots)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, c.atRiskKey(minLevel), raw, c.atRiskTTL).Err(); err != nil {
		c.log.Debug("at-risk cache write failed", "error", err)
	}
}

func (c *snapshotCache) InvalidateAtRisk(ctx context.Context) {
	if c == nil {
		return
	}
	for _, level := range []types.RiskLevel{types.RiskLow, types.RiskMedium, types.RiskHigh, types.RiskCritical} {
		if err := c.rdb.Del(ctx, c.atRiskKey(level)).Err(); err != nil {
			c.log.Debug("at-risk cache invalidate failed", "error", err, "level", level)
		}
	}
}

func (c *snapshotCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
