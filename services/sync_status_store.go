package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Sync job states as reported to clients polling /api/sync/status.
const (
	SyncStateIdle      = "idle"
	SyncStateRunning   = "running"
	SyncStateCompleted = "completed"
	SyncStateFailed    = "failed"
)

// How long a finished job's status sticks around for late pollers.
const syncStatusTTL = 30 * time.Minute

type SyncStatus struct {
	JobID           string    `json:"job_id"`
	Status          string    `json:"status"`
	EmailsProcessed int       `json:"emails_processed"`
	OrdersCreated   int       `json:"orders_created"`
	Errors          []string  `json:"errors"`
	StartedAt       time.Time `json:"started_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SyncStatusStore keeps per-user sync progress in Redis so status
// survives process restarts and is shared across replicas.
type SyncStatusStore struct {
	rdb *redis.Client
}

func NewSyncStatusStore(rdb *redis.Client) *SyncStatusStore {
	return &SyncStatusStore{rdb: rdb}
}

func syncStatusKey(userID uint) string {
	return fmt.Sprintf("bitewise:sync:%d", userID)
}

// Get returns nil when no sync has run recently for the user.
func (s *SyncStatusStore) Get(ctx context.Context, userID uint) (*SyncStatus, error) {
	raw, err := s.rdb.Get(ctx, syncStatusKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read sync status: %w", err)
	}

	var status SyncStatus
	if err := json.Unmarshal([]byte(raw), &status); err != nil {
		return nil, fmt.Errorf("decode sync status: %w", err)
	}
	return &status, nil
}

func (s *SyncStatusStore) Set(ctx context.Context, userID uint, status *SyncStatus) error {
	status.UpdatedAt = time.Now()
	raw, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("encode sync status: %w", err)
	}
	if err := s.rdb.Set(ctx, syncStatusKey(userID), raw, syncStatusTTL).Err(); err != nil {
		return fmt.Errorf("write sync status: %w", err)
	}
	return nil
}
