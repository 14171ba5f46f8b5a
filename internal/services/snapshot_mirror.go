/**
 * @description
 * Mirrors each fresh snapshot into Redis and announces it on a pub/sub channel.
 * Other processes (and the SSE stream hub) read from here; the in-process
 * snapshot stays authoritative.
 *
 * @dependencies
 * - github.com/redis/go-redis/v9
 */

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/polyintel-project/backend/internal/models"
	"github.com/redis/go-redis/v9"
)

const DefaultMirrorTTL = 10 * time.Minute

// RefreshNotice is the payload published after every successful refresh
type RefreshNotice struct {
	Type  string       `json:"type"`
	Stats models.Stats `json:"stats"`
}

type SnapshotMirror struct {
	Redis  *redis.Client
	Prefix string
	TTL    time.Duration
}

func NewSnapshotMirror(rdb *redis.Client, prefix string, ttl time.Duration) *SnapshotMirror {
	if prefix == "" {
		prefix = "polyintel"
	}
	if ttl <= 0 {
		ttl = DefaultMirrorTTL
	}
	return &SnapshotMirror{Redis: rdb, Prefix: prefix, TTL: ttl}
}

func (m *SnapshotMirror) StatsKey() string   { return m.Prefix + ":snapshot:stats" }
func (m *SnapshotMirror) ColumnsKey() string { return m.Prefix + ":snapshot:columns" }
func (m *SnapshotMirror) Channel() string    { return m.Prefix + ":snapshot_refreshed" }

// Publish writes stats and columns with the mirror TTL, then notifies subscribers
func (m *SnapshotMirror) Publish(ctx context.Context, snap *models.Snapshot) error {
	stats, err := json.Marshal(snap.Stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	columns, err := json.Marshal(snap.Columns)
	if err != nil {
		return fmt.Errorf("marshal columns: %w", err)
	}
	notice, err := json.Marshal(RefreshNotice{Type: "snapshot_refreshed", Stats: snap.Stats})
	if err != nil {
		return fmt.Errorf("marshal notice: %w", err)
	}

	pipe := m.Redis.TxPipeline()
	pipe.Set(ctx, m.StatsKey(), stats, m.TTL)
	pipe.Set(ctx, m.ColumnsKey(), columns, m.TTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("write snapshot mirror: %w", err)
	}

	if err := m.Redis.Publish(ctx, m.Channel(), notice).Err(); err != nil {
		return fmt.Errorf("publish refresh notice: %w", err)
	}
	return nil
}

// LoadStats reads the mirrored stats; redis.Nil when nothing was mirrored yet
func (m *SnapshotMirror) LoadStats(ctx context.Context) (*models.Stats, error) {
	val, err := m.Redis.Get(ctx, m.StatsKey()).Bytes()
	if err != nil {
		return nil, err
	}

	var stats models.Stats
	if err := json.Unmarshal(val, &stats); err != nil {
		return nil, fmt.Errorf("decode mirrored stats: %w", err)
	}
	return &stats, nil
}
