/**
 * @description
 * Refresh audit model.
 * Maps to the 'refresh_runs' table in PostgreSQL. One row per refresh cycle,
 * successful or not. Rows are diagnostics only; snapshots are never restored from them.
 *
 * @dependencies
 * - gorm.io/gorm
 * - github.com/google/uuid
 */

package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshRun records the outcome of one fetch+transform+classify cycle
type RefreshRun struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StartedAt    time.Time `gorm:"column:started_at;index" json:"started_at"`
	FinishedAt   time.Time `gorm:"column:finished_at" json:"finished_at"`
	DurationMs   int64     `gorm:"column:duration_ms" json:"duration_ms"`
	Success      bool      `gorm:"column:success" json:"success"`
	ErrorMessage string    `gorm:"column:error_message" json:"error_message,omitempty"`
	TotalEvents  int       `gorm:"column:total_events" json:"total_events"`
	TotalMarkets int       `gorm:"column:total_markets" json:"total_markets"`
	Volume24h    float64   `gorm:"column:volume_24h" json:"volume_24h"`
	ServedStale  bool      `gorm:"column:served_stale" json:"served_stale"`
}

// TableName overrides the table name used by RefreshRun to `refresh_runs`
func (RefreshRun) TableName() string {
	return "refresh_runs"
}
