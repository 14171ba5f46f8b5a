/**
 * @description
 * Postgres audit log of refresh cycles.
 * Rows are diagnostics for operators; the service never reads a snapshot back from them.
 *
 * @dependencies
 * - gorm.io/gorm
 * - github.com/jackc/pgconn, github.com/jackc/pgx/v5/pgconn
 */

package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgconn"
	pgconnv5 "github.com/jackc/pgx/v5/pgconn"
	"github.com/polyintel-project/backend/internal/models"
	"gorm.io/gorm"
)

const (
	DefaultRecentRuns = 20
	MaxRecentRuns     = 200

	maxInsertAttempts = 3
)

type RefreshStore struct {
	DB *gorm.DB
}

func NewRefreshStore(db *gorm.DB) *RefreshStore {
	return &RefreshStore{DB: db}
}

// Migrate creates or updates the refresh_runs table
func (s *RefreshStore) Migrate() error {
	if err := s.DB.AutoMigrate(&models.RefreshRun{}); err != nil {
		return fmt.Errorf("migrate refresh_runs: %w", err)
	}
	return nil
}

// RecordRefresh inserts one run, retrying on deadlocks and serialization failures
func (s *RefreshStore) RecordRefresh(ctx context.Context, run *models.RefreshRun) error {
	var err error
	for attempt := 1; attempt <= maxInsertAttempts; attempt++ {
		err = s.DB.WithContext(ctx).Create(run).Error
		if err == nil || !isRetryablePgError(err) {
			break
		}

		backoff := time.Duration(attempt*100+rand.Intn(100)) * time.Millisecond
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	if err != nil {
		return fmt.Errorf("insert refresh run: %w", err)
	}
	return nil
}

// RecentRuns returns the newest runs first
func (s *RefreshStore) RecentRuns(ctx context.Context, limit int) ([]models.RefreshRun, error) {
	if limit <= 0 {
		limit = DefaultRecentRuns
	}
	if limit > MaxRecentRuns {
		limit = MaxRecentRuns
	}

	var runs []models.RefreshRun
	if err := s.DB.WithContext(ctx).Order("started_at DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("query refresh runs: %w", err)
	}
	return runs, nil
}

// isRetryablePgError accepts errors from both the v4 and v5 pgx stacks.
// 40P01 deadlock_detected, 40001 serialization_failure
func isRetryablePgError(err error) bool {
	var code string
	var pgErr *pgconn.PgError
	var pgErrV5 *pgconnv5.PgError
	switch {
	case errors.As(err, &pgErr):
		code = pgErr.Code
	case errors.As(err, &pgErrV5):
		code = pgErrV5.Code
	default:
		return false
	}
	return code == "40P01" || code == "40001"
}
