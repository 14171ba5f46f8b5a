/**
 * @description
 * Service layer for Market data.
 * Owns the live snapshot (markets, columns, stats) and coordinates the
 * fetch -> transform -> classify cycle that replaces it.
 *
 * @dependencies
 * - backend/internal/polymarket/gamma
 * - backend/internal/models
 * - backend/internal/metrics
 * - golang.org/x/sync/singleflight
 *
 * @notes
 * - At most one refresh cycle runs at a time; concurrent callers share its result.
 * - A failed refresh keeps serving the previous snapshot when there is one.
 * - The Redis mirror and the Postgres audit are best-effort side effects.
 */

package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/polyintel-project/backend/internal/config"
	"github.com/polyintel-project/backend/internal/logger"
	"github.com/polyintel-project/backend/internal/metrics"
	"github.com/polyintel-project/backend/internal/models"
	"github.com/polyintel-project/backend/internal/polymarket/gamma"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultCacheTTL       = 45 * time.Second
	DefaultRefreshTimeout = 60 * time.Second

	refreshKey          = "snapshot"
	sideEffectTimeout   = 5 * time.Second
	lookupHit           = "hit"
	lookupRefresh       = "refresh"
	lookupStale         = "stale"
	refreshSuccess      = "success"
	refreshFailureStale = "failure_stale"
	refreshFailureEmpty = "failure_empty"
)

// EventFetcher pulls the complete active event feed
type EventFetcher interface {
	FetchAllEvents(ctx context.Context) ([]gamma.GammaEvent, error)
}

// SnapshotPublisher mirrors a freshly built snapshot somewhere outside the process
type SnapshotPublisher interface {
	Publish(ctx context.Context, snap *models.Snapshot) error
}

// RefreshRecorder persists the outcome of a refresh cycle
type RefreshRecorder interface {
	RecordRefresh(ctx context.Context, run *models.RefreshRun) error
}

type MarketService struct {
	Fetcher     EventFetcher
	Transformer *Transformer
	Publisher   SnapshotPublisher // optional
	Recorder    RefreshRecorder   // optional
	Metrics     *metrics.Metrics

	TTL            time.Duration
	RefreshTimeout time.Duration
	Now            func() time.Time

	snapshot atomic.Pointer[models.Snapshot]
	group    singleflight.Group
}

func NewMarketService(fetcher EventFetcher, transformer *Transformer, cfg config.CacheConfig, m *metrics.Metrics) *MarketService {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	timeout := cfg.RefreshTimeout
	if timeout <= 0 {
		timeout = DefaultRefreshTimeout
	}

	return &MarketService{
		Fetcher:        fetcher,
		Transformer:    transformer,
		Metrics:        m,
		TTL:            ttl,
		RefreshTimeout: timeout,
		Now:            time.Now,
	}
}

// GetData returns the live snapshot, refreshing it first when it is missing or expired.
// Returns *UpstreamError only when the refresh failed and nothing was cached yet.
func (s *MarketService) GetData(ctx context.Context) (*models.Snapshot, error) {
	now := s.now()
	if snap := s.snapshot.Load(); snap != nil && s.isFresh(snap, now) {
		s.Metrics.RecordLookup(lookupHit, now.Sub(snap.FetchedAt).Seconds())
		return snap, nil
	}

	snap, err := s.wait(ctx, false)
	if err != nil {
		return nil, err
	}

	now = s.now()
	outcome := lookupRefresh
	if !s.isFresh(snap, now) {
		outcome = lookupStale
	}
	s.Metrics.RecordLookup(outcome, now.Sub(snap.FetchedAt).Seconds())
	return snap, nil
}

// Refresh forces a new cycle regardless of the snapshot age.
// Joins the in-flight cycle if one is already running.
func (s *MarketService) Refresh(ctx context.Context) (*models.Snapshot, error) {
	return s.wait(ctx, true)
}

// Current returns the live snapshot without triggering a refresh; nil before the first success
func (s *MarketService) Current() *models.Snapshot {
	return s.snapshot.Load()
}

// wait attaches the caller to the shared refresh. The cycle itself is detached from
// ctx, so a caller giving up does not abort the fetch for everyone else.
func (s *MarketService) wait(ctx context.Context, force bool) (*models.Snapshot, error) {
	ch := s.group.DoChan(refreshKey, func() (interface{}, error) {
		return s.runRefresh(force)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.Snapshot), nil
	}
}

func (s *MarketService) runRefresh(force bool) (*models.Snapshot, error) {
	// a cycle may have completed between the caller's check and this one
	if !force {
		if snap := s.snapshot.Load(); snap != nil && s.isFresh(snap, s.now()) {
			return snap, nil
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.RefreshTimeout)
	defer cancel()

	started := s.now()
	events, err := s.Fetcher.FetchAllEvents(ctx)
	if err != nil {
		return s.handleFailure(started, err)
	}

	fetchedAt := s.now()
	markets := s.Transformer.Normalize(events, fetchedAt)
	columns := Classify(markets, fetchedAt)
	stats := BuildStats(markets, &columns, len(events), fetchedAt)

	snap := &models.Snapshot{
		Markets:   markets,
		Columns:   columns,
		Stats:     stats,
		FetchedAt: fetchedAt,
	}
	s.snapshot.Store(snap)

	elapsed := s.now().Sub(started)
	s.Metrics.RecordRefresh(refreshSuccess, elapsed.Seconds())
	s.Metrics.RecordSnapshotSize(len(markets))
	logger.Info("Snapshot refreshed: %d events, %d markets, %s 24h volume in %s",
		len(events), len(markets), stats.TotalVolume24hFmt, elapsed.Round(time.Millisecond))

	s.publish(snap)
	s.record(&models.RefreshRun{
		StartedAt:    started,
		FinishedAt:   s.now(),
		DurationMs:   elapsed.Milliseconds(),
		Success:      true,
		TotalEvents:  len(events),
		TotalMarkets: len(markets),
		Volume24h:    stats.TotalVolume24h,
	})

	return snap, nil
}

func (s *MarketService) handleFailure(started time.Time, cause error) (*models.Snapshot, error) {
	elapsed := s.now().Sub(started)
	prior := s.snapshot.Load()

	s.record(&models.RefreshRun{
		StartedAt:    started,
		FinishedAt:   s.now(),
		DurationMs:   elapsed.Milliseconds(),
		Success:      false,
		ErrorMessage: cause.Error(),
		ServedStale:  prior != nil,
	})

	if prior != nil {
		s.Metrics.RecordRefresh(refreshFailureStale, elapsed.Seconds())
		logger.Error("Snapshot refresh failed, serving data from %s: %v", prior.FetchedAt.Format(time.RFC3339), cause)
		return prior, nil
	}

	s.Metrics.RecordRefresh(refreshFailureEmpty, elapsed.Seconds())
	logger.Error("Snapshot refresh failed with nothing cached: %v", cause)
	return nil, &UpstreamError{Err: cause}
}

func (s *MarketService) publish(snap *models.Snapshot) {
	if s.Publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	defer cancel()

	if err := s.Publisher.Publish(ctx, snap); err != nil {
		logger.Error("Failed to publish snapshot: %v", err)
	}
}

func (s *MarketService) record(run *models.RefreshRun) {
	if s.Recorder == nil {
		return
	}
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	defer cancel()

	if err := s.Recorder.RecordRefresh(ctx, run); err != nil {
		logger.Error("Failed to record refresh run: %v", err)
	}
}

func (s *MarketService) isFresh(snap *models.Snapshot, now time.Time) bool {
	return now.Sub(snap.FetchedAt) < s.TTL
}

func (s *MarketService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
