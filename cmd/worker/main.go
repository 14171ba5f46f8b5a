/**
 * @description
 * Worker Service Entry Point.
 * Rebuilds the snapshot on a fixed cadence so the Redis mirror and the refresh
 * notice channel stay warm even when no HTTP traffic reaches the API.
 *
 * @dependencies
 * - backend/internal/config
 * - backend/internal/db
 * - backend/internal/polymarket/gamma
 * - backend/internal/services
 *
 * @notes
 * - Requires REDIS_URL; DATABASE_URL is optional and enables the refresh audit.
 */

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/polyintel-project/backend/internal/config"
	"github.com/polyintel-project/backend/internal/db"
	"github.com/polyintel-project/backend/internal/logger"
	"github.com/polyintel-project/backend/internal/metrics"
	"github.com/polyintel-project/backend/internal/polymarket/gamma"
	"github.com/polyintel-project/backend/internal/scoring"
	"github.com/polyintel-project/backend/internal/services"
)

func main() {
	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config: %v", err)
	}
	logger.Init(cfg.Server.Env)
	defer logger.Sync()

	logger.Info("🔥 Starting PolyIntel Worker...")

	if cfg.Redis.URL == "" {
		logger.Fatal("REDIS_URL is required for the worker")
	}

	// 2. Context with Cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Connect Stores
	redisClient, err := db.ConnectRedis(ctx, cfg)
	if err != nil {
		logger.Fatal("Redis connection failed: %v", err)
	}
	defer redisClient.Close()

	// 4. Initialize Services
	m := metrics.New()
	gammaClient := gamma.NewClient(cfg, m)
	transformer := services.NewTransformer(scoring.WeightsFromConfig(cfg.Scoring), cfg.Polymarket.SiteURL)
	marketService := services.NewMarketService(gammaClient, transformer, cfg.Cache, m)
	marketService.Publisher = services.NewSnapshotMirror(redisClient, cfg.Redis.KeyPrefix, cfg.Redis.MirrorTTL)

	if cfg.DB.URL != "" {
		pgDB, err := db.ConnectPostgres(cfg)
		if err != nil {
			logger.Fatal("Postgres connection failed: %v", err)
		}
		store := services.NewRefreshStore(pgDB)
		if err := store.Migrate(); err != nil {
			logger.Fatal("Failed to migrate refresh store: %v", err)
		}
		marketService.Recorder = store
	}

	// 5. Refresh Loop
	done := make(chan struct{})
	go func() {
		defer close(done)
		runRefreshLoop(ctx, marketService, cfg.Cache.TTL)
	}()

	// 6. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	cancel()
	<-done
	logger.Info("Worker exited.")
}

// runRefreshLoop forces one refresh per interval until ctx is cancelled
func runRefreshLoop(ctx context.Context, ms *services.MarketService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Initial refresh
	refreshOnce(ctx, ms)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refreshOnce(ctx, ms)
		}
	}
}

func refreshOnce(ctx context.Context, ms *services.MarketService) {
	logger.Info("🔄 Refreshing snapshot...")

	snap, err := ms.Refresh(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logger.Error("Snapshot refresh failed: %v", err)
		}
		return
	}

	logger.Info("Snapshot at %s: %d markets across %d events, %d closing today",
		snap.FetchedAt.Format(time.RFC3339), snap.Stats.TotalMarkets, snap.Stats.TotalEvents, snap.Stats.ClosingToday)
}
