package main

import (
	"context"
	"log"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/polyintel-project/backend/internal/config"
	"github.com/polyintel-project/backend/internal/metrics"
	"github.com/polyintel-project/backend/internal/models"
	"github.com/polyintel-project/backend/internal/polymarket/gamma"
	"github.com/polyintel-project/backend/internal/scoring"
	"github.com/polyintel-project/backend/internal/services"
	"github.com/redis/go-redis/v9"
)

func main() {
	log.Println("🚀 Starting manual snapshot build from Gamma...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// An in-memory Redis exercises the mirror path without touching shared state
	mr, err := miniredis.Run()
	if err != nil {
		log.Fatalf("failed to start in-memory redis: %v", err)
	}
	defer mr.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer redisClient.Close()

	m := metrics.New()
	gammaClient := gamma.NewClient(cfg, m)
	transformer := services.NewTransformer(scoring.WeightsFromConfig(cfg.Scoring), cfg.Polymarket.SiteURL)
	service := services.NewMarketService(gammaClient, transformer, cfg.Cache, m)
	mirror := services.NewSnapshotMirror(redisClient, cfg.Redis.KeyPrefix, cfg.Redis.MirrorTTL)
	service.Publisher = mirror

	ctx := context.Background()

	started := time.Now()
	snap, err := service.Refresh(ctx)
	if err != nil {
		log.Fatalf("snapshot build failed: %v", err)
	}

	stats, err := mirror.LoadStats(ctx)
	if err != nil {
		log.Printf("⚠️ Failed to read mirrored stats: %v", err)
	} else {
		log.Printf("✅ Mirrored stats: %d markets, %s 24h volume", stats.TotalMarkets, stats.TotalVolume24hFmt)
	}

	log.Printf("Events: %d, markets: %d, closing today: %d (built in %s)",
		snap.Stats.TotalEvents, snap.Stats.TotalMarkets, snap.Stats.ClosingToday, time.Since(started).Round(time.Millisecond))
	for _, name := range models.ColumnNames {
		log.Printf("  %-12s %d", name, snap.Stats.ColumnCounts[name])
	}

	log.Println("✅ Manual snapshot build completed successfully.")
}
