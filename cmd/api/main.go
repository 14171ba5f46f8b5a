/**
 * @description
 * Main entry point for the PolyIntel Backend API.
 * Initializes the Fiber web server, loads configuration, and sets up routes.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2: Web framework
 * - github.com/polyintel-project/backend/internal/config: Config loader
 * - github.com/polyintel-project/backend/internal/db: Database connections
 *
 * @notes
 * - Redis and Postgres are optional. Without them the snapshot mirror, SSE stream
 *   and refresh audit are disabled; the read endpoints work either way.
 * - The first snapshot is built in the background right after startup.
 */

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/polyintel-project/backend/internal/api"
	"github.com/polyintel-project/backend/internal/config"
	"github.com/polyintel-project/backend/internal/db"
	"github.com/polyintel-project/backend/internal/kalshi"
	"github.com/polyintel-project/backend/internal/logger"
	"github.com/polyintel-project/backend/internal/metrics"
	"github.com/polyintel-project/backend/internal/polymarket/gamma"
	"github.com/polyintel-project/backend/internal/scoring"
	"github.com/polyintel-project/backend/internal/services"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config: %v", err)
	}
	logger.Init(cfg.Server.Env)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Core Services
	m := metrics.New()
	gammaClient := gamma.NewClient(cfg, m)
	transformer := services.NewTransformer(scoring.WeightsFromConfig(cfg.Scoring), cfg.Polymarket.SiteURL)
	marketService := services.NewMarketService(gammaClient, transformer, cfg.Cache, m)

	deps := api.Deps{
		Markets: marketService,
		Metrics: m,
	}

	if cfg.Kalshi.ArbEnabled {
		kalshiClient := kalshi.NewClient(cfg.Kalshi.BaseURL, cfg.Kalshi.APIKey, kalshi.WithTimeout(cfg.Kalshi.Timeout))
		deps.Arb = services.NewArbService(kalshiClient, m)
	}

	// 3. Optional Stores
	// Redis (snapshot mirror + refresh notices)
	if cfg.Redis.URL != "" {
		redisClient, err := db.ConnectRedis(ctx, cfg)
		if err != nil {
			logger.Fatal("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()

		mirror := services.NewSnapshotMirror(redisClient, cfg.Redis.KeyPrefix, cfg.Redis.MirrorTTL)
		marketService.Publisher = mirror

		hub, err := services.NewSnapshotStreamHub(ctx, redisClient, mirror.Channel())
		if err != nil {
			logger.Fatal("Failed to start snapshot stream: %v", err)
		}
		defer hub.Close()
		deps.Hub = hub
	} else {
		logger.Warn("REDIS_URL not set: snapshot mirror and /api/stream disabled")
	}

	// Postgres (refresh audit)
	if cfg.DB.URL != "" {
		pgDB, err := db.ConnectPostgres(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to Postgres: %v", err)
		}
		store := services.NewRefreshStore(pgDB)
		if err := store.Migrate(); err != nil {
			logger.Fatal("Failed to migrate refresh store: %v", err)
		}
		marketService.Recorder = store
		deps.History = store
	} else {
		logger.Warn("DATABASE_URL not set: refresh audit disabled")
	}

	// 4. Initialize Fiber App
	app := fiber.New(fiber.Config{
		AppName:       "PolyIntel",
		StrictRouting: true,
		CaseSensitive: true,
	})

	// 5. Global Middleware
	app.Use(recover.New())     // Panic recovery
	app.Use(fiberlogger.New()) // Request logging
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, OPTIONS",
	}))

	// 6. Routes
	api.SetupRoutes(app, deps)

	// 7. Pre-warm the snapshot so the first request does not pay for the full fetch
	go func() {
		if _, err := marketService.GetData(ctx); err != nil {
			logger.Error("Initial snapshot build failed: %v", err)
		}
	}()

	// 8. Start Server
	go func() {
		logger.Info("🚀 Starting PolyIntel Backend on port %s", cfg.Server.Port)
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	// 9. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancel()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("Error during shutdown: %v", err)
	}
	logger.Info("Server exited.")
}
