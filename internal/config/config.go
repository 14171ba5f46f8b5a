/**
 * @description
 * Configuration loader for the PolyIntel backend.
 * Responsible for reading environment variables, setting defaults, and performing strict validation.
 *
 * @dependencies
 * - github.com/joho/godotenv: For loading .env files
 * - github.com/caarlos0/env/v11: For parsing env vars into the Config struct
 *
 * @notes
 * - Fails fast on values that would break the refresh pipeline (TTL, timeouts, weights).
 * - DATABASE_URL and REDIS_URL are optional; the audit log and the snapshot mirror are
 *   disabled when they are empty.
 */

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	DB         DBConfig
	Redis      RedisConfig
	Polymarket PolymarketConfig
	Kalshi     KalshiConfig
	Cache      CacheConfig
	Scoring    ScoringConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string `env:"PORT" envDefault:"8877"`
	Env  string `env:"GO_ENV" envDefault:"development"` // "development", "staging", "production" or "test"
}

// DBConfig holds PostgreSQL settings for the refresh audit log
type DBConfig struct {
	URL string `env:"DATABASE_URL"`
}

// RedisConfig holds Redis settings for the snapshot mirror
type RedisConfig struct {
	URL       string        `env:"REDIS_URL"`
	KeyPrefix string        `env:"REDIS_KEY_PREFIX" envDefault:"polyintel"`
	MirrorTTL time.Duration `env:"REDIS_MIRROR_TTL" envDefault:"10m"`
}

// PolymarketConfig holds the Gamma feed settings
type PolymarketConfig struct {
	GammaURL       string        `env:"POLYMARKET_GAMMA_URL" envDefault:"https://gamma-api.polymarket.com"`
	SiteURL        string        `env:"POLYMARKET_SITE_URL" envDefault:"https://polymarket.com"`
	PageSize       int           `env:"GAMMA_PAGE_SIZE" envDefault:"100"`
	RequestTimeout time.Duration `env:"GAMMA_REQUEST_TIMEOUT" envDefault:"10s"`
}

// KalshiConfig holds settings for the best-effort arbitrage scan
type KalshiConfig struct {
	BaseURL    string        `env:"KALSHI_BASE_URL" envDefault:"https://trading-api.kalshi.com/trade-api/v2"`
	APIKey     string        `env:"KALSHI_API_KEY"`
	Timeout    time.Duration `env:"KALSHI_TIMEOUT" envDefault:"10s"`
	ArbEnabled bool          `env:"KALSHI_ARB_ENABLED" envDefault:"true"`
}

// CacheConfig holds the snapshot cache knobs
type CacheConfig struct {
	TTL            time.Duration `env:"CACHE_TTL" envDefault:"45s"`
	RefreshTimeout time.Duration `env:"REFRESH_TIMEOUT" envDefault:"60s"`
}

// ScoringConfig holds the edge score weights
type ScoringConfig struct {
	ProbDeviationWeight float64 `env:"EDGE_WEIGHT_PROB_DEVIATION" envDefault:"0.30"`
	LiquidityWeight     float64 `env:"EDGE_WEIGHT_LIQUIDITY" envDefault:"0.30"`
	VolumeWeight        float64 `env:"EDGE_WEIGHT_VOLUME" envDefault:"0.20"`
	TimePressureWeight  float64 `env:"EDGE_WEIGHT_TIME_PRESSURE" envDefault:"0.20"`
}

// Load reads .env file and populates the Config struct
func Load() (*Config, error) {
	// Attempt to load .env, but don't crash if it fails (containers inject env vars directly)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	cfg.Redis.URL = sanitizeURL(cfg.Redis.URL)
	cfg.DB.URL = sanitizeURL(cfg.DB.URL)
	cfg.Polymarket.GammaURL = strings.TrimRight(cfg.Polymarket.GammaURL, "/")
	cfg.Polymarket.SiteURL = strings.TrimRight(cfg.Polymarket.SiteURL, "/")
	cfg.Kalshi.BaseURL = strings.TrimRight(cfg.Kalshi.BaseURL, "/")

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks for values the refresh pipeline cannot run with
func validate(cfg *Config) error {
	if cfg.Polymarket.GammaURL == "" {
		return fmt.Errorf("POLYMARKET_GAMMA_URL is required")
	}
	if cfg.Polymarket.PageSize <= 0 {
		return fmt.Errorf("GAMMA_PAGE_SIZE must be positive, got %d", cfg.Polymarket.PageSize)
	}
	if cfg.Polymarket.RequestTimeout <= 0 {
		return fmt.Errorf("GAMMA_REQUEST_TIMEOUT must be positive")
	}
	if cfg.Cache.TTL < time.Second {
		return fmt.Errorf("CACHE_TTL must be at least 1s, got %s", cfg.Cache.TTL)
	}
	if cfg.Cache.RefreshTimeout < time.Second {
		return fmt.Errorf("REFRESH_TIMEOUT must be at least 1s, got %s", cfg.Cache.RefreshTimeout)
	}

	w := cfg.Scoring
	weights := []float64{w.ProbDeviationWeight, w.LiquidityWeight, w.VolumeWeight, w.TimePressureWeight}
	var sum float64
	for _, v := range weights {
		if v < 0 {
			return fmt.Errorf("edge weights must not be negative")
		}
		sum += v
	}
	if sum == 0 {
		return fmt.Errorf("at least one edge weight must be positive")
	}
	return nil
}

// IsDevelopment reports whether the process runs with development defaults
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func sanitizeURL(value string) string {
	trimmed := strings.TrimSpace(value)
	return strings.Trim(trimmed, "\"")
}
