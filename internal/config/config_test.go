package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GO_ENV", "test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "8877" {
		t.Fatalf("expected default port 8877, got %s", cfg.Server.Port)
	}
	if cfg.Cache.TTL != 45*time.Second {
		t.Fatalf("expected default TTL 45s, got %s", cfg.Cache.TTL)
	}
	if cfg.Cache.RefreshTimeout != 60*time.Second {
		t.Fatalf("expected default refresh timeout 60s, got %s", cfg.Cache.RefreshTimeout)
	}
	if cfg.Polymarket.PageSize != 100 {
		t.Fatalf("expected page size 100, got %d", cfg.Polymarket.PageSize)
	}
	if cfg.Scoring.ProbDeviationWeight != 0.30 || cfg.Scoring.TimePressureWeight != 0.20 {
		t.Fatalf("unexpected default weights: %+v", cfg.Scoring)
	}
	if !cfg.Kalshi.ArbEnabled {
		t.Fatal("expected arbitrage scan enabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CACHE_TTL", "2m")
	t.Setenv("POLYMARKET_GAMMA_URL", "http://localhost:9999/")
	t.Setenv("REDIS_URL", ` "redis://localhost:6379" `)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Cache.TTL != 2*time.Minute {
		t.Fatalf("expected TTL 2m, got %s", cfg.Cache.TTL)
	}
	if cfg.Polymarket.GammaURL != "http://localhost:9999" {
		t.Fatalf("expected trailing slash trimmed, got %s", cfg.Polymarket.GammaURL)
	}
	if cfg.Redis.URL != "redis://localhost:6379" {
		t.Fatalf("expected sanitized redis url, got %q", cfg.Redis.URL)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Polymarket: PolymarketConfig{GammaURL: "http://gamma", PageSize: 100, RequestTimeout: time.Second},
			Cache:      CacheConfig{TTL: 45 * time.Second, RefreshTimeout: time.Minute},
			Scoring:    ScoringConfig{ProbDeviationWeight: 0.3, LiquidityWeight: 0.3, VolumeWeight: 0.2, TimePressureWeight: 0.2},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "short ttl", mutate: func(c *Config) { c.Cache.TTL = 100 * time.Millisecond }, wantErr: "CACHE_TTL"},
		{name: "zero page size", mutate: func(c *Config) { c.Polymarket.PageSize = 0 }, wantErr: "GAMMA_PAGE_SIZE"},
		{name: "negative weight", mutate: func(c *Config) { c.Scoring.VolumeWeight = -1 }, wantErr: "negative"},
		{name: "all weights zero", mutate: func(c *Config) { c.Scoring = ScoringConfig{} }, wantErr: "positive"},
		{name: "short refresh timeout", mutate: func(c *Config) { c.Cache.RefreshTimeout = 0 }, wantErr: "REFRESH_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
