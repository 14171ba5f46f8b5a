package db

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/polyintel-project/backend/internal/config"
	gormLogger "gorm.io/gorm/logger"
)

func TestMirrorOptionsDefaults(t *testing.T) {
	opt, err := mirrorOptions("redis://localhost:6379/2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opt.DB != 2 || opt.PoolSize != mirrorPoolSize || opt.MaxRetries != 1 {
		t.Fatalf("unexpected options %+v", opt)
	}
	if opt.DialTimeout != mirrorIOTimeout || opt.ReadTimeout != mirrorIOTimeout || opt.WriteTimeout != mirrorIOTimeout {
		t.Fatalf("expected %s timeouts, got %+v", mirrorIOTimeout, opt)
	}

	opt, err = mirrorOptions("redis://localhost:6379?dial_timeout=1s&pool_size=9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opt.DialTimeout != time.Second || opt.PoolSize != 9 {
		t.Fatalf("URL settings must win, got %+v", opt)
	}

	if _, err := mirrorOptions("::not a url"); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestConnectRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	cfg := &config.Config{Redis: config.RedisConfig{URL: "redis://" + mr.Addr()}}
	client, err := ConnectRedis(context.Background(), cfg)
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	_ = client.Close()

	mr.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := ConnectRedis(ctx, cfg); err == nil {
		t.Fatal("expected ping failure once redis is gone")
	}
}

func TestAuditLogLevel(t *testing.T) {
	tests := map[string]gormLogger.LogLevel{
		"development": gormLogger.Info,
		"staging":     gormLogger.Warn,
		"test":        gormLogger.Silent,
		"production":  gormLogger.Error,
		"":            gormLogger.Error,
	}
	for env, want := range tests {
		if got := auditLogLevel(env); got != want {
			t.Errorf("auditLogLevel(%q) = %v, want %v", env, got, want)
		}
	}
}
