/**
 * @description
 * Redis client for the snapshot mirror.
 * The mirror is one SET pipeline per refresh plus one long-lived PUBSUB
 * connection for the stream hub, so the pool stays small and fails fast.
 *
 * @dependencies
 * - github.com/redis/go-redis/v9
 */

package db

import (
	"context"
	"fmt"
	"time"

	"github.com/polyintel-project/backend/internal/config"
	"github.com/polyintel-project/backend/internal/logger"
	"github.com/redis/go-redis/v9"
)

const (
	mirrorIOTimeout = 3 * time.Second
	mirrorPoolSize  = 4
)

// ConnectRedis parses REDIS_URL, applies the mirror defaults and pings the server
func ConnectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	opt, err := mirrorOptions(cfg.Redis.URL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opt.Addr, err)
	}

	logger.Info("✅ Redis mirror ready at %s (db %d)", opt.Addr, opt.DB)
	return client, nil
}

// mirrorOptions fills in anything the URL left unset
func mirrorOptions(rawURL string) (*redis.Options, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}

	for _, d := range []*time.Duration{&opt.DialTimeout, &opt.ReadTimeout, &opt.WriteTimeout, &opt.PoolTimeout} {
		if *d == 0 {
			*d = mirrorIOTimeout
		}
	}
	if opt.PoolSize == 0 {
		opt.PoolSize = mirrorPoolSize
	}
	// A failed mirror write is logged and retried on the next refresh
	if opt.MaxRetries == 0 {
		opt.MaxRetries = 1
	}
	return opt, nil
}
