/**
 * @description
 * Postgres connection for the refresh audit log (GORM).
 *
 * @notes
 * - The only writer is the cache coordinator, once per refresh, so the pool is tiny.
 */

package db

import (
	"fmt"
	"time"

	"github.com/polyintel-project/backend/internal/config"
	"github.com/polyintel-project/backend/internal/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// ConnectPostgres opens the audit database and sizes its pool
func ConnectPostgres(cfg *config.Config) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DB.URL,
		PreferSimpleProtocol: true, // poolers such as pgbouncer reject named prepared statements
	}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(auditLogLevel(cfg.Server.Env)),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres handle: %w", err)
	}
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(3)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	logger.Info("✅ Refresh audit store connected")
	return gdb, nil
}

// auditLogLevel keeps SQL logging quiet outside development
func auditLogLevel(env string) gormLogger.LogLevel {
	switch env {
	case "development":
		return gormLogger.Info
	case "staging":
		return gormLogger.Warn
	case "test":
		return gormLogger.Silent
	default:
		return gormLogger.Error
	}
}
