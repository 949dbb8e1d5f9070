// Package db owns the single pooled connection handle to the relational
// store. The handle is constructed once in main and injected everywhere
// else; no package-level global exists.
package db

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Pool limits are fixed at process start.
const (
	maxOpenConns       = 10
	maxIdleConns       = 5
	connMaxIdleTime    = 20 * time.Second
	connectRetries     = 10
	retryDelay         = 2 * time.Second
	connectTimeoutSecs = 10
)

// Connect opens the pooled GORM handle and verifies connectivity.
func Connect(rawDSN string, log *zap.Logger) (*gorm.DB, error) {
	dsn := NormalizeDSN(rawDSN)
	if dsn == "" {
		return nil, fmt.Errorf("database DSN is empty")
	}
	dsn = EnsureConnectTimeout(dsn, connectTimeoutSecs)

	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var conn *gorm.DB
	var err error
	for i := 0; i < connectRetries; i++ {
		conn, err = gorm.Open(postgres.Open(dsn), cfg)
		if err == nil {
			break
		}
		log.Warn("retrying database connection", zap.Int("attempt", i+1), zap.Error(err))
		time.Sleep(retryDelay)
	}
	if err != nil {
		return nil, fmt.Errorf("connect database after retries: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	if pingErr := conn.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}

	log.Info("database connected", zap.String("dsn", MaskDSN(dsn)))
	return conn, nil
}
