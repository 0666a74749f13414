package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"budget-tracker-backend/internal/config"
	"budget-tracker-backend/internal/logging"
)

// openDB opens the configured database and waits until it answers a ping.
func openDB(cfg *config.Config, logger *logging.Logger) (*sql.DB, error) {
	switch cfg.StorageDriver {
	case config.DriverSQLite:
		return openSQLite(cfg.SQLitePath)
	case config.DriverPostgres:
		return openPostgres(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

// normalizeDatabaseURL rewrites postgresql:// to postgres:// and disables
// TLS unless the URL chooses an sslmode itself.
func normalizeDatabaseURL(databaseURL string) string {
	if strings.HasPrefix(databaseURL, "postgresql:") {
		databaseURL = "postgres" + strings.TrimPrefix(databaseURL, "postgresql")
	}
	if !strings.Contains(databaseURL, "sslmode=") {
		separator := "?"
		if strings.Contains(databaseURL, "?") {
			separator = "&"
		}
		databaseURL = databaseURL + separator + "sslmode=disable"
	}
	return databaseURL
}

func openPostgres(cfg *config.Config, logger *logging.Logger) (*sql.DB, error) {
	pgConfig, err := pgx.ParseConfig(normalizeDatabaseURL(cfg.DatabaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	logger = logger.WithComponent(logging.ComponentStorage)
	maxRetries, retryDelay := cfg.DBMaxRetries, cfg.DBRetryDelay

	// Wait for database to be ready with retries
	for i := 0; i < maxRetries; i++ {
		db := stdlib.OpenDB(*pgConfig)
		err := ping(db)
		if err == nil {
			logger.Info("Database connection established", logging.FieldDriver, config.DriverPostgres)
			return db, nil
		}
		db.Close()
		if i == maxRetries-1 {
			return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
		}
		// Log the actual error on the first attempts and every 10th after that
		if i%10 == 0 || i < 5 {
			logger.Warn("Database not ready, retrying",
				"delay", retryDelay, "attempt", i+1, "max_attempts", maxRetries, logging.FieldError, err)
		} else {
			logger.Warn("Database not ready, retrying", "delay", retryDelay, "attempt", i+1, "max_attempts", maxRetries)
		}
		time.Sleep(retryDelay)
	}
	return nil, fmt.Errorf("failed to connect to database: no attempts made")
}

func openSQLite(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// SQLite has a single writer.
	db.SetMaxOpenConns(1)

	if err := ping(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	return db, nil
}

func sqliteDSN(path string) string {
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func ping(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}
