package main

import (
	"fmt"

	"budget-tracker-backend/internal/config"
	"budget-tracker-backend/internal/logging"
	"budget-tracker-backend/internal/store"
)

// runMigrations applies the schema migrations over a dedicated connection,
// which store.Migrate closes when done.
func runMigrations(cfg *config.Config, logger *logging.Logger) error {
	logger = logger.WithComponent(logging.ComponentMigrate)

	conn, err := openDB(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("Applying database migrations", logging.FieldDriver, cfg.StorageDriver)
	if err := store.Migrate(conn, cfg.StorageDriver); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Info("Database schema is up to date")
	return nil
}
