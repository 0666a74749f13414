package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrate applies the embedded migrations for driver. It takes ownership of
// conn and closes it, so callers pass a connection opened just for this.
func Migrate(conn *sql.DB, driver string) error {
	var (
		target database.Driver
		err    error
	)
	switch driver {
	case DriverPostgres:
		target, err = migratepgx.WithInstance(conn, &migratepgx.Config{})
	case DriverSQLite:
		target, err = sqlite.WithInstance(conn, &sqlite.Config{})
	default:
		conn.Close()
		return fmt.Errorf("unsupported driver %q", driver)
	}
	if err != nil {
		conn.Close()
		return fmt.Errorf("create %s migration driver: %w", driver, err)
	}

	src, err := iofs.New(migrationsFS, "migrations/"+driver)
	if err != nil {
		target.Close()
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driver, target)
	if err != nil {
		target.Close()
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
