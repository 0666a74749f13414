// Package store persists expenses and budgets in PostgreSQL or SQLite.
// Every statement is scoped to the owner passed by the caller.
package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record does not exist or belongs to
	// another owner. The two cases are indistinguishable to callers.
	ErrNotFound = errors.New("record not found")

	// ErrCorruptRecord is returned when a stored row fails domain validation.
	ErrCorruptRecord = errors.New("corrupt record")

	errNoOwner = errors.New("owner id is required")
)

// Store implements the expense and budget repositories.
type Store struct {
	db  *DB
	now func() time.Time
	ids func() uuid.UUID
}

// New wraps an open database handle. driver is DriverPostgres or DriverSQLite.
func New(db *sql.DB, driver string) *Store {
	return &Store{
		db:  newDB(db, driver),
		now: time.Now,
		ids: uuid.New,
	}
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// parseID returns ErrNotFound for ids that cannot exist.
func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, ErrNotFound
	}
	return parsed, nil
}

func checkOwner(owner string) error {
	if owner == "" {
		return errNoOwner
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
