package store

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const tracerName = "budget-tracker.db"

// timestampLayout sorts lexically, which SQLite relies on for created_at ordering.
const timestampLayout = "2006-01-02T15:04:05.000000Z"

// DB wraps *sql.DB with tracing and placeholder rebinding. Queries are
// written with ? placeholders.
type DB struct {
	*sql.DB
	driver string
	tracer trace.Tracer
}

// newDB traces through the global provider, so spans are exported once
// telemetry is initialised and dropped otherwise.
func newDB(db *sql.DB, driver string) *DB {
	return &DB{DB: db, driver: driver, tracer: otel.Tracer(tracerName)}
}

func (db *DB) system() string {
	if db.driver == DriverPostgres {
		return "postgresql"
	}
	return "sqlite"
}

// rebind rewrites ? placeholders to $1, $2, ... for PostgreSQL.
func (db *DB) rebind(q string) string {
	if db.driver != DriverPostgres || !strings.Contains(q, "?") {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for i := 0; i < len(q); i++ {
		if q[i] != '?' {
			b.WriteByte(q[i])
			continue
		}
		n++
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

func (db *DB) startSpan(ctx context.Context, name, query string) (context.Context, trace.Span) {
	return db.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("db.system", db.system()),
		attribute.String("db.operation", extractSQLVerb(query)),
		attribute.String("db.statement", query),
	))
}

// QueryContext wraps sql.DB.QueryContext with tracing.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	query = db.rebind(query)
	ctx, span := db.startSpan(ctx, "db.Query", query)
	defer span.End()

	rows, err := db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return rows, err
}

// tracedRow keeps the span open until Scan, where sql.Row reports its errors.
type tracedRow struct {
	row  *sql.Row
	span trace.Span
}

func (r *tracedRow) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	if r.span != nil {
		if err != nil && err != sql.ErrNoRows {
			r.span.RecordError(err)
			r.span.SetStatus(codes.Error, err.Error())
		}
		r.span.End()
		r.span = nil
	}
	return err
}

// QueryRowContext wraps sql.DB.QueryRowContext with tracing.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *tracedRow {
	query = db.rebind(query)
	ctx, span := db.startSpan(ctx, "db.QueryRow", query)
	return &tracedRow{
		row:  db.DB.QueryRowContext(ctx, query, args...),
		span: span,
	}
}

// ExecContext wraps sql.DB.ExecContext with tracing.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	query = db.rebind(query)
	ctx, span := db.startSpan(ctx, "db.Exec", query)
	defer span.End()

	result, err := db.DB.ExecContext(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return result, err
}

// timeArg encodes a timestamp for the active driver.
func (db *DB) timeArg(t time.Time) any {
	if db.driver == DriverSQLite {
		return t.UTC().Format(timestampLayout)
	}
	return t.UTC()
}

func dateArg(t time.Time) string {
	return t.Format("2006-01-02")
}

func extractSQLVerb(q string) string {
	q = strings.TrimSpace(q)
	if i := strings.IndexAny(q, " \t\n"); i > 0 {
		return strings.ToUpper(q[:i])
	}
	return strings.ToUpper(q)
}
