package store

import (
	"fmt"
	"time"

	"budget-tracker-backend/internal/budget"
)

// Column scanners that accept what either driver returns: pgx hands back
// time.Time, modernc returns time.Time or text depending on the value.

type dateValue struct{ t time.Time }

func (d *dateValue) Scan(src any) error {
	t, err := scanTime(src, "2006-01-02", timestampLayout, time.RFC3339Nano)
	if err != nil {
		return fmt.Errorf("scan date: %w", err)
	}
	d.t = budget.DateOf(t)
	return nil
}

type timeValue struct{ t time.Time }

func (v *timeValue) Scan(src any) error {
	t, err := scanTime(src, timestampLayout, time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05")
	if err != nil {
		return fmt.Errorf("scan timestamp: %w", err)
	}
	v.t = t.UTC()
	return nil
}

func scanTime(src any, layouts ...string) (time.Time, error) {
	var s string
	switch v := src.(type) {
	case time.Time:
		return v, nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return time.Time{}, fmt.Errorf("unsupported type %T", src)
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", s)
}

type row interface {
	Scan(dest ...any) error
}

// categoryFrom rejects stored categories outside the enumeration.
func categoryFrom(raw string) (budget.Category, error) {
	c := budget.Category(raw)
	if !c.Valid() {
		return "", fmt.Errorf("%w: unknown category %q", ErrCorruptRecord, raw)
	}
	return c, nil
}
