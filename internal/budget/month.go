package budget

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar date layout used for expense dates and trend keys.
const DateLayout = "2006-01-02"

// MaxYear is the last year whose month window ends on a four-digit date.
// Stored dates compare as text, so "10000-01-01" would sort before 9999.
const MaxYear = 9998

// Month identifies a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses a "YYYY-MM" token.
func ParseMonth(token string) (Month, error) {
	if len(token) != 7 || token[4] != '-' {
		return Month{}, ErrInvalidMonth
	}
	year, ok := digits(token[:4])
	if !ok || year < 1 || year > MaxYear {
		return Month{}, ErrInvalidMonth
	}
	month, ok := digits(token[5:])
	if !ok || month < 1 || month > 12 {
		return Month{}, ErrInvalidMonth
	}
	return Month{Year: year, Month: time.Month(month)}, nil
}

func digits(s string) (int, bool) {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
		n = n*10 + int(s[i]-'0')
	}
	return n, true
}

// CurrentMonth returns the month containing now, read in UTC.
func CurrentMonth(now time.Time) Month {
	now = now.UTC()
	return Month{Year: now.Year(), Month: now.Month()}
}

// ResolveMonth parses token, falling back to the month of now when token is empty.
func ResolveMonth(token string, now time.Time) (Month, error) {
	if token == "" {
		return CurrentMonth(now), nil
	}
	return ParseMonth(token)
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// Window returns the half-open date range covering the month.
func (m Month) Window() Window {
	start := Date(m.Year, m.Month, 1)
	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}

func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Month) UnmarshalText(b []byte) error {
	parsed, err := ParseMonth(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Window is the range [Start, End) of calendar dates, both at UTC midnight.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the calendar date of d falls inside the window.
func (w Window) Contains(d time.Time) bool {
	d = DateOf(d)
	return !d.Before(w.Start) && d.Before(w.End)
}

// Days returns the number of calendar days in the window.
func (w Window) Days() int {
	return int(w.End.Sub(w.Start).Hours() / 24)
}

// Date returns the calendar date y-m-d at UTC midnight.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateOf truncates t to its calendar date. The wall clock of t is kept, so a
// date stored at midnight in any zone keeps its day.
func DateOf(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// ParseDate parses an ISO "YYYY-MM-DD" date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"}
	}
	if err := checkYear(t); err != nil {
		return time.Time{}, err
	}
	return t, nil
}

func checkYear(d time.Time) error {
	if d.Year() > MaxYear {
		return &ValidationError{Field: "date", Message: fmt.Sprintf("date year must be at most %d", MaxYear)}
	}
	return nil
}
