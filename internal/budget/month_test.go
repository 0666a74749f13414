package budget

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonth(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		want    Month
		wantErr bool
	}{
		{"january", "2024-01", Month{2024, time.January}, false},
		{"december", "2023-12", Month{2023, time.December}, false},
		{"month zero", "2024-00", Month{}, true},
		{"month thirteen", "2024-13", Month{}, true},
		{"single digit month", "2024-1", Month{}, true},
		{"no dash", "202401", Month{}, true},
		{"extra segment", "2024-01-01", Month{}, true},
		{"letters", "20a4-01", Month{}, true},
		{"signed month", "2024-+1", Month{}, true},
		{"empty", "", Month{}, true},
		{"year zero", "0000-05", Month{}, true},
		{"last supported year", "9998-12", Month{9998, time.December}, false},
		{"year past window range", "9999-01", Month{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMonth(tt.token)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidMonth)
				assert.True(t, IsValidation(err))
				assert.Equal(t, "month must be in YYYY-MM format", err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.token, got.String())
		})
	}
}

func TestWindowCoversExactlyTheMonth(t *testing.T) {
	for _, year := range []int{2019, 2020, 2023, 2024, 2100, 2000} {
		for m := time.January; m <= time.December; m++ {
			w := Month{Year: year, Month: m}.Window()

			assert.Equal(t, Date(year, m, 1), w.Start)
			// The day before End is the last day of the month.
			last := w.End.AddDate(0, 0, -1)
			assert.Equal(t, m, last.Month(), "%d-%02d", year, m)
			assert.Equal(t, daysIn(year, m), w.Days(), "%d-%02d", year, m)

			assert.True(t, w.Contains(w.Start))
			assert.True(t, w.Contains(last))
			assert.False(t, w.Contains(w.End))
			assert.False(t, w.Contains(w.Start.AddDate(0, 0, -1)))
		}
	}
}

func TestLastSupportedWindowEndsOnFourDigitYear(t *testing.T) {
	w := Month{Year: MaxYear, Month: time.December}.Window()
	assert.Equal(t, "9999-01-01", w.End.Format(DateLayout))
}

func TestParseDateRejectsYearsPastLastMonth(t *testing.T) {
	d, err := ParseDate("9998-12-31")
	require.NoError(t, err)
	assert.Equal(t, Date(9998, time.December, 31), d)

	_, err = ParseDate("9999-12-05")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, "date year must be at most 9998", err.Error())
}

func daysIn(year int, m time.Month) int {
	switch m {
	case time.February:
		if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}

func TestDecemberRollsIntoNextYear(t *testing.T) {
	w := Month{Year: 2024, Month: time.December}.Window()
	assert.Equal(t, Date(2025, time.January, 1), w.End)
}

func TestResolveMonth(t *testing.T) {
	now := time.Date(2024, time.March, 31, 23, 30, 0, 0, time.UTC)

	m, err := ResolveMonth("", now)
	require.NoError(t, err)
	assert.Equal(t, Month{2024, time.March}, m)

	m, err = ResolveMonth("2023-07", now)
	require.NoError(t, err)
	assert.Equal(t, Month{2023, time.July}, m)

	_, err = ResolveMonth("July", now)
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestCurrentMonthReadsUTC(t *testing.T) {
	zone := time.FixedZone("UTC-5", -5*60*60)
	now := time.Date(2024, time.January, 31, 22, 0, 0, 0, zone)
	assert.Equal(t, Month{2024, time.February}, CurrentMonth(now))
}

func TestMonthText(t *testing.T) {
	var m Month
	require.NoError(t, m.UnmarshalText([]byte("2024-02")))
	assert.Equal(t, Month{2024, time.February}, m)

	b, err := m.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2024-02", string(b))

	assert.Error(t, m.UnmarshalText([]byte("2024/02")))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, Date(2024, time.February, 29), d)

	_, err = ParseDate("2023-02-29")
	assert.True(t, IsValidation(err))
}
