package budget

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func expense(amount string, c Category, date time.Time) Expense {
	return Expense{
		ID:        "exp-" + amount + "-" + string(c) + "-" + date.Format(DateLayout),
		UserID:    "user-1",
		Amount:    dec(amount),
		Category:  c,
		Date:      date,
		CreatedAt: date.Add(12 * time.Hour),
	}
}

func budgetFor(amount string, c Category, m Month) Budget {
	return Budget{
		ID:       "bud-" + string(c) + "-" + m.String(),
		UserID:   "user-1",
		Category: c,
		Amount:   dec(amount),
		Month:    m,
	}
}
