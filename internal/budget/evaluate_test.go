package budget

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusForBoundaries(t *testing.T) {
	tests := []struct {
		percentage string
		want       Status
	}{
		{"0", StatusOK},
		{"79.99", StatusOK},
		{"79.9999999", StatusOK},
		{"80", StatusWarning},
		{"99.99", StatusWarning},
		{"100", StatusExceeded},
		{"150.5", StatusExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.percentage, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(dec(tt.percentage)))
		})
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name          string
		amount, spent string
		wantSpent     string
		wantRemaining string
		wantPct       string
		wantStatus    Status
	}{
		{"nothing spent", "100", "0", "0", "100", "0", StatusOK},
		{"exactly eighty", "100", "80", "80", "20", "80", StatusWarning},
		{"exactly budget", "250", "250", "250", "0", "100", StatusExceeded},
		{"overspent", "100", "150.50", "150.50", "-50.50", "150.5", StatusExceeded},
		{"just under warning", "100", "79.99", "79.99", "20.01", "80", StatusOK},
		{"zero budget", "0", "42", "42", "-42", "0", StatusOK},
		{"thirds", "3", "1", "1", "2", "33.3", StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(dec(tt.amount), dec(tt.spent))
			assertDecimal(t, tt.wantSpent, got.Spent)
			assertDecimal(t, tt.wantRemaining, got.Remaining)
			assertDecimal(t, tt.wantPct, got.PercentageUsed)
			assert.Equal(t, tt.wantStatus, got.Status)
		})
	}
}

func TestSummarizeBudgets(t *testing.T) {
	jan := Month{2024, time.January}
	feb := Month{2024, time.February}
	expenses := []Expense{
		expense("50", Food, Date(2024, time.January, 3)),
		expense("25.25", Food, Date(2024, time.January, 31)),
		expense("10", Food, Date(2024, time.February, 1)),
		expense("99", Transport, Date(2024, time.January, 5)),
	}
	budgets := []Budget{
		budgetFor("200", Food, feb),
		budgetFor("100", Food, jan),
		budgetFor("60", Health, jan),
	}

	summary := SummarizeBudgets(budgets, expenses)

	require.Len(t, summary.Budgets, 3)
	assertDecimal(t, "10", summary.Budgets[0].Spent)
	assertDecimal(t, "75.25", summary.Budgets[1].Spent)
	assert.Equal(t, StatusOK, summary.Budgets[1].Status)
	assertDecimal(t, "0", summary.Budgets[2].Spent)
	assertDecimal(t, "360", summary.TotalBudget)
	assertDecimal(t, "85.25", summary.TotalSpent)

	span, ok := MonthSpan(budgets)
	require.True(t, ok)
	assert.Equal(t, Date(2024, time.January, 1), span.Start)
	assert.Equal(t, Date(2024, time.March, 1), span.End)

	_, ok = MonthSpan(nil)
	assert.False(t, ok)
}

func TestEvaluateBudget(t *testing.T) {
	jan := Month{2024, time.January}
	view := EvaluateBudget(budgetFor("40", Bills, jan), []Expense{
		expense("20", Bills, Date(2024, time.January, 10)),
		expense("15", Bills, Date(2024, time.January, 20)),
		expense("15", Bills, Date(2024, time.February, 1)),
		expense("100", Food, Date(2024, time.January, 20)),
	})
	assertDecimal(t, "35", view.Spent)
	assertDecimal(t, "5", view.Remaining)
	assertDecimal(t, "87.5", view.PercentageUsed)
	assert.Equal(t, StatusWarning, view.Status)
}
