package budget

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// AlertType is the severity of a budget alert.
type AlertType string

const (
	AlertWarning  AlertType = "warning"
	AlertExceeded AlertType = "exceeded"
)

// Alert flags a budget of the current month that is nearly or fully spent.
// Remaining is set for warnings, OverBy for exceeded budgets.
type Alert struct {
	Category   Category
	Type       AlertType
	Message    string
	Spent      decimal.Decimal
	Budget     decimal.Decimal
	Percentage decimal.Decimal
	Remaining  *decimal.Decimal
	OverBy     *decimal.Decimal

	percentage decimal.Decimal
}

// AlertInput is the snapshot alerts are computed from.
type AlertInput struct {
	Expenses []Expense
	Budgets  []Budget
	Now      time.Time
}

// EvaluateAlerts returns an alert for every budget of the month containing
// in.Now whose status is warning or exceeded, most consumed first.
func EvaluateAlerts(in AlertInput) []Alert {
	month := CurrentMonth(in.Now)
	spent := SumByCategory(InWindow(in.Expenses, month.Window()))

	alerts := make([]Alert, 0)
	for _, b := range in.Budgets {
		if b.Month != month {
			continue
		}
		s := spent[b.Category]
		ev := Evaluate(b.Amount, s)

		alert := Alert{
			Category:   b.Category,
			Spent:      ev.Spent,
			Budget:     b.Amount.Round(2),
			Percentage: ev.PercentageUsed,
			percentage: ev.percentage,
		}
		switch ev.Status {
		case StatusExceeded:
			over := s.Sub(b.Amount).Round(2)
			alert.Type = AlertExceeded
			alert.Message = fmt.Sprintf("You've exceeded your %s budget!", b.Category)
			alert.OverBy = &over
		case StatusWarning:
			remaining := ev.Remaining
			alert.Type = AlertWarning
			alert.Message = fmt.Sprintf("You're approaching your %s budget limit", b.Category)
			alert.Remaining = &remaining
		default:
			continue
		}
		alerts = append(alerts, alert)
	}

	slices.SortStableFunc(alerts, func(a, b Alert) int {
		if c := b.percentage.Cmp(a.percentage); c != 0 {
			return c
		}
		return compareCategory(a.Category, b.Category)
	})
	return alerts
}
