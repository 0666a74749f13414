package budget

import "github.com/shopspring/decimal"

// Status tags how much of a budget has been consumed.
type Status string

const (
	StatusOK       Status = "ok"
	StatusWarning  Status = "warning"
	StatusExceeded Status = "exceeded"
	StatusNoBudget Status = "no_budget"
)

var (
	hundred           = decimal.NewFromInt(100)
	warningThreshold  = decimal.NewFromInt(80)
	exceededThreshold = hundred
)

// StatusFor maps a percentage of budget used to a status. Callers pass the
// unrounded percentage so that 79.99 stays ok.
func StatusFor(percentage decimal.Decimal) Status {
	switch {
	case percentage.GreaterThanOrEqual(exceededThreshold):
		return StatusExceeded
	case percentage.GreaterThanOrEqual(warningThreshold):
		return StatusWarning
	default:
		return StatusOK
	}
}

// BudgetStatus is a budget amount evaluated against the spend it covers.
type BudgetStatus struct {
	Spent          decimal.Decimal
	Remaining      decimal.Decimal
	PercentageUsed decimal.Decimal
	Status         Status

	// percentage is PercentageUsed before rounding.
	percentage decimal.Decimal
}

// Evaluate compares spent against amount. A zero amount yields 0% used.
func Evaluate(amount, spent decimal.Decimal) BudgetStatus {
	pct := percentOf(spent, amount)
	return BudgetStatus{
		Spent:          spent.Round(2),
		Remaining:      amount.Sub(spent).Round(2),
		PercentageUsed: pct.Round(1),
		Status:         StatusFor(pct),
		percentage:     pct,
	}
}

// percentOf returns part/whole*100, or zero when whole is not positive.
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}
