package budget

import "github.com/shopspring/decimal"

// SumByCategory totals expense amounts per category. Categories without
// expenses are absent from the result.
func SumByCategory(expenses []Expense) map[Category]decimal.Decimal {
	sums := make(map[Category]decimal.Decimal)
	for _, e := range expenses {
		sums[e.Category] = sums[e.Category].Add(e.Amount)
	}
	return sums
}

// SumByDay totals expense amounts per calendar date, keyed by YYYY-MM-DD.
func SumByDay(expenses []Expense) map[string]decimal.Decimal {
	sums := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		key := e.Date.Format(DateLayout)
		sums[key] = sums[key].Add(e.Amount)
	}
	return sums
}

// Total sums every expense amount.
func Total(expenses []Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// InWindow returns the expenses dated inside w.
func InWindow(expenses []Expense, w Window) []Expense {
	out := make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		if w.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out
}
