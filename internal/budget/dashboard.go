package budget

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// RecentLimit is the number of expenses listed as recent activity.
const RecentLimit = 5

// CategoryBreakdown is the spend of one category in the dashboard month.
//
// Percentage has two meanings: for a budgeted category it is the share of
// that category's budget used, for an unbudgeted one it is the category's
// share of the month's total spend. Budget is nil for unbudgeted categories.
type CategoryBreakdown struct {
	Category   Category
	Amount     decimal.Decimal
	Percentage decimal.Decimal
	Budget     *decimal.Decimal
	Status     Status
}

// TrendPoint is the spend of a single day.
type TrendPoint struct {
	Date   time.Time
	Amount decimal.Decimal
}

// DashboardSummary is the aggregated view of one month.
type DashboardSummary struct {
	Month           Month
	TotalSpent      decimal.Decimal
	TotalBudget     decimal.Decimal
	RemainingBudget decimal.Decimal
	Status          Status
	Breakdown       []CategoryBreakdown
	Recent          []Expense
	Trend           []TrendPoint
}

// DashboardInput is the snapshot a dashboard is computed from.
type DashboardInput struct {
	Month    Month
	Expenses []Expense
	Budgets  []Budget
	Now      time.Time
}

// ComposeDashboard builds the dashboard for in.Month. Expenses outside the
// month and budgets for other months are ignored.
func ComposeDashboard(in DashboardInput) DashboardSummary {
	w := in.Month.Window()
	expenses := InWindow(in.Expenses, w)

	budgets := make(map[Category]decimal.Decimal)
	totalBudget := decimal.Zero
	for _, b := range in.Budgets {
		if b.Month != in.Month {
			continue
		}
		budgets[b.Category] = b.Amount
		totalBudget = totalBudget.Add(b.Amount)
	}

	spent := SumByCategory(expenses)
	totalSpent := Total(expenses)

	summary := DashboardSummary{
		Month:           in.Month,
		TotalSpent:      totalSpent.Round(2),
		TotalBudget:     totalBudget.Round(2),
		RemainingBudget: totalBudget.Sub(totalSpent).Round(2),
		Status:          StatusNoBudget,
		Breakdown:       breakdown(spent, budgets, totalSpent),
		Recent:          recent(expenses, RecentLimit),
		Trend:           trend(expenses, w, in.Now),
	}
	if totalBudget.IsPositive() {
		summary.Status = StatusFor(percentOf(totalSpent, totalBudget))
	}
	return summary
}

func breakdown(spent, budgets map[Category]decimal.Decimal, totalSpent decimal.Decimal) []CategoryBreakdown {
	out := make([]CategoryBreakdown, 0, len(categories))
	for _, c := range categories {
		s, hasSpend := spent[c]
		amount, hasBudget := budgets[c]
		if !hasSpend && !hasBudget {
			continue
		}

		item := CategoryBreakdown{Category: c, Amount: s.Round(2)}
		if hasBudget {
			ev := Evaluate(amount, s)
			item.Percentage = ev.PercentageUsed
			item.Status = ev.Status
			b := amount.Round(2)
			item.Budget = &b
		} else {
			item.Percentage = percentOf(s, totalSpent).Round(1)
			item.Status = StatusNoBudget
		}
		out = append(out, item)
	}

	// out is already in category order, so a stable sort keeps it for ties.
	slices.SortStableFunc(out, func(a, b CategoryBreakdown) int {
		return b.Amount.Cmp(a.Amount)
	})
	return out
}

// recent returns up to n expenses, newest date first, then newest created.
func recent(expenses []Expense, n int) []Expense {
	sorted := slices.Clone(expenses)
	slices.SortStableFunc(sorted, func(a, b Expense) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return sorted[:min(n, len(sorted))]
}

// trend returns one point per day from the window start through today,
// clipped to the window. Days without expenses are zero.
func trend(expenses []Expense, w Window, now time.Time) []TrendPoint {
	byDay := SumByDay(expenses)
	today := DateOf(now.UTC())

	points := make([]TrendPoint, 0, w.Days())
	for d := w.Start; d.Before(w.End) && !d.After(today); d = d.AddDate(0, 0, 1) {
		points = append(points, TrendPoint{Date: d, Amount: byDay[d.Format(DateLayout)].Round(2)})
	}
	return points
}

// compareCategory orders categories by declaration order.
func compareCategory(a, b Category) int {
	return cmp.Compare(a.rank(), b.rank())
}
