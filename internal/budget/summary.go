package budget

import "github.com/shopspring/decimal"

// BudgetView is a stored budget together with its evaluation.
type BudgetView struct {
	Budget
	BudgetStatus
}

// BudgetSummary is a list of evaluated budgets with totals across all of them.
type BudgetSummary struct {
	Budgets     []BudgetView
	TotalBudget decimal.Decimal
	TotalSpent  decimal.Decimal
}

type spendKey struct {
	category Category
	month    Month
}

// EvaluateBudget evaluates b against the expenses of its own category and month.
func EvaluateBudget(b Budget, expenses []Expense) BudgetView {
	spent := decimal.Zero
	w := b.Month.Window()
	for _, e := range expenses {
		if e.Category == b.Category && w.Contains(e.Date) {
			spent = spent.Add(e.Amount)
		}
	}
	return BudgetView{Budget: b, BudgetStatus: Evaluate(b.Amount, spent)}
}

// SummarizeBudgets evaluates every budget and totals budgeted and spent
// amounts across the list. Budgets may span several months.
func SummarizeBudgets(budgets []Budget, expenses []Expense) BudgetSummary {
	spent := make(map[spendKey]decimal.Decimal)
	for _, e := range expenses {
		k := spendKey{category: e.Category, month: CurrentMonth(e.Date)}
		spent[k] = spent[k].Add(e.Amount)
	}

	summary := BudgetSummary{Budgets: make([]BudgetView, 0, len(budgets))}
	totalBudget, totalSpent := decimal.Zero, decimal.Zero
	for _, b := range budgets {
		view := BudgetView{Budget: b, BudgetStatus: Evaluate(b.Amount, spent[spendKey{category: b.Category, month: b.Month}])}
		summary.Budgets = append(summary.Budgets, view)
		totalBudget = totalBudget.Add(b.Amount)
		totalSpent = totalSpent.Add(view.Spent)
	}
	summary.TotalBudget = totalBudget.Round(2)
	summary.TotalSpent = totalSpent.Round(2)
	return summary
}

// MonthSpan returns the smallest window covering the months of every budget.
// ok is false for an empty list.
func MonthSpan(budgets []Budget) (w Window, ok bool) {
	for i, b := range budgets {
		bw := b.Month.Window()
		if i == 0 || bw.Start.Before(w.Start) {
			w.Start = bw.Start
		}
		if i == 0 || bw.End.After(w.End) {
			w.End = bw.End
		}
	}
	return w, len(budgets) > 0
}
