package store

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"budget-tracker-backend/internal/budget"
)

type demoExpense struct {
	daysAgo     int
	amount      string
	category    budget.Category
	description string
}

var demoExpenses = []demoExpense{
	{28, "1500.00", budget.Bills, "Rent - Apartment"},
	{22, "120.45", budget.Bills, "Utilities - Electricity"},
	{20, "96.72", budget.Food, "Groceries - Whole Foods"},
	{19, "45.00", budget.Transport, "Subway Pass"},
	{16, "28.50", budget.Entertainment, "Movie Night"},
	{14, "64.11", budget.Food, "Groceries - Trader Joes"},
	{12, "39.99", budget.Education, "Online course"},
	{11, "60.00", budget.Bills, "Internet"},
	{9, "74.20", budget.Shopping, "Running shoes"},
	{8, "140.00", budget.Entertainment, "Concert Tickets"},
	{6, "132.39", budget.Food, "Groceries - Costco"},
	{5, "25.00", budget.Health, "Pharmacy"},
	{4, "22.30", budget.Transport, "Rideshare"},
	{1, "54.80", budget.Food, "Dinner Out"},
}

var demoBudgets = []struct {
	category budget.Category
	amount   string
}{
	{budget.Food, "400.00"},
	{budget.Entertainment, "200.00"},
	{budget.Transport, "150.00"},
	{budget.Bills, "1700.00"},
}

// SeedDemo inserts demo expenses over the last four weeks and budgets for
// the current month. It does nothing when the owner already has expenses.
func (s *Store) SeedDemo(ctx context.Context, owner string) (bool, error) {
	n, err := s.CountExpenses(ctx, owner, ExpenseFilter{})
	if err != nil {
		return false, fmt.Errorf("checking expenses count: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := s.now()
	today := budget.DateOf(now.UTC())
	insertExpense := s.db.rebind(`INSERT INTO expenses (` + expenseColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	for i, d := range demoExpenses {
		desc := d.description
		createdAt := now.Add(time.Duration(i) * time.Second)
		if _, err := tx.ExecContext(ctx, insertExpense,
			s.ids(), owner, decimal.RequireFromString(d.amount), string(d.category), &desc,
			dateArg(today.AddDate(0, 0, -d.daysAgo)), s.db.timeArg(createdAt),
		); err != nil {
			return false, fmt.Errorf("seeding demo expenses: %w", err)
		}
	}

	month := budget.CurrentMonth(now).String()
	insertBudget := s.db.rebind(`INSERT INTO budgets (` + budgetColumns + `) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, category, month) DO NOTHING`)
	for _, b := range demoBudgets {
		if _, err := tx.ExecContext(ctx, insertBudget,
			s.ids(), owner, string(b.category), decimal.RequireFromString(b.amount), month, s.db.timeArg(now),
		); err != nil {
			return false, fmt.Errorf("seeding demo budgets: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}
