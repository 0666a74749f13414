package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"budget-tracker-backend/internal/budget"
)

const budgetColumns = `id, user_id, category, amount, month, created_at`

// BudgetFilter narrows a budget listing.
type BudgetFilter struct {
	Month    *budget.Month
	Category *budget.Category
}

// UpsertBudget creates the owner's budget for (category, month), or
// overwrites the amount of the existing one. The original id and
// created_at are kept on overwrite.
func (s *Store) UpsertBudget(ctx context.Context, owner string, p budget.BudgetParams) (budget.Budget, error) {
	if err := checkOwner(owner); err != nil {
		return budget.Budget{}, err
	}
	query := `INSERT INTO budgets (` + budgetColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, category, month) DO UPDATE SET amount = excluded.amount
		RETURNING ` + budgetColumns

	b, err := scanBudget(s.db.QueryRowContext(ctx, query,
		s.ids(), owner, string(p.Category), p.Amount, p.Month.String(), s.db.timeArg(s.now()),
	))
	if err != nil {
		return budget.Budget{}, fmt.Errorf("upsert budget: %w", err)
	}
	return b, nil
}

// GetBudget returns the owner's budget with the given id.
func (s *Store) GetBudget(ctx context.Context, owner, id string) (budget.Budget, error) {
	if err := checkOwner(owner); err != nil {
		return budget.Budget{}, err
	}
	bid, err := parseID(id)
	if err != nil {
		return budget.Budget{}, err
	}
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE id = ? AND user_id = ?`
	b, err := scanBudget(s.db.QueryRowContext(ctx, query, bid, owner))
	if err != nil {
		return budget.Budget{}, notFound(err)
	}
	return b, nil
}

// UpdateBudget applies a validated patch. An empty patch returns the
// current record unchanged.
func (s *Store) UpdateBudget(ctx context.Context, owner, id string, patch budget.BudgetPatch) (budget.Budget, error) {
	if patch.Amount == nil {
		return s.GetBudget(ctx, owner, id)
	}
	if err := checkOwner(owner); err != nil {
		return budget.Budget{}, err
	}
	bid, err := parseID(id)
	if err != nil {
		return budget.Budget{}, err
	}
	query := `UPDATE budgets SET amount = ? WHERE id = ? AND user_id = ? RETURNING ` + budgetColumns
	b, err := scanBudget(s.db.QueryRowContext(ctx, query, *patch.Amount, bid, owner))
	if err != nil {
		return budget.Budget{}, notFound(err)
	}
	return b, nil
}

// DeleteBudget removes the owner's budget.
func (s *Store) DeleteBudget(ctx context.Context, owner, id string) error {
	if err := checkOwner(owner); err != nil {
		return err
	}
	bid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ? AND user_id = ?`, bid, owner)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListBudgets returns the owner's budgets, latest month first.
func (s *Store) ListBudgets(ctx context.Context, owner string, f BudgetFilter) ([]budget.Budget, error) {
	if err := checkOwner(owner); err != nil {
		return nil, err
	}
	clauses := []string{"user_id = ?"}
	args := []any{owner}
	if f.Month != nil {
		clauses = append(clauses, "month = ?")
		args = append(args, f.Month.String())
	}
	if f.Category != nil {
		clauses = append(clauses, "category = ?")
		args = append(args, string(*f.Category))
	}
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE ` + strings.Join(clauses, " AND ") +
		` ORDER BY month DESC, category ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	budgets := make([]budget.Budget, 0)
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("list budgets: %w", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return budgets, nil
}

func scanBudget(r row) (budget.Budget, error) {
	var (
		b         budget.Budget
		id        uuid.UUID
		category  string
		amount    decimal.Decimal
		month     string
		createdAt timeValue
	)
	if err := r.Scan(&id, &b.UserID, &category, &amount, &month, &createdAt); err != nil {
		return budget.Budget{}, err
	}
	c, err := categoryFrom(category)
	if err != nil {
		return budget.Budget{}, err
	}
	m, err := budget.ParseMonth(strings.TrimSpace(month))
	if err != nil {
		return budget.Budget{}, fmt.Errorf("%w: bad month %q", ErrCorruptRecord, month)
	}

	b.ID = id.String()
	b.Category = c
	b.Amount = amount
	b.Month = m
	b.CreatedAt = createdAt.t
	return b, nil
}
