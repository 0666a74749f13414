package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"budget-tracker-backend/internal/budget"
)

const expenseColumns = `id, user_id, amount, category, description, date, created_at`

// ExpenseFilter narrows an expense listing. Window, when set, replaces
// From and To. To is inclusive.
type ExpenseFilter struct {
	Category *budget.Category
	From     *time.Time
	To       *time.Time
	Window   *budget.Window
	Limit    int
	Offset   int
}

func (f ExpenseFilter) where(owner string) (string, []any) {
	clauses := []string{"user_id = ?"}
	args := []any{owner}
	if f.Category != nil {
		clauses = append(clauses, "category = ?")
		args = append(args, string(*f.Category))
	}
	if f.Window != nil {
		clauses = append(clauses, "date >= ?", "date < ?")
		args = append(args, dateArg(f.Window.Start), dateArg(f.Window.End))
	} else {
		if f.From != nil {
			clauses = append(clauses, "date >= ?")
			args = append(args, dateArg(*f.From))
		}
		if f.To != nil {
			clauses = append(clauses, "date <= ?")
			args = append(args, dateArg(*f.To))
		}
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// CreateExpense inserts a validated expense for owner.
func (s *Store) CreateExpense(ctx context.Context, owner string, p budget.ExpenseParams) (budget.Expense, error) {
	if err := checkOwner(owner); err != nil {
		return budget.Expense{}, err
	}
	query := `INSERT INTO expenses (` + expenseColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING ` + expenseColumns

	e, err := scanExpense(s.db.QueryRowContext(ctx, query,
		s.ids(), owner, p.Amount, string(p.Category), p.Description, dateArg(p.Date), s.db.timeArg(s.now()),
	))
	if err != nil {
		return budget.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	return e, nil
}

// GetExpense returns the owner's expense with the given id.
func (s *Store) GetExpense(ctx context.Context, owner, id string) (budget.Expense, error) {
	if err := checkOwner(owner); err != nil {
		return budget.Expense{}, err
	}
	eid, err := parseID(id)
	if err != nil {
		return budget.Expense{}, err
	}
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = ? AND user_id = ?`
	e, err := scanExpense(s.db.QueryRowContext(ctx, query, eid, owner))
	if err != nil {
		return budget.Expense{}, notFound(err)
	}
	return e, nil
}

// UpdateExpense applies a validated patch. An empty patch returns the
// current record unchanged.
func (s *Store) UpdateExpense(ctx context.Context, owner, id string, patch budget.ExpensePatch) (budget.Expense, error) {
	if patch.Empty() {
		return s.GetExpense(ctx, owner, id)
	}
	if err := checkOwner(owner); err != nil {
		return budget.Expense{}, err
	}
	eid, err := parseID(id)
	if err != nil {
		return budget.Expense{}, err
	}

	var sets []string
	var args []any
	if patch.Amount != nil {
		sets = append(sets, "amount = ?")
		args = append(args, *patch.Amount)
	}
	if patch.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, string(*patch.Category))
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Date != nil {
		sets = append(sets, "date = ?")
		args = append(args, dateArg(*patch.Date))
	}
	args = append(args, eid, owner)

	query := `UPDATE expenses SET ` + strings.Join(sets, ", ") + `
		WHERE id = ? AND user_id = ?
		RETURNING ` + expenseColumns
	e, err := scanExpense(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return budget.Expense{}, notFound(err)
	}
	return e, nil
}

// DeleteExpense removes the owner's expense.
func (s *Store) DeleteExpense(ctx context.Context, owner, id string) error {
	if err := checkOwner(owner); err != nil {
		return err
	}
	eid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ? AND user_id = ?`, eid, owner)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListExpenses returns one page of the owner's expenses, newest first.
// A zero Limit returns every match.
func (s *Store) ListExpenses(ctx context.Context, owner string, f ExpenseFilter) ([]budget.Expense, error) {
	if err := checkOwner(owner); err != nil {
		return nil, err
	}
	where, args := f.where(owner)
	query := `SELECT ` + expenseColumns + ` FROM expenses` + where + ` ORDER BY date DESC, created_at DESC`
	if f.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]budget.Expense, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("list expenses: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

// CountExpenses counts the owner's expenses matching f, ignoring paging.
func (s *Store) CountExpenses(ctx context.Context, owner string, f ExpenseFilter) (int, error) {
	if err := checkOwner(owner); err != nil {
		return 0, err
	}
	where, args := f.where(owner)
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM expenses`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count expenses: %w", err)
	}
	return n, nil
}

// ExpensesInWindow returns every expense of the owner dated inside w.
func (s *Store) ExpensesInWindow(ctx context.Context, owner string, w budget.Window) ([]budget.Expense, error) {
	return s.ListExpenses(ctx, owner, ExpenseFilter{Window: &w})
}

func scanExpense(r row) (budget.Expense, error) {
	var (
		e           budget.Expense
		id          uuid.UUID
		amount      decimal.Decimal
		category    string
		description sql.NullString
		date        dateValue
		createdAt   timeValue
	)
	if err := r.Scan(&id, &e.UserID, &amount, &category, &description, &date, &createdAt); err != nil {
		return budget.Expense{}, err
	}
	c, err := categoryFrom(category)
	if err != nil {
		return budget.Expense{}, err
	}

	e.ID = id.String()
	e.Amount = amount
	e.Category = c
	if description.Valid {
		d := description.String
		e.Description = &d
	}
	e.Date = date.t
	e.CreatedAt = createdAt.t
	return e, nil
}
