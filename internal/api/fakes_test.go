package api

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"budget-tracker-backend/internal/auth"
	"budget-tracker-backend/internal/budget"
	"budget-tracker-backend/internal/events"
	"budget-tracker-backend/internal/store"
)

// memStore is an in-memory ExpenseStore and BudgetStore.
type memStore struct {
	mu       sync.Mutex
	expenses []budget.Expense
	budgets  []budget.Budget
	now      func() time.Time
	err      error
}

func newMemStore(now func() time.Time) *memStore {
	return &memStore{now: now}
}

func (m *memStore) CreateExpense(_ context.Context, owner string, p budget.ExpenseParams) (budget.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return budget.Expense{}, m.err
	}
	e := budget.Expense{
		ID:          uuid.NewString(),
		UserID:      owner,
		Amount:      p.Amount,
		Category:    p.Category,
		Description: p.Description,
		Date:        p.Date,
		CreatedAt:   m.now().Add(time.Duration(len(m.expenses)) * time.Second),
	}
	m.expenses = append(m.expenses, e)
	return e, nil
}

func (m *memStore) findExpense(owner, id string) int {
	return slices.IndexFunc(m.expenses, func(e budget.Expense) bool {
		return e.ID == id && e.UserID == owner
	})
}

func (m *memStore) GetExpense(_ context.Context, owner, id string) (budget.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.findExpense(owner, id)
	if i < 0 {
		return budget.Expense{}, store.ErrNotFound
	}
	return m.expenses[i], nil
}

func (m *memStore) UpdateExpense(_ context.Context, owner, id string, patch budget.ExpensePatch) (budget.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.findExpense(owner, id)
	if i < 0 {
		return budget.Expense{}, store.ErrNotFound
	}
	m.expenses[i] = patch.Apply(m.expenses[i])
	return m.expenses[i], nil
}

func (m *memStore) DeleteExpense(_ context.Context, owner, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.findExpense(owner, id)
	if i < 0 {
		return store.ErrNotFound
	}
	m.expenses = slices.Delete(m.expenses, i, i+1)
	return nil
}

func (m *memStore) match(owner string, f store.ExpenseFilter) []budget.Expense {
	var out []budget.Expense
	for _, e := range m.expenses {
		if e.UserID != owner {
			continue
		}
		if f.Category != nil && e.Category != *f.Category {
			continue
		}
		if f.Window != nil {
			if !f.Window.Contains(e.Date) {
				continue
			}
		} else {
			if f.From != nil && e.Date.Before(*f.From) {
				continue
			}
			if f.To != nil && e.Date.After(*f.To) {
				continue
			}
		}
		out = append(out, e)
	}
	slices.SortStableFunc(out, func(a, b budget.Expense) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

func (m *memStore) ListExpenses(_ context.Context, owner string, f store.ExpenseFilter) ([]budget.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := m.match(owner, f)
	if f.Limit > 0 {
		start := min(f.Offset, len(out))
		out = out[start:min(start+f.Limit, len(out))]
	}
	return out, nil
}

func (m *memStore) CountExpenses(_ context.Context, owner string, f store.ExpenseFilter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.match(owner, f)), nil
}

func (m *memStore) ExpensesInWindow(ctx context.Context, owner string, w budget.Window) ([]budget.Expense, error) {
	return m.ListExpenses(ctx, owner, store.ExpenseFilter{Window: &w})
}

func (m *memStore) UpsertBudget(_ context.Context, owner string, p budget.BudgetParams) (budget.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, b := range m.budgets {
		if b.UserID == owner && b.Category == p.Category && b.Month == p.Month {
			m.budgets[i].Amount = p.Amount
			return m.budgets[i], nil
		}
	}
	b := budget.Budget{
		ID:        uuid.NewString(),
		UserID:    owner,
		Category:  p.Category,
		Amount:    p.Amount,
		Month:     p.Month,
		CreatedAt: m.now(),
	}
	m.budgets = append(m.budgets, b)
	return b, nil
}

func (m *memStore) findBudget(owner, id string) int {
	return slices.IndexFunc(m.budgets, func(b budget.Budget) bool {
		return b.ID == id && b.UserID == owner
	})
}

func (m *memStore) GetBudget(_ context.Context, owner, id string) (budget.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return budget.Budget{}, m.err
	}
	i := m.findBudget(owner, id)
	if i < 0 {
		return budget.Budget{}, store.ErrNotFound
	}
	return m.budgets[i], nil
}

func (m *memStore) UpdateBudget(_ context.Context, owner, id string, patch budget.BudgetPatch) (budget.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.findBudget(owner, id)
	if i < 0 {
		return budget.Budget{}, store.ErrNotFound
	}
	if patch.Amount != nil {
		m.budgets[i].Amount = *patch.Amount
	}
	return m.budgets[i], nil
}

func (m *memStore) DeleteBudget(_ context.Context, owner, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.findBudget(owner, id)
	if i < 0 {
		return store.ErrNotFound
	}
	m.budgets = slices.Delete(m.budgets, i, i+1)
	return nil
}

func (m *memStore) ListBudgets(_ context.Context, owner string, f store.BudgetFilter) ([]budget.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]budget.Budget, 0)
	for _, b := range m.budgets {
		if b.UserID != owner {
			continue
		}
		if f.Month != nil && b.Month != *f.Month {
			continue
		}
		if f.Category != nil && b.Category != *f.Category {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// tokenVerifier accepts tokens of the form "user:<id>".
type tokenVerifier struct{}

func (tokenVerifier) Verify(_ context.Context, token string) (auth.Identity, error) {
	if len(token) > 5 && token[:5] == "user:" {
		return auth.Identity{UserID: token[5:], Email: token[5:] + "@example.com"}, nil
	}
	return auth.Identity{}, auth.ErrUnauthenticated
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
