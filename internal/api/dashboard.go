package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"budget-tracker-backend/internal/budget"
	"budget-tracker-backend/internal/store"
)

// snapshot loads the owner's expenses and budgets of month concurrently.
func (s *Server) snapshot(c *gin.Context, month budget.Month) ([]budget.Expense, []budget.Budget, error) {
	user := owner(c)
	var (
		expenses []budget.Expense
		budgets  []budget.Budget
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		expenses, err = s.expenses.ExpensesInWindow(ctx, user, month.Window())
		return err
	})
	g.Go(func() error {
		var err error
		budgets, err = s.budgets.ListBudgets(ctx, user, store.BudgetFilter{Month: &month})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return expenses, budgets, nil
}

func (s *Server) dashboard(c *gin.Context) {
	now := s.now()
	month, err := budget.ResolveMonth(c.Query("month"), now)
	if err != nil {
		s.fail(c, err, "")
		return
	}

	expenses, budgets, err := s.snapshot(c, month)
	if err != nil {
		s.fail(c, err, "")
		return
	}

	summary := budget.ComposeDashboard(budget.DashboardInput{
		Month:    month,
		Expenses: expenses,
		Budgets:  budgets,
		Now:      now,
	})
	c.JSON(http.StatusOK, toDashboard(summary))
}

func (s *Server) alerts(c *gin.Context) {
	now := s.now()
	expenses, budgets, err := s.snapshot(c, budget.CurrentMonth(now))
	if err != nil {
		s.fail(c, err, "")
		return
	}

	alerts := budget.EvaluateAlerts(budget.AlertInput{
		Expenses: expenses,
		Budgets:  budgets,
		Now:      now,
	})
	c.JSON(http.StatusOK, toAlerts(alerts))
}
