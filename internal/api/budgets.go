package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"budget-tracker-backend/internal/budget"
	"budget-tracker-backend/internal/events"
	"budget-tracker-backend/internal/store"
)

const budgetNotFound = "Budget not found"

type budgetRequest struct {
	Category *string          `json:"category"`
	Amount   *decimal.Decimal `json:"amount"`
	Month    *string          `json:"month"`
}

func (r budgetRequest) params() (budget.BudgetParams, error) {
	var p budget.BudgetParams
	if r.Category == nil {
		return p, invalid("category", "category is required")
	}
	if r.Amount == nil {
		return p, invalid("amount", "amount is required")
	}
	if r.Month == nil {
		return p, invalid("month", "month is required")
	}
	category, err := budget.ParseCategory(*r.Category)
	if err != nil {
		return p, err
	}
	month, err := budget.ParseMonth(*r.Month)
	if err != nil {
		return p, err
	}
	p = budget.BudgetParams{Category: category, Amount: *r.Amount, Month: month}
	return p, p.Validate()
}

type budgetPatchRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

// evaluate attaches the spend of the budget's own month to b.
func (s *Server) evaluate(c *gin.Context, b budget.Budget) (budget.BudgetView, error) {
	expenses, err := s.expenses.ExpensesInWindow(c.Request.Context(), owner(c), b.Month.Window())
	if err != nil {
		return budget.BudgetView{}, err
	}
	return budget.EvaluateBudget(b, expenses), nil
}

func (s *Server) upsertBudget(c *gin.Context) {
	var req budgetRequest
	if err := bindJSON(c, &req); err != nil {
		s.fail(c, err, budgetNotFound)
		return
	}
	params, err := req.params()
	if err != nil {
		s.fail(c, err, budgetNotFound)
		return
	}

	b, err := s.budgets.UpsertBudget(c.Request.Context(), owner(c), params)
	if err != nil {
		s.fail(c, err, budgetNotFound)
		return
	}
	view, err := s.evaluate(c, b)
	if err != nil {
		s.fail(c, err, budgetNotFound)
		return
	}
	resp := toBudget(view)
	s.publish(c, events.BudgetUpserted, b.ID, resp)
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) listBudgets(c *gin.Context) {
	var f store.BudgetFilter
	if v := c.Query("month"); v != "" {
		m, err := budget.ParseMonth(v)
		if err != nil {
			s.fail(c, err, budgetNotFound)
			return
		}
		f.Month = &m
	}
	if v := c.Query("category"); v != "" {
		category, err := budget.ParseCategory(v)
		if err != nil {
			s.fail(c, err, budgetNotFound)
			return
		}
		f.Category = &category
	}

	ctx := c.Request.Context()
	user := owner(c)
	var (
		budgets  []budget.Budget
		expenses []budget.Expense
	)

	if f.Month != nil {
		// The window is known up front, so both reads can run together.
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			budgets, err = s.budgets.ListBudgets(gctx, user, f)
			return err
		})
		g.Go(func() error {
			var err error
			expenses, err = s.expenses.ExpensesInWindow(gctx, user, f.Month.Window())
			return err
		})
		if err := g.Wait(); err != nil {
			s.fail(c, err, budgetNotFound)
			return
		}
	} else {
		var err error
		budgets, err = s.budgets.ListBudgets(ctx, user, f)
		if err != nil {
			s.fail(c, err, budgetNotFound)
			return
		}
		if w, ok := budget.MonthSpan(budgets); ok {
			expenses, err = s.expenses.ExpensesInWindow(ctx, user, w)
			if err != nil {
				s.fail(c, err, budgetNotFound)
				return
			}
		}
	}

	c.JSON(http.StatusOK, toBudgetList(budget.SummarizeBudgets(budgets, expenses)))
}

func (s *Server) getBudget(c *gin.Context) {
	b, err := s.budgets.GetBudget(c.Request.Context(), owner(c), c.Param("id"))
	if err != nil {
		s.fail(c, err, budgetNotFound)
		return
	}
	view, err := s.evaluate(c, b)
	if err != nil {
		s.fail(c, err, budgetNotFound)
		return
	}
	c.JSON(http.StatusOK, toBudget(view))
}

func (s *Server) updateBudget(c *gin.Context) {
	var req budgetPatchRequest
	if err := bindJSON(c, &req); err != nil {
		s.fail(c, err, budgetNotFound)
		return
	}
	patch := budget.BudgetPatch{Amount: req.Amount}
	if err := patch.Validate(); err != nil {
		s.fail(c, err, budgetNotFound)
		return
	}

	b, err := s.budgets.UpdateBudget(c.Request.Context(), owner(c), c.Param("id"), patch)
	if err != nil {
		s.fail(c, err, budgetNotFound)
		return
	}
	view, err := s.evaluate(c, b)
	if err != nil {
		s.fail(c, err, budgetNotFound)
		return
	}
	resp := toBudget(view)
	if patch.Amount != nil {
		s.publish(c, events.BudgetUpdated, b.ID, resp)
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) deleteBudget(c *gin.Context) {
	id := c.Param("id")
	if err := s.budgets.DeleteBudget(c.Request.Context(), owner(c), id); err != nil {
		s.fail(c, err, budgetNotFound)
		return
	}
	s.publish(c, events.BudgetDeleted, id, nil)
	c.Status(http.StatusNoContent)
}
