package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"budget-tracker-backend/internal/budget"
	"budget-tracker-backend/internal/events"
	"budget-tracker-backend/internal/store"
)

const (
	expenseNotFound = "Expense not found"

	defaultPageSize = 50
	maxPageSize     = 100
)

type expenseRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Category    *string          `json:"category"`
	Description *string          `json:"description"`
	Date        *string          `json:"date"`
}

func (r expenseRequest) params() (budget.ExpenseParams, error) {
	var p budget.ExpenseParams
	if r.Amount == nil {
		return p, invalid("amount", "amount is required")
	}
	if r.Category == nil {
		return p, invalid("category", "category is required")
	}
	if r.Date == nil {
		return p, invalid("date", "date is required")
	}
	category, err := budget.ParseCategory(*r.Category)
	if err != nil {
		return p, err
	}
	date, err := budget.ParseDate(*r.Date)
	if err != nil {
		return p, err
	}
	p = budget.ExpenseParams{Amount: *r.Amount, Category: category, Description: r.Description, Date: date}
	return p, p.Validate()
}

func (r expenseRequest) patch() (budget.ExpensePatch, error) {
	p := budget.ExpensePatch{Amount: r.Amount, Description: r.Description}
	if r.Category != nil {
		category, err := budget.ParseCategory(*r.Category)
		if err != nil {
			return p, err
		}
		p.Category = &category
	}
	if r.Date != nil {
		date, err := budget.ParseDate(*r.Date)
		if err != nil {
			return p, err
		}
		p.Date = &date
	}
	return p, p.Validate()
}

func bindJSON(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return invalid("body", "request body must be valid JSON")
	}
	return nil
}

func (s *Server) createExpense(c *gin.Context) {
	var req expenseRequest
	if err := bindJSON(c, &req); err != nil {
		s.fail(c, err, expenseNotFound)
		return
	}
	params, err := req.params()
	if err != nil {
		s.fail(c, err, expenseNotFound)
		return
	}

	e, err := s.expenses.CreateExpense(c.Request.Context(), owner(c), params)
	if err != nil {
		s.fail(c, err, expenseNotFound)
		return
	}
	resp := toExpense(e)
	s.publish(c, events.ExpenseCreated, e.ID, resp)
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) listExpenses(c *gin.Context) {
	f, err := expenseFilter(c)
	if err != nil {
		s.fail(c, err, expenseNotFound)
		return
	}

	ctx := c.Request.Context()
	expenses, err := s.expenses.ListExpenses(ctx, owner(c), f)
	if err != nil {
		s.fail(c, err, expenseNotFound)
		return
	}
	total, err := s.expenses.CountExpenses(ctx, owner(c), f)
	if err != nil {
		s.fail(c, err, expenseNotFound)
		return
	}

	c.JSON(http.StatusOK, ExpenseListResponse{
		Expenses:    toExpenses(expenses),
		Total:       total,
		TotalAmount: money(budget.Total(expenses).Round(2)),
	})
}

// expenseFilter reads the listing query. month, when present, replaces
// start_date and end_date.
func expenseFilter(c *gin.Context) (store.ExpenseFilter, error) {
	f := store.ExpenseFilter{Limit: defaultPageSize}

	if v := c.Query("category"); v != "" {
		category, err := budget.ParseCategory(v)
		if err != nil {
			return f, err
		}
		f.Category = &category
	}

	if v := c.Query("month"); v != "" {
		m, err := budget.ParseMonth(v)
		if err != nil {
			return f, err
		}
		w := m.Window()
		f.Window = &w
	} else {
		if v := c.Query("start_date"); v != "" {
			d, err := budget.ParseDate(v)
			if err != nil {
				return f, err
			}
			f.From = &d
		}
		if v := c.Query("end_date"); v != "" {
			d, err := budget.ParseDate(v)
			if err != nil {
				return f, err
			}
			f.To = &d
		}
	}

	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxPageSize {
			return f, invalid("limit", "limit must be between 1 and 100")
		}
		f.Limit = n
	}
	if v := c.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return f, invalid("offset", "offset must be 0 or greater")
		}
		f.Offset = n
	}
	return f, nil
}

func (s *Server) getExpense(c *gin.Context) {
	e, err := s.expenses.GetExpense(c.Request.Context(), owner(c), c.Param("id"))
	if err != nil {
		s.fail(c, err, expenseNotFound)
		return
	}
	c.JSON(http.StatusOK, toExpense(e))
}

func (s *Server) updateExpense(c *gin.Context) {
	var req expenseRequest
	if err := bindJSON(c, &req); err != nil {
		s.fail(c, err, expenseNotFound)
		return
	}
	patch, err := req.patch()
	if err != nil {
		s.fail(c, err, expenseNotFound)
		return
	}

	e, err := s.expenses.UpdateExpense(c.Request.Context(), owner(c), c.Param("id"), patch)
	if err != nil {
		s.fail(c, err, expenseNotFound)
		return
	}
	resp := toExpense(e)
	if !patch.Empty() {
		s.publish(c, events.ExpenseUpdated, e.ID, resp)
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) deleteExpense(c *gin.Context) {
	id := c.Param("id")
	if err := s.expenses.DeleteExpense(c.Request.Context(), owner(c), id); err != nil {
		s.fail(c, err, expenseNotFound)
		return
	}
	s.publish(c, events.ExpenseDeleted, id, nil)
	c.Status(http.StatusNoContent)
}
