// Package api serves the expense, budget and dashboard HTTP endpoints.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"budget-tracker-backend/internal/auth"
	"budget-tracker-backend/internal/budget"
	"budget-tracker-backend/internal/events"
	"budget-tracker-backend/internal/logging"
	"budget-tracker-backend/internal/store"
)

const internalErrorDetail = "An unexpected error occurred. Please try again."

// ExpenseStore is the owner-scoped expense repository.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, owner string, p budget.ExpenseParams) (budget.Expense, error)
	GetExpense(ctx context.Context, owner, id string) (budget.Expense, error)
	UpdateExpense(ctx context.Context, owner, id string, patch budget.ExpensePatch) (budget.Expense, error)
	DeleteExpense(ctx context.Context, owner, id string) error
	ListExpenses(ctx context.Context, owner string, f store.ExpenseFilter) ([]budget.Expense, error)
	CountExpenses(ctx context.Context, owner string, f store.ExpenseFilter) (int, error)
	ExpensesInWindow(ctx context.Context, owner string, w budget.Window) ([]budget.Expense, error)
}

// BudgetStore is the owner-scoped budget repository.
type BudgetStore interface {
	UpsertBudget(ctx context.Context, owner string, p budget.BudgetParams) (budget.Budget, error)
	GetBudget(ctx context.Context, owner, id string) (budget.Budget, error)
	UpdateBudget(ctx context.Context, owner, id string, patch budget.BudgetPatch) (budget.Budget, error)
	DeleteBudget(ctx context.Context, owner, id string) error
	ListBudgets(ctx context.Context, owner string, f store.BudgetFilter) ([]budget.Budget, error)
}

// Options configures a Server. Zero values fall back to usable defaults
// except for the stores and the verifier, which are required.
type Options struct {
	Expenses  ExpenseStore
	Budgets   BudgetStore
	Verifier  auth.Verifier
	Publisher events.Publisher
	Logger    *logging.Logger
	Timeout   time.Duration
	Now       func() time.Time
}

type Server struct {
	expenses  ExpenseStore
	budgets   BudgetStore
	verifier  auth.Verifier
	publisher events.Publisher
	logger    *logging.Logger
	timeout   time.Duration
	now       func() time.Time
}

func NewServer(opts Options) *Server {
	s := &Server{
		expenses:  opts.Expenses,
		budgets:   opts.Budgets,
		verifier:  opts.Verifier,
		publisher: opts.Publisher,
		logger:    opts.Logger,
		timeout:   opts.Timeout,
		now:       opts.Now,
	}
	if s.publisher == nil {
		s.publisher = events.Nop{}
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Register mounts the authenticated /api routes on r.
func (s *Server) Register(r gin.IRouter) {
	g := r.Group("/api", s.withTimeout(), auth.RequireUser(s.verifier, s.logger))

	g.GET("/auth/me", s.me)

	g.POST("/expenses", s.createExpense)
	g.GET("/expenses", s.listExpenses)
	g.GET("/expenses/:id", s.getExpense)
	g.PATCH("/expenses/:id", s.updateExpense)
	g.DELETE("/expenses/:id", s.deleteExpense)

	g.POST("/budgets", s.upsertBudget)
	g.GET("/budgets", s.listBudgets)
	g.GET("/budgets/:id", s.getBudget)
	g.PATCH("/budgets/:id", s.updateBudget)
	g.DELETE("/budgets/:id", s.deleteBudget)

	g.GET("/dashboard", s.dashboard)
	g.GET("/dashboard/alerts", s.alerts)
}

func (s *Server) withTimeout() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.timeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (s *Server) me(c *gin.Context) {
	id, _ := auth.CurrentUser(c)
	resp := UserResponse{ID: id.UserID, Email: id.Email}
	if id.FullName != "" {
		resp.FullName = &id.FullName
	}
	c.JSON(http.StatusOK, resp)
}

// owner returns the verified user id. RequireUser guarantees it is set.
func owner(c *gin.Context) string {
	id, _ := auth.CurrentUser(c)
	return id.UserID
}

// fail writes the error response for err. notFound is the detail used for
// store.ErrNotFound.
func (s *Server) fail(c *gin.Context, err error, notFound string) {
	var verr *budget.ValidationError
	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, errorResponse{Detail: verr.Message})
	case errors.Is(err, store.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, errorResponse{Detail: notFound})
	default:
		_ = c.Error(err)
		logging.FromContext(c.Request.Context()).ErrorContext(c.Request.Context(), "Request failed",
			append(requestAttrs(c), logging.FieldError, err)...)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Detail: internalErrorDetail})
	}
}

// requestAttrs describes the failed request: the operation, the route, the
// owner and whichever id, month and category it named.
func requestAttrs(c *gin.Context) []any {
	attrs := []any{
		logging.FieldOperation, operation(c),
		logging.FieldPath, c.FullPath(),
		logging.FieldUserID, owner(c),
	}
	if id := c.Param("id"); id != "" {
		attrs = append(attrs, idField(c.FullPath()), id)
	}
	if month := c.Query("month"); month != "" {
		attrs = append(attrs, logging.FieldMonth, month)
	}
	if category := c.Query("category"); category != "" {
		attrs = append(attrs, logging.FieldCategory, category)
	}
	return attrs
}

func operation(c *gin.Context) string {
	switch c.Request.Method {
	case http.MethodPost:
		if strings.HasPrefix(c.FullPath(), "/api/budgets") {
			return logging.OpUpsert
		}
		return logging.OpCreate
	case http.MethodPatch:
		return logging.OpUpdate
	case http.MethodDelete:
		return logging.OpDelete
	}
	if c.Param("id") != "" || strings.HasPrefix(c.FullPath(), "/api/dashboard") {
		return logging.OpRead
	}
	return logging.OpList
}

func idField(path string) string {
	if strings.HasPrefix(path, "/api/budgets") {
		return logging.FieldBudgetID
	}
	return logging.FieldExpenseID
}

func invalid(field, message string) error {
	return &budget.ValidationError{Field: field, Message: message}
}

// publish sends a change event. Delivery failures are logged and never
// reach the client.
func (s *Server) publish(c *gin.Context, eventType, entityID string, payload any) {
	ctx := c.Request.Context()
	logger := s.logger.WithComponent(logging.ComponentEvents)

	e, err := events.NewEvent(eventType, owner(c), entityID, payload, s.now())
	if err == nil {
		err = s.publisher.Publish(context.WithoutCancel(ctx), e)
	}
	if err != nil {
		idKey := logging.FieldExpenseID
		if strings.HasPrefix(eventType, "budget.") {
			idKey = logging.FieldBudgetID
		}
		logger.WarnContext(ctx, "Failed to publish event",
			logging.FieldOperation, logging.OpPublish,
			logging.FieldEvent, eventType,
			logging.FieldUserID, owner(c),
			idKey, entityID,
			logging.FieldError, err)
	}
}
