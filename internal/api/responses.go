package api

import (
	"time"

	"github.com/shopspring/decimal"

	"budget-tracker-backend/internal/budget"
)

const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// ExpenseResponse is the wire form of an expense.
type ExpenseResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description *string `json:"description"`
	Date        string  `json:"date"`
	CreatedAt   string  `json:"created_at"`
}

type ExpenseListResponse struct {
	Expenses    []ExpenseResponse `json:"expenses"`
	Total       int               `json:"total"`
	TotalAmount float64           `json:"total_amount"`
}

// BudgetResponse is a budget with its evaluation against the month's spend.
type BudgetResponse struct {
	ID             string  `json:"id"`
	UserID         string  `json:"user_id"`
	Category       string  `json:"category"`
	Amount         float64 `json:"amount"`
	Month          string  `json:"month"`
	CreatedAt      string  `json:"created_at"`
	Spent          float64 `json:"spent"`
	Remaining      float64 `json:"remaining"`
	PercentageUsed float64 `json:"percentage_used"`
	Status         string  `json:"status"`
}

type BudgetListResponse struct {
	Budgets     []BudgetResponse `json:"budgets"`
	TotalBudget float64          `json:"total_budget"`
	TotalSpent  float64          `json:"total_spent"`
}

type CategoryBreakdownResponse struct {
	Category   string   `json:"category"`
	Amount     float64  `json:"amount"`
	Percentage float64  `json:"percentage"`
	Budget     *float64 `json:"budget"`
	Status     string   `json:"status"`
}

type TrendPointResponse struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

type DashboardResponse struct {
	Month                string                      `json:"month"`
	TotalSpentThisMonth  float64                     `json:"total_spent_this_month"`
	TotalBudgetThisMonth float64                     `json:"total_budget_this_month"`
	RemainingBudget      float64                     `json:"remaining_budget"`
	BudgetStatus         string                      `json:"budget_status"`
	CategoryBreakdown    []CategoryBreakdownResponse `json:"category_breakdown"`
	RecentExpenses       []ExpenseResponse           `json:"recent_expenses"`
	SpendingTrend        []TrendPointResponse        `json:"spending_trend"`
}

// AlertResponse carries remaining for warnings and over_by for exceeded budgets.
type AlertResponse struct {
	Category   string   `json:"category"`
	Type       string   `json:"type"`
	Message    string   `json:"message"`
	Spent      float64  `json:"spent"`
	Budget     float64  `json:"budget"`
	Percentage float64  `json:"percentage"`
	Remaining  *float64 `json:"remaining,omitempty"`
	OverBy     *float64 `json:"over_by,omitempty"`
}

type AlertListResponse struct {
	Alerts []AlertResponse `json:"alerts"`
	Count  int             `json:"count"`
}

type UserResponse struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func money(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func optionalMoney(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func toExpense(e budget.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		UserID:      e.UserID,
		Amount:      money(e.Amount),
		Category:    e.Category.String(),
		Description: e.Description,
		Date:        e.Date.Format(budget.DateLayout),
		CreatedAt:   formatTime(e.CreatedAt),
	}
}

func toExpenses(expenses []budget.Expense) []ExpenseResponse {
	out := make([]ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpense(e))
	}
	return out
}

func toBudget(v budget.BudgetView) BudgetResponse {
	return BudgetResponse{
		ID:             v.ID,
		UserID:         v.UserID,
		Category:       v.Category.String(),
		Amount:         money(v.Amount),
		Month:          v.Month.String(),
		CreatedAt:      formatTime(v.CreatedAt),
		Spent:          money(v.Spent),
		Remaining:      money(v.Remaining),
		PercentageUsed: money(v.PercentageUsed),
		Status:         string(v.Status),
	}
}

func toBudgetList(s budget.BudgetSummary) BudgetListResponse {
	out := BudgetListResponse{
		Budgets:     make([]BudgetResponse, 0, len(s.Budgets)),
		TotalBudget: money(s.TotalBudget),
		TotalSpent:  money(s.TotalSpent),
	}
	for _, v := range s.Budgets {
		out.Budgets = append(out.Budgets, toBudget(v))
	}
	return out
}

func toDashboard(d budget.DashboardSummary) DashboardResponse {
	out := DashboardResponse{
		Month:                d.Month.String(),
		TotalSpentThisMonth:  money(d.TotalSpent),
		TotalBudgetThisMonth: money(d.TotalBudget),
		RemainingBudget:      money(d.RemainingBudget),
		BudgetStatus:         string(d.Status),
		CategoryBreakdown:    make([]CategoryBreakdownResponse, 0, len(d.Breakdown)),
		RecentExpenses:       toExpenses(d.Recent),
		SpendingTrend:        make([]TrendPointResponse, 0, len(d.Trend)),
	}
	for _, b := range d.Breakdown {
		out.CategoryBreakdown = append(out.CategoryBreakdown, CategoryBreakdownResponse{
			Category:   b.Category.String(),
			Amount:     money(b.Amount),
			Percentage: money(b.Percentage),
			Budget:     optionalMoney(b.Budget),
			Status:     string(b.Status),
		})
	}
	for _, p := range d.Trend {
		out.SpendingTrend = append(out.SpendingTrend, TrendPointResponse{
			Date:   p.Date.Format(budget.DateLayout),
			Amount: money(p.Amount),
		})
	}
	return out
}

func toAlerts(alerts []budget.Alert) AlertListResponse {
	out := AlertListResponse{Alerts: make([]AlertResponse, 0, len(alerts)), Count: len(alerts)}
	for _, a := range alerts {
		out.Alerts = append(out.Alerts, AlertResponse{
			Category:   a.Category.String(),
			Type:       string(a.Type),
			Message:    a.Message,
			Spent:      money(a.Spent),
			Budget:     money(a.Budget),
			Percentage: money(a.Percentage),
			Remaining:  optionalMoney(a.Remaining),
			OverBy:     optionalMoney(a.OverBy),
		})
	}
	return out
}
