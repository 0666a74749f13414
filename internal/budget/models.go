package budget

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a single spend record owned by one user.
type Expense struct {
	ID          string
	UserID      string
	Amount      decimal.Decimal
	Category    Category
	Description *string
	Date        time.Time
	CreatedAt   time.Time
}

// Budget is the amount a user plans to spend on one category in one month.
// There is at most one per (UserID, Category, Month).
type Budget struct {
	ID        string
	UserID    string
	Category  Category
	Amount    decimal.Decimal
	Month     Month
	CreatedAt time.Time
}
