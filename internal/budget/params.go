package budget

import (
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// MaxDescriptionLength is the longest accepted expense description, in characters.
const MaxDescriptionLength = 500

// ExpenseParams holds the fields for creating an expense.
type ExpenseParams struct {
	Amount      decimal.Decimal
	Category    Category
	Description *string
	Date        time.Time
}

// Validate checks the params and rounds Amount to cents.
func (p *ExpenseParams) Validate() error {
	amount, err := normalizeAmount(p.Amount)
	if err != nil {
		return err
	}
	p.Amount = amount
	if !p.Category.Valid() {
		_, err := ParseCategory(string(p.Category))
		return err
	}
	if err := validateDescription(p.Description); err != nil {
		return err
	}
	if p.Date.IsZero() {
		return &ValidationError{Field: "date", Message: "date is required"}
	}
	p.Date = DateOf(p.Date)
	return checkYear(p.Date)
}

// ExpensePatch holds a partial expense update. Nil fields are left unchanged.
type ExpensePatch struct {
	Amount      *decimal.Decimal
	Category    *Category
	Description *string
	Date        *time.Time
}

func (p *ExpensePatch) Validate() error {
	if p.Amount != nil {
		amount, err := normalizeAmount(*p.Amount)
		if err != nil {
			return err
		}
		p.Amount = &amount
	}
	if p.Category != nil && !p.Category.Valid() {
		_, err := ParseCategory(string(*p.Category))
		return err
	}
	if err := validateDescription(p.Description); err != nil {
		return err
	}
	if p.Date != nil {
		d := DateOf(*p.Date)
		if err := checkYear(d); err != nil {
			return err
		}
		p.Date = &d
	}
	return nil
}

// Empty reports whether the patch changes nothing.
func (p ExpensePatch) Empty() bool {
	return p.Amount == nil && p.Category == nil && p.Description == nil && p.Date == nil
}

// Apply returns e with the patch applied.
func (p ExpensePatch) Apply(e Expense) Expense {
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Description != nil {
		e.Description = p.Description
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	return e
}

// BudgetParams holds the fields for creating or overwriting a budget.
type BudgetParams struct {
	Category Category
	Amount   decimal.Decimal
	Month    Month
}

func (p *BudgetParams) Validate() error {
	if !p.Category.Valid() {
		_, err := ParseCategory(string(p.Category))
		return err
	}
	amount, err := normalizeAmount(p.Amount)
	if err != nil {
		return err
	}
	p.Amount = amount
	if p.Month.IsZero() || p.Month.Month < time.January || p.Month.Month > time.December {
		return ErrInvalidMonth
	}
	return nil
}

// BudgetPatch holds a partial budget update.
type BudgetPatch struct {
	Amount *decimal.Decimal
}

func (p *BudgetPatch) Validate() error {
	if p.Amount == nil {
		return nil
	}
	amount, err := normalizeAmount(*p.Amount)
	if err != nil {
		return err
	}
	p.Amount = &amount
	return nil
}

// normalizeAmount rounds to cents and rejects anything that is not positive
// after rounding.
func normalizeAmount(d decimal.Decimal) (decimal.Decimal, error) {
	rounded := d.Round(2)
	if !rounded.IsPositive() {
		return decimal.Zero, &ValidationError{Field: "amount", Message: "amount must be greater than 0"}
	}
	return rounded, nil
}

func validateDescription(desc *string) error {
	if desc != nil && utf8.RuneCountInString(*desc) > MaxDescriptionLength {
		return &ValidationError{Field: "description", Message: "description must be at most 500 characters"}
	}
	return nil
}
