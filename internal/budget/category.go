package budget

import "fmt"

// Category is one of the fixed expense categories.
type Category string

const (
	Food          Category = "Food"
	Transport     Category = "Transport"
	Entertainment Category = "Entertainment"
	Bills         Category = "Bills"
	Shopping      Category = "Shopping"
	Health        Category = "Health"
	Education     Category = "Education"
	Other         Category = "Other"
)

// categories is kept in declaration order; breakdown ties are resolved by it.
var categories = []Category{Food, Transport, Entertainment, Bills, Shopping, Health, Education, Other}

// Categories returns every category in declaration order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory returns the category named exactly s.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", &ValidationError{Field: "category", Message: fmt.Sprintf("category must be one of %v", categories)}
	}
	return c, nil
}

func (c Category) Valid() bool {
	return c.rank() >= 0
}

func (c Category) rank() int {
	for i, known := range categories {
		if c == known {
			return i
		}
	}
	return -1
}

func (c Category) String() string {
	return string(c)
}
