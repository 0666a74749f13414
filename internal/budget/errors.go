package budget

import "errors"

// ValidationError reports input that was rejected before reaching storage.
// Message is safe to return to the caller verbatim.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ErrInvalidMonth is returned for month tokens that are not YYYY-MM.
var ErrInvalidMonth = &ValidationError{Field: "month", Message: "month must be in YYYY-MM format"}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
