package transaction

import (
	"errors"
	"fmt"
)

// ErrNotFound is reserved for lookups by id, which the append-only ledger does not offer yet.
var ErrNotFound = errors.New("transaction not found")

// ValidationError reports the violated constraint of a rejected operation.
// Nothing is applied when an operation fails with a ValidationError.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Reason
	}
	return fmt.Sprintf("validation error: %s %s", e.Field, e.Reason)
}

// IsValidation reports whether err wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
