package store

import "fmt"

// Validation failure reasons. These are stable identifiers; the UI layers
// map them to user-facing messages.
const (
	ReasonEmptyCompany  = "empty company"
	ReasonInvalidLink   = "invalid link"
	ReasonDuplicateLink = "duplicate link"
	ReasonInvalidDate   = "invalid date"
)

// ValidationError reports a recoverable per-field rejection. The store is
// guaranteed unchanged when one is returned.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

func errValidation(reason string) error {
	return &ValidationError{Reason: reason}
}
