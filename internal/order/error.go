package order

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrProviderNotFound   = errors.New("provider not found")
	ErrMalformedReference = errors.New("invalid id format")
	ErrNotDelivered       = errors.New("you can only review delivered orders")
	ErrAlreadyReviewed    = errors.New("you have already reviewed this order")

	// ErrCodeConflict signals a collision on the generated order code.
	ErrCodeConflict = errors.New("order code already exists")

	// -- Constants (External Systems) --
	PgUniqueViolation = "23505"
)

// TransitionError reports an illegal status edge, carrying both the order's
// current status and the attempted one.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot change status from %s to %s", e.From, e.To)
}

// ValidationError lists the specific fields that failed local validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, ", ")
}
