package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/punishcards-api/internal/domain"
)

// Common service errors. Callers check them with errors.Is; the API layer
// maps them to HTTP status codes.
var (
	// ErrNotOwned indicates a card is owned by a different user than the one
	// making the request. It wraps domain.ErrForbidden.
	ErrNotOwned = fmt.Errorf("%w: card is owned by another user", domain.ErrForbidden)

	// ErrConflict indicates a write could not be applied: a unique field is
	// already taken or concurrent updates kept winning the race.
	ErrConflict = errors.New("conflicting update")

	// ErrUsernameTaken and ErrEmailTaken report signup collisions.
	ErrUsernameTaken = fmt.Errorf("%w: username already taken", ErrConflict)
	ErrEmailTaken    = fmt.Errorf("%w: email already registered", ErrConflict)
)

// CardServiceError is a custom error type for card service errors.
type CardServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for CardServiceError.
func (e *CardServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("card service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("card service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *CardServiceError) Unwrap() error {
	return e.Err
}

// NewCardServiceError creates a new CardServiceError.
func NewCardServiceError(operation, message string, err error) *CardServiceError {
	return &CardServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
