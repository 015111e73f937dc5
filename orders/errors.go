package orders

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: a referenced user, restaurant, menu item or order does not exist
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized: the actor's role or ownership does not permit the action
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidInput is raised before any store access
	ErrInvalidInput = errors.New("invalid input")
	// ErrTransactionFailure: the store could not commit. Retryable by the caller.
	ErrTransactionFailure = errors.New("transaction failure")
	// ErrConflict: a concurrent status update won the race
	ErrConflict = fmt.Errorf("%w: order status changed concurrently", ErrTransactionFailure)
)

// DeniedError carries the state machine's reason together with what the
// actor could have asked for instead
type DeniedError struct {
	Reason    string
	ValidNext []string
}

func (e *DeniedError) Error() string {
	return ErrUnauthorized.Error() + ": " + e.Reason
}

func (e *DeniedError) Unwrap() error { return ErrUnauthorized }
