package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. This is the generic version of the entity-specific not found
	// errors (ErrUserNotFound, ErrEntryNotFound).
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., an account with the same username).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidCredentials is returned by Authenticate when the password
	// does not verify against the stored hash. It is deliberately distinct
	// from ErrUserNotFound internally; the API layer presents both
	// identically to avoid username enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Entity-specific "not found" errors

	// ErrUserNotFound indicates that the requested account does not exist.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrEntryNotFound indicates that a history entry lookup referenced a
	// missing user or an out-of-range position.
	ErrEntryNotFound = fmt.Errorf("%w: history entry", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrUsernameExists indicates that an account with the given username
	// already exists.
	ErrUsernameExists = fmt.Errorf("%w: username", ErrDuplicate)

	// ErrEmailExists indicates that an account with the given email already
	// exists.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "account", "history entry")
	Operation string // The operation that failed (e.g., "register", "append")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
