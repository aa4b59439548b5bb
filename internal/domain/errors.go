// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// Field-specific validation errors wrap this, so callers can match
	// the whole class with errors.Is(err, ErrValidation).
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)
