// Package store provides abstractions for data persistence.
package store

import (
	"context"

	"github.com/paperiq/paperiq-api/internal/domain"
)

// AccountStore defines the interface for account persistence.
type AccountStore interface {
	// Register validates the supplied fields, hashes the password and saves
	// a new account. The validate-check-write sequence is atomic with
	// respect to concurrent Register calls.
	// Returns a validation error (wrapping domain.ErrValidation) if a field
	// fails a precondition.
	// Returns ErrUsernameExists if the username is already taken.
	// Returns ErrEmailExists if the email is already registered.
	Register(ctx context.Context, username, email, password string) (*domain.Account, error)

	// Authenticate checks the given credentials against the stored account.
	// Returns ErrUserNotFound if no such username exists.
	// Returns ErrInvalidCredentials if the password does not verify.
	// On success the returned account carries no plaintext password.
	Authenticate(ctx context.Context, username, password string) (*domain.Account, error)
}
