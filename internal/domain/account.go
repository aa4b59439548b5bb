package domain

import (
	"fmt"
	"time"
)

// Account field requirements enforced at registration.
const (
	MinUsernameLength = 3
	MinPasswordLength = 6
)

// Validation errors for Account. Each wraps ErrValidation and names the rule
// that failed, so callers can surface a precise message to the user.
var (
	ErrEmptyUsername     = fmt.Errorf("%w: username cannot be empty", ErrValidation)
	ErrUsernameTooShort  = fmt.Errorf("%w: username must be at least %d characters", ErrValidation, MinUsernameLength)
	ErrEmptyEmail        = fmt.Errorf("%w: email cannot be empty", ErrValidation)
	ErrEmptyPassword     = fmt.Errorf("%w: password cannot be empty", ErrValidation)
	ErrPasswordTooShort  = fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
	ErrEmptyPasswordHash = fmt.Errorf("%w: password hash cannot be empty", ErrValidation)
)

// Account represents a registered user of the application.
// The username is the unique identifier and is immutable once created, as is
// the account itself: no update or delete operation exists for accounts.
type Account struct {
	Username string `json:"-"` // Map key in the accounts document, not a field
	Email    string `json:"email"`

	// Password holds the plaintext password only transiently during
	// registration; it is never persisted or serialized.
	Password string `json:"-"`

	// PasswordHash is the bcrypt digest with embedded salt and cost.
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewAccount creates a new Account with the given username, email and
// plaintext password, setting the creation timestamp. The caller is
// responsible for hashing the password before the account is stored.
// Returns an error if validation fails.
func NewAccount(username, email, password string) (*Account, error) {
	account := &Account{
		Username:  username,
		Email:     email,
		Password:  password, // Plaintext, must be hashed before storage
		CreatedAt: time.Now().UTC(),
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	return account, nil
}

// Validate checks if the Account has valid data.
// Returns an error if any field fails validation.
func (a *Account) Validate() error {
	if a.Username == "" {
		return ErrEmptyUsername
	}

	if len(a.Username) < MinUsernameLength {
		return ErrUsernameTooShort
	}

	if a.Email == "" {
		return ErrEmptyEmail
	}

	if a.Password != "" {
		// During registration the plaintext password is present and its
		// length is checked before hashing.
		if len(a.Password) < MinPasswordLength {
			return ErrPasswordTooShort
		}
	} else {
		// Accounts loaded from storage carry only the hash.
		if a.PasswordHash == "" {
			return ErrEmptyPassword
		}
	}

	return nil
}
