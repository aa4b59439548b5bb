// Package auth provides credential hashing and token services.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used when no explicit cost is
// configured. Cost 12 keeps offline brute force expensive at interactive
// login latency.
const DefaultBcryptCost = 12

// PasswordHasher defines the interface for hashing plaintext passwords.
type PasswordHasher interface {
	// Hash produces a digest embedding a fresh random salt and the
	// configured cost. The digest differs on every call for the same
	// password; only verification is deterministic.
	Hash(password string) (string, error)
}

// PasswordVerifier defines the interface for comparing passwords.
type PasswordVerifier interface {
	// Compare compares a hashed password with its possible plaintext equivalent.
	// Returns nil on success, or an error on failure (mismatch or a
	// malformed digest; both fail closed).
	Compare(hashedPassword, password string) error
}

// BcryptHasher implements PasswordHasher using bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a new BcryptHasher with the given cost.
// A cost outside bcrypt's supported range falls back to DefaultBcryptCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash implements the PasswordHasher interface using bcrypt.
func (h *BcryptHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// BcryptVerifier implements PasswordVerifier using bcrypt.
type BcryptVerifier struct{}

// NewBcryptVerifier creates a new BcryptVerifier.
func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{}
}

// Compare implements the PasswordVerifier interface using bcrypt.
func (v *BcryptVerifier) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
