package auth

import (
	"context"
	"time"
)

// JWTService defines operations for managing JWT authentication tokens.
// Tokens are issued by the API layer after a successful authenticate; the
// core stores never see them.
type JWTService interface {
	// GenerateToken creates a signed JWT access token for the given username.
	// Returns the token string or an error if token generation fails.
	GenerateToken(ctx context.Context, username string) (string, error)

	// ValidateToken validates the provided token string and extracts the claims.
	// Returns the claims containing the username if the token is valid,
	// or an error if validation fails (expired, invalid signature, etc.).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the custom claims structure for the JWT tokens.
// It extends standard JWT registered claims with application-specific fields.
type Claims struct {
	// Username is the account the token was issued for.
	Username string `json:"username,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
