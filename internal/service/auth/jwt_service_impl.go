package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/paperiq/paperiq-api/internal/config"
	"github.com/paperiq/paperiq-api/internal/platform/logger"
)

// hmacJWTService is an implementation of JWTService using HMAC-SHA signing.
type hmacJWTService struct {
	signingKey    []byte
	tokenLifetime time.Duration
	timeFunc      func() time.Time // Injectable for testing
	clockSkew     time.Duration    // Allowed time difference for validation to handle clock drift
}

// jwtCustomClaims defines the structure of JWT claims we use
type jwtCustomClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Ensure hmacJWTService implements JWTService interface
var _ JWTService = (*hmacJWTService)(nil)

// NewJWTService creates a new JWT service using HMAC-SHA signing.
func NewJWTService(cfg config.AuthConfig) (JWTService, error) {
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 characters")
	}

	return &hmacJWTService{
		signingKey:    []byte(cfg.JWTSecret),
		tokenLifetime: time.Duration(cfg.TokenLifetimeMinutes) * time.Minute,
		timeFunc:      time.Now,
		clockSkew:     2 * time.Minute, // Tolerate minor drift between issuer and validator
	}, nil
}

// GenerateToken creates a signed JWT access token with the username claim.
func (s *hmacJWTService) GenerateToken(ctx context.Context, username string) (string, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	claims := jwtCustomClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenLifetime)),
			ID:        uuid.New().String(), // Unique token ID
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.signingKey)
	if err != nil {
		log.Error("failed to sign JWT token",
			"error", err,
			"username", username,
			"signing_method", jwt.SigningMethodHS256.Name)
		return "", fmt.Errorf("failed to sign token with HMAC-SHA256: %w", err)
	}

	return signedToken, nil
}

// ValidateToken validates a JWT access token and returns the claims if valid.
func (s *hmacJWTService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(s.clockSkew),
		jwt.WithTimeFunc(func() time.Time {
			return now // Use the injected time function for validation
		}),
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwtCustomClaims{},
		func(token *jwt.Token) (interface{}, error) {
			// Validate the signing method is what we expect
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		parserOpts...)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			log.Debug("token validation failed: token expired", "error", err)
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			log.Debug("token validation failed: token not yet valid", "error", err)
			return nil, ErrTokenNotYetValid
		case errors.Is(err, jwt.ErrTokenMalformed):
			log.Debug("token validation failed: malformed token", "error", err)
			return nil, ErrInvalidToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			log.Debug("token validation failed: invalid signature", "error", err)
			return nil, ErrInvalidToken
		default:
			log.Debug("token validation failed: other validation error",
				"error", err,
				"error_type", fmt.Sprintf("%T", err))
		}

		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*jwtCustomClaims); ok && token.Valid {
		if claims.Username == "" {
			log.Debug("token validation failed: missing username claim")
			return nil, ErrInvalidToken
		}

		customClaims := &Claims{
			Username:  claims.Username,
			Subject:   claims.Subject,
			IssuedAt:  claims.IssuedAt.Time,
			ExpiresAt: claims.ExpiresAt.Time,
			ID:        claims.ID,
		}

		log.Debug("token validated successfully",
			"username", claims.Username,
			"token_id", claims.ID,
			"expiry", claims.ExpiresAt.Time)

		return customClaims, nil
	}

	log.Debug("token validation failed: invalid claims")
	return nil, ErrInvalidToken
}
