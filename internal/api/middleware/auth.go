package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/paperiq/paperiq-api/internal/api/shared"
	"github.com/paperiq/paperiq-api/internal/service/auth"
)

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// Authenticate validates JWT tokens from the Authorization header and
// adds the username to the request context for authorized requests.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		token := parts[1]

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			switch err {
			case auth.ErrExpiredToken:
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			case auth.ErrInvalidToken, auth.ErrTokenNotYetValid:
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			default:
				slog.Error("failed to validate token", "error", err)
				shared.RespondWithError(
					w,
					r,
					http.StatusInternalServerError,
					"Authentication error",
				)
			}
			return
		}

		// Add username to context
		ctx := context.WithValue(r.Context(), shared.UsernameContextKey, claims.Username)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
