// Package api implements the HTTP handlers exposed by the server.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/paperiq/paperiq-api/internal/api/shared"
	"github.com/paperiq/paperiq-api/internal/service/auth"
	"github.com/paperiq/paperiq-api/internal/store"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	accounts   store.AccountStore
	jwtService auth.JWTService
	validator  *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(accounts store.AccountStore, jwtService auth.JWTService) *AuthHandler {
	return &AuthHandler{
		accounts:   accounts,
		jwtService: jwtService,
		validator:  validator.New(),
	}
}

// Register handles the /api/auth/register endpoint.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	// The store revalidates and runs the duplicate checks atomically.
	account, err := h.accounts.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to register account")
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), account.Username)
	if err != nil {
		slog.Error("failed to generate token", "error", err, "username", account.Username)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		Username: account.Username,
		Token:    token,
	})
}

// Login handles the /api/auth/login endpoint.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	account, err := h.accounts.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		// ErrUserNotFound and ErrInvalidCredentials both map to the same
		// 401 response here; see the error mapper.
		HandleAPIError(w, r, err, "Failed to authenticate")
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), account.Username)
	if err != nil {
		slog.Error("failed to generate token", "error", err, "username", account.Username)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		Username: account.Username,
		Token:    token,
	})
}
