package api

import (
	"time"

	"github.com/paperiq/paperiq-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// Username identifies the authenticated account
	Username string `json:"username"`

	// Token is the JWT bearer token used for API authorization
	Token string `json:"token"`
}

// AnalyzeRequest defines the payload for the text analysis endpoint.
type AnalyzeRequest struct {
	Text string `json:"text" validate:"required,min=1"`
}

// AnalyzeResponse defines the successful response for the analysis endpoint.
type AnalyzeResponse struct {
	// Position is the entry's assigned position in the caller's history
	Position int `json:"position"`

	// Results is the engine's scoring payload, relayed verbatim
	Results domain.AnalysisResult `json:"results"`
}

// HistoryEntryResponse represents one history entry together with its
// current position. Positions shift on deletion, so they are computed per
// response, never stored.
type HistoryEntryResponse struct {
	Position    int                   `json:"position"`
	Timestamp   time.Time             `json:"timestamp"`
	TextPreview string                `json:"text_preview"`
	FullText    string                `json:"full_text"`
	Results     domain.AnalysisResult `json:"results"`
}

// HistoryResponse defines the response for the history listing endpoint.
type HistoryResponse struct {
	Entries []HistoryEntryResponse `json:"entries"`
}
