package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/paperiq/paperiq-api/internal/api/shared"
	"github.com/paperiq/paperiq-api/internal/service"
)

// AnalysisHandler handles text analysis HTTP requests.
type AnalysisHandler struct {
	analysisService service.AnalysisService
	validator       *validator.Validate
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(analysisService service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
		validator:       validator.New(),
	}
}

// Analyze handles POST /api/analyze requests.
// The text is scored by the external engine and the result recorded in the
// authenticated user's history.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	username, ok := shared.GetUsername(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Username not found in request context")
		return
	}

	var req AnalyzeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	results, position, err := h.analysisService.AnalyzeAndRecord(r.Context(), username, req.Text)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to analyze text")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AnalyzeResponse{
		Position: position,
		Results:  results,
	})
}
