package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/paperiq/paperiq-api/internal/api/shared"
	"github.com/paperiq/paperiq-api/internal/store"
)

// HistoryHandler handles analysis-history HTTP requests.
type HistoryHandler struct {
	history store.HistoryStore
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(history store.HistoryStore) *HistoryHandler {
	return &HistoryHandler{
		history: history,
	}
}

// List handles GET /api/history requests.
// Entries come back in insertion order, oldest first; newest-first display
// is the client's concern.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	username, ok := shared.GetUsername(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Username not found in request context")
		return
	}

	entries, err := h.history.List(r.Context(), username)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load history")
		return
	}

	response := HistoryResponse{Entries: make([]HistoryEntryResponse, 0, len(entries))}
	for i, entry := range entries {
		response.Entries = append(response.Entries, HistoryEntryResponse{
			Position:    i,
			Timestamp:   entry.Timestamp,
			TextPreview: entry.TextPreview,
			FullText:    entry.FullText,
			Results:     entry.Results,
		})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// Delete handles DELETE /api/history/{position} requests.
func (h *HistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username, ok := shared.GetUsername(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Username not found in request context")
		return
	}

	positionParam := chi.URLParam(r, "position")
	position, err := strconv.Atoi(positionParam)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Position must be an integer")
		return
	}

	if err := h.history.Delete(r.Context(), username, position); err != nil {
		HandleAPIError(w, r, err, "Failed to delete history entry")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
