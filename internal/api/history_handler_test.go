package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperiq/paperiq-api/internal/domain"
	"github.com/paperiq/paperiq-api/internal/mocks"
)

// newHistoryRouter mounts the handler on a chi router so URL parameters
// resolve the same way they do in the real server.
func newHistoryRouter(handler *HistoryHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/api/history", handler.List)
	r.Delete("/api/history/{position}", handler.Delete)
	return r
}

func seedHistory(t *testing.T, history *mocks.MockHistoryStore, username string, texts ...string) {
	t.Helper()

	for _, text := range texts {
		_, err := history.Append(
			context.Background(),
			username,
			text,
			domain.AnalysisResult{"verdict": "ok"},
		)
		require.NoError(t, err)
	}
}

func TestHistoryList(t *testing.T) {
	t.Parallel()

	history := mocks.NewMockHistoryStore()
	seedHistory(t, history, "alice", "first text", "second text", "third text")
	seedHistory(t, history, "bob", "bob's text")

	router := newHistoryRouter(NewHistoryHandler(history))

	req := authenticatedRequest(t, "GET", "/api/history", "alice", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)

	var resp HistoryResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	require.Len(t, resp.Entries, 3)

	for i, entry := range resp.Entries {
		assert.Equal(t, i, entry.Position)
	}
	assert.Equal(t, "first text", resp.Entries[0].FullText)
	assert.Equal(t, "third text", resp.Entries[2].FullText)
}

func TestHistoryListEmpty(t *testing.T) {
	t.Parallel()

	router := newHistoryRouter(NewHistoryHandler(mocks.NewMockHistoryStore()))

	req := authenticatedRequest(t, "GET", "/api/history", "alice", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)

	var resp HistoryResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Empty(t, resp.Entries)
	assert.NotNil(t, resp.Entries)
}

func TestHistoryDelete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		position   string
		wantStatus int
		wantLeft   int
	}{
		{
			name:       "delete middle entry",
			position:   "1",
			wantStatus: http.StatusNoContent,
			wantLeft:   2,
		},
		{
			name:       "position out of range",
			position:   "5",
			wantStatus: http.StatusNotFound,
			wantLeft:   3,
		},
		{
			name:       "negative position",
			position:   "-1",
			wantStatus: http.StatusNotFound,
			wantLeft:   3,
		},
		{
			name:       "non-numeric position",
			position:   "abc",
			wantStatus: http.StatusBadRequest,
			wantLeft:   3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history := mocks.NewMockHistoryStore()
			seedHistory(t, history, "alice", "first", "second", "third")

			router := newHistoryRouter(NewHistoryHandler(history))

			target := fmt.Sprintf("/api/history/%s", tt.position)
			req := authenticatedRequest(t, "DELETE", target, "alice", nil)
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			entries, err := history.List(context.Background(), "alice")
			require.NoError(t, err)
			assert.Len(t, entries, tt.wantLeft)
		})
	}
}

// After deleting the middle entry, the former last entry occupies the freed
// position.
func TestHistoryDeleteClosesGap(t *testing.T) {
	t.Parallel()

	history := mocks.NewMockHistoryStore()
	seedHistory(t, history, "alice", "first", "second", "third")

	router := newHistoryRouter(NewHistoryHandler(history))

	req := authenticatedRequest(t, "DELETE", "/api/history/1", "alice", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusNoContent, recorder.Code)

	listReq := authenticatedRequest(t, "GET", "/api/history", "alice", nil)
	listRecorder := httptest.NewRecorder()
	router.ServeHTTP(listRecorder, listReq)
	require.Equal(t, http.StatusOK, listRecorder.Code)

	var resp HistoryResponse
	require.NoError(t, json.NewDecoder(listRecorder.Body).Decode(&resp))
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, "first", resp.Entries[0].FullText)
	assert.Equal(t, "third", resp.Entries[1].FullText)
	assert.Equal(t, 1, resp.Entries[1].Position)
}

func TestHistoryWithoutUsername(t *testing.T) {
	t.Parallel()

	router := newHistoryRouter(NewHistoryHandler(mocks.NewMockHistoryStore()))

	req := httptest.NewRequest("GET", "/api/history", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
