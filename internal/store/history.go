package store

import (
	"context"

	"github.com/paperiq/paperiq-api/internal/domain"
)

// HistoryStore defines the interface for analysis-history persistence.
type HistoryStore interface {
	// Append records an analysis result for the given user, creating the
	// user's sequence if absent, and returns the entry's assigned position.
	Append(ctx context.Context, username, text string, results domain.AnalysisResult) (int, error)

	// List returns the user's history entries in insertion order, oldest
	// first. A user with no history yields an empty slice, not an error.
	List(ctx context.Context, username string) ([]domain.HistoryEntry, error)

	// Delete removes the entry at the given zero-based position in the
	// user's current sequence; later entries shift down by one.
	// Returns ErrEntryNotFound if the user is absent or the position is out
	// of bounds, leaving the sequence unchanged.
	Delete(ctx context.Context, username string, position int) error
}
