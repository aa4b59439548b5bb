package filedoc

import (
	"context"

	"github.com/paperiq/paperiq-api/internal/domain"
	"github.com/paperiq/paperiq-api/internal/store"
)

// historyDocument is the named document holding every user's analysis
// history, keyed by username with an ordered entry sequence as the value.
const historyDocument = "history"

// HistoryStore implements the store.HistoryStore interface using a JSON
// document on disk as the storage backend.
type HistoryStore struct {
	docs *Store
}

// NewHistoryStore creates a file-backed implementation of the HistoryStore
// interface.
func NewHistoryStore(docs *Store) *HistoryStore {
	return &HistoryStore{
		docs: docs,
	}
}

// Ensure HistoryStore implements store.HistoryStore interface
var _ store.HistoryStore = (*HistoryStore)(nil)

// Append implements store.HistoryStore.Append.
func (s *HistoryStore) Append(
	ctx context.Context,
	username, text string,
	results domain.AnalysisResult,
) (int, error) {
	if username == "" {
		return 0, domain.ErrEmptyUsername
	}

	entry, err := domain.NewHistoryEntry(text, results)
	if err != nil {
		return 0, err
	}

	var position int
	err = s.docs.Update(ctx, historyDocument, func(doc Document) error {
		var entries []domain.HistoryEntry
		if _, err := doc.Get(username, &entries); err != nil {
			return err
		}

		entries = append(entries, *entry)
		position = len(entries) - 1
		return doc.Set(username, entries)
	})
	if err != nil {
		return 0, mapStoreError("history entry", "append", err)
	}

	return position, nil
}

// List implements store.HistoryStore.List.
func (s *HistoryStore) List(ctx context.Context, username string) ([]domain.HistoryEntry, error) {
	doc, err := s.docs.Load(historyDocument)
	if err != nil {
		return nil, mapStoreError("history entry", "list", err)
	}

	entries := []domain.HistoryEntry{}
	if _, err := doc.Get(username, &entries); err != nil {
		return nil, mapStoreError("history entry", "list", err)
	}
	return entries, nil
}

// Delete implements store.HistoryStore.Delete.
// The bounds check and the rewrite run under the document lock, so a
// concurrent delete cannot make the position check stale. A failed check
// leaves the document untouched.
func (s *HistoryStore) Delete(ctx context.Context, username string, position int) error {
	err := s.docs.Update(ctx, historyDocument, func(doc Document) error {
		var entries []domain.HistoryEntry
		ok, err := doc.Get(username, &entries)
		if err != nil {
			return err
		}
		if !ok || position < 0 || position >= len(entries) {
			return store.ErrEntryNotFound
		}

		entries = append(entries[:position], entries[position+1:]...)
		return doc.Set(username, entries)
	})
	return mapStoreError("history entry", "delete", err)
}
