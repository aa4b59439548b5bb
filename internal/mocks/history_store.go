package mocks

import (
	"context"
	"sync"

	"github.com/paperiq/paperiq-api/internal/domain"
	"github.com/paperiq/paperiq-api/internal/store"
)

// MockHistoryStore implements store.HistoryStore with in-memory slices.
type MockHistoryStore struct {
	mu      sync.Mutex
	entries map[string][]domain.HistoryEntry

	// AppendFn allows test cases to override the Append behavior
	AppendFn func(ctx context.Context, username, text string, results domain.AnalysisResult) (int, error)

	// ListFn allows test cases to override the List behavior
	ListFn func(ctx context.Context, username string) ([]domain.HistoryEntry, error)

	// DeleteFn allows test cases to override the Delete behavior
	DeleteFn func(ctx context.Context, username string, position int) error
}

// NewMockHistoryStore creates an empty MockHistoryStore.
func NewMockHistoryStore() *MockHistoryStore {
	return &MockHistoryStore{
		entries: make(map[string][]domain.HistoryEntry),
	}
}

// Append implements the store.HistoryStore interface
func (m *MockHistoryStore) Append(
	ctx context.Context,
	username, text string,
	results domain.AnalysisResult,
) (int, error) {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, username, text, results)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, err := domain.NewHistoryEntry(text, results)
	if err != nil {
		return 0, err
	}
	m.entries[username] = append(m.entries[username], *entry)

	return len(m.entries[username]) - 1, nil
}

// List implements the store.HistoryStore interface
func (m *MockHistoryStore) List(
	ctx context.Context,
	username string,
) ([]domain.HistoryEntry, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, username)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entries := make([]domain.HistoryEntry, len(m.entries[username]))
	copy(entries, m.entries[username])

	return entries, nil
}

// Delete implements the store.HistoryStore interface
func (m *MockHistoryStore) Delete(ctx context.Context, username string, position int) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, username, position)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entries, exists := m.entries[username]
	if !exists || position < 0 || position >= len(entries) {
		return store.ErrEntryNotFound
	}
	m.entries[username] = append(entries[:position], entries[position+1:]...)

	return nil
}
