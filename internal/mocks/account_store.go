package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/paperiq/paperiq-api/internal/domain"
	"github.com/paperiq/paperiq-api/internal/store"
)

// MockAccountStore implements store.AccountStore with an in-memory map.
// Passwords are kept in plaintext; this mock exists to exercise handler
// logic, not hashing.
type MockAccountStore struct {
	mu       sync.Mutex
	accounts map[string]*mockAccount

	// RegisterFn allows test cases to override the Register behavior
	RegisterFn func(ctx context.Context, username, email, password string) (*domain.Account, error)

	// AuthenticateFn allows test cases to override the Authenticate behavior
	AuthenticateFn func(ctx context.Context, username, password string) (*domain.Account, error)
}

type mockAccount struct {
	account  *domain.Account
	password string
}

// NewMockAccountStore creates an empty MockAccountStore.
func NewMockAccountStore() *MockAccountStore {
	return &MockAccountStore{
		accounts: make(map[string]*mockAccount),
	}
}

// Register implements the store.AccountStore interface
func (m *MockAccountStore) Register(
	ctx context.Context,
	username, email, password string,
) (*domain.Account, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, username, email, password)
	}

	_, err := domain.NewAccount(username, email, password)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.accounts[username]; exists {
		return nil, store.ErrUsernameExists
	}
	for _, existing := range m.accounts {
		if existing.account.Email == email {
			return nil, store.ErrEmailExists
		}
	}

	stored := &domain.Account{
		Username:     username,
		Email:        email,
		PasswordHash: "mock-hash",
		CreatedAt:    time.Now().UTC(),
	}
	m.accounts[username] = &mockAccount{account: stored, password: password}

	return stored, nil
}

// Authenticate implements the store.AccountStore interface
func (m *MockAccountStore) Authenticate(
	ctx context.Context,
	username, password string,
) (*domain.Account, error) {
	if m.AuthenticateFn != nil {
		return m.AuthenticateFn(ctx, username, password)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.accounts[username]
	if !exists {
		return nil, store.ErrUserNotFound
	}
	if entry.password != password {
		return nil, store.ErrInvalidCredentials
	}

	return entry.account, nil
}
