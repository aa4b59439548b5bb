package filedoc

import (
	"context"
	"errors"

	"github.com/paperiq/paperiq-api/internal/domain"
	"github.com/paperiq/paperiq-api/internal/service/auth"
	"github.com/paperiq/paperiq-api/internal/store"
)

// usersDocument is the named document holding all account records, keyed by
// username.
const usersDocument = "users"

// AccountStore implements the store.AccountStore interface using a JSON
// document on disk as the storage backend.
type AccountStore struct {
	docs     *Store
	hasher   auth.PasswordHasher
	verifier auth.PasswordVerifier
}

// NewAccountStore creates a file-backed implementation of the AccountStore
// interface. The document store handles durability and locking; the hasher
// and verifier handle credentials.
func NewAccountStore(docs *Store, hasher auth.PasswordHasher, verifier auth.PasswordVerifier) *AccountStore {
	return &AccountStore{
		docs:     docs,
		hasher:   hasher,
		verifier: verifier,
	}
}

// Ensure AccountStore implements store.AccountStore interface
var _ store.AccountStore = (*AccountStore)(nil)

// Register implements store.AccountStore.Register.
// Validation and hashing run before the lock is taken; hashing is the
// expensive part and must not serialize unrelated registrations. The
// duplicate checks and the write run as one locked read-modify-write cycle,
// so two concurrent registrations of the same username or email cannot both
// succeed.
func (s *AccountStore) Register(
	ctx context.Context,
	username, email, password string,
) (*domain.Account, error) {
	account, err := domain.NewAccount(username, email, password)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(account.Password)
	if err != nil {
		return nil, store.NewStoreError("account", "register", "failed to hash password", err)
	}
	account.PasswordHash = hash
	account.Password = ""

	err = s.docs.Update(ctx, usersDocument, func(doc Document) error {
		if doc.Has(username) {
			return store.ErrUsernameExists
		}

		// Email uniqueness is checked case-sensitively; see the design
		// notes for why this is a recorded product decision.
		for existing := range doc {
			var rec domain.Account
			if _, err := doc.Get(existing, &rec); err != nil {
				return err
			}
			if rec.Email == email {
				return store.ErrEmailExists
			}
		}

		return doc.Set(username, account)
	})
	if err != nil {
		return nil, mapStoreError("account", "register", err)
	}

	return account, nil
}

// Authenticate implements store.AccountStore.Authenticate.
// Reads need no lock: Save replaces the document atomically, so a plain load
// always observes a fully committed state.
func (s *AccountStore) Authenticate(
	ctx context.Context,
	username, password string,
) (*domain.Account, error) {
	doc, err := s.docs.Load(usersDocument)
	if err != nil {
		return nil, mapStoreError("account", "authenticate", err)
	}

	var account domain.Account
	ok, err := doc.Get(username, &account)
	if err != nil {
		return nil, mapStoreError("account", "authenticate", err)
	}
	if !ok {
		return nil, store.ErrUserNotFound
	}
	account.Username = username

	if err := s.verifier.Compare(account.PasswordHash, password); err != nil {
		return nil, store.ErrInvalidCredentials
	}

	return &account, nil
}

// mapStoreError passes through the sentinel errors callers match on and
// wraps everything else (disk failures, corrupt documents) in a StoreError
// so no raw I/O detail leaks past the store boundary unlabelled.
func mapStoreError(entity, operation string, err error) error {
	if err == nil {
		return nil
	}
	if store.IsNotFoundError(err) ||
		store.IsDuplicateError(err) ||
		errors.Is(err, store.ErrInvalidCredentials) ||
		errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, ErrLockTimeout) {
		return err
	}
	return store.NewStoreError(entity, operation, "persistence failure", err)
}
