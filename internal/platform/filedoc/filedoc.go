// Package filedoc implements the durable document store backing the account
// and history stores. Each named document is a single JSON file holding a
// string-keyed mapping. Writes go through a temp-file-and-rename cycle so a
// reader never observes a half-written document, and mutations run under an
// exclusive advisory file lock so concurrent processes never lose updates.
package filedoc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const (
	// DefaultLockTimeout bounds how long WithLock waits for a document lock
	// before giving up with ErrLockTimeout.
	DefaultLockTimeout = 5 * time.Second

	// lockRetryDelay is the poll interval while waiting for a held lock.
	lockRetryDelay = 10 * time.Millisecond
)

// ErrLockTimeout is returned when a document lock could not be acquired
// within the bounded wait. The caller may retry the whole operation.
var ErrLockTimeout = errors.New("timed out waiting for document lock")

// Document is an untyped key-value structure as persisted on disk.
// Values stay as raw JSON until a caller decodes them with Get.
type Document map[string]json.RawMessage

// Has reports whether the document contains the given key.
func (d Document) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// Get decodes the value stored under key into v.
// Returns false if the key is absent, or an error if decoding fails.
func (d Document) Get(key string, v any) (bool, error) {
	raw, ok := d[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, fmt.Errorf("failed to decode document value %q: %w", key, err)
	}
	return true, nil
}

// Set encodes v and stores it under key.
func (d Document) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode document value %q: %w", key, err)
	}
	d[key] = raw
	return nil
}

// Delete removes the value stored under key, if any.
func (d Document) Delete(key string) {
	delete(d, key)
}

// Store manages named JSON documents in a single directory. The on-disk file
// is the only source of truth; Store keeps no in-memory copy between calls,
// so multiple processes sharing the directory stay consistent.
type Store struct {
	dir         string
	lockTimeout time.Duration
}

// New creates a Store rooted at dir, creating the directory if needed.
// A non-positive lockTimeout falls back to DefaultLockTimeout.
func New(dir string, lockTimeout time.Duration) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create document directory %q: %w", dir, err)
	}

	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}

	return &Store{
		dir:         dir,
		lockTimeout: lockTimeout,
	}, nil
}

// path returns the data file for the named document.
func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// lockPath returns the lock file for the named document. The lock is a
// separate file because Save replaces the data file's inode on every write.
func (s *Store) lockPath(name string) string {
	return filepath.Join(s.dir, name+".lock")
}

// Load reads the named document from disk. A document that does not exist
// yet loads as an empty Document, never as an error; that is the first-use
// case for a fresh data directory.
func (s *Store) Load(name string) (Document, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Document{}, nil
		}
		return nil, fmt.Errorf("failed to read document %q: %w", name, err)
	}

	doc := Document{}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("document %q is corrupt: %w", name, err)
	}
	return doc, nil
}

// Save writes the document to disk atomically: the content goes to a temp
// file in the same directory, is synced, and is then renamed over the old
// file. Rename on the same volume is atomic, so a crash mid-write leaves the
// previous version intact and a concurrent Load sees either the old or the
// new document, never a mix.
func (s *Store) Save(name string, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document %q: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for document %q: %w", name, err)
	}
	tmpName := tmp.Name()

	// On any failure below, the temp file is removed so partial writes
	// never accumulate in the data directory.
	cleanup := func(opErr error) error {
		if closeErr := tmp.Close(); closeErr != nil && !errors.Is(closeErr, os.ErrClosed) {
			slog.Warn("failed to close temp document file", "file", tmpName, "error", closeErr)
		}
		if rmErr := os.Remove(tmpName); rmErr != nil {
			slog.Warn("failed to remove temp document file", "file", tmpName, "error", rmErr)
		}
		return opErr
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(fmt.Errorf("failed to write document %q: %w", name, err))
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(fmt.Errorf("failed to sync document %q: %w", name, err))
	}
	if err := tmp.Close(); err != nil {
		return cleanup(fmt.Errorf("failed to close document %q: %w", name, err))
	}

	if err := os.Rename(tmpName, s.path(name)); err != nil {
		return cleanup(fmt.Errorf("failed to replace document %q: %w", name, err))
	}
	return nil
}

// WithLock executes fn while holding the exclusive lock for the named
// document. The lock is advisory and file-based, so it also excludes other
// processes sharing the data directory. Acquisition waits at most the
// store's lock timeout (or less if ctx expires first) and then fails with
// ErrLockTimeout instead of deadlocking. The lock is released on every exit
// path, including when fn fails.
func (s *Store) WithLock(ctx context.Context, name string, fn func() error) error {
	fileLock := flock.New(s.lockPath(name))

	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	locked, err := fileLock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: document %q", ErrLockTimeout, name)
		}
		return fmt.Errorf("failed to acquire lock for document %q: %w", name, err)
	}
	if !locked {
		return fmt.Errorf("%w: document %q", ErrLockTimeout, name)
	}

	defer func() {
		if unlockErr := fileLock.Unlock(); unlockErr != nil {
			slog.Error("failed to release document lock",
				"document", name,
				"error", unlockErr)
		}
	}()

	return fn()
}

// Update runs a read-modify-write cycle on the named document under its
// lock: load, apply fn to the in-memory document, save. If fn returns an
// error the document is not written back, so a failed operation leaves the
// durable state unchanged.
func (s *Store) Update(ctx context.Context, name string, fn func(Document) error) error {
	return s.WithLock(ctx, name, func() error {
		doc, err := s.Load(name)
		if err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
		return s.Save(name, doc)
	})
}
