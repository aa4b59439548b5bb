package filedoc

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	docs, err := New(t.TempDir(), time.Second)
	require.NoError(t, err)
	return docs
}

func TestStoreLoad(t *testing.T) {
	t.Parallel()

	t.Run("missing document loads as empty", func(t *testing.T) {
		t.Parallel()
		docs := newTestStore(t)

		doc, err := docs.Load("users")
		require.NoError(t, err)
		assert.Empty(t, doc)
	})

	t.Run("round trips saved values", func(t *testing.T) {
		t.Parallel()
		docs := newTestStore(t)

		doc := Document{}
		require.NoError(t, doc.Set("alice", map[string]string{"email": "a@x.com"}))
		require.NoError(t, docs.Save("users", doc))

		loaded, err := docs.Load("users")
		require.NoError(t, err)

		var record map[string]string
		ok, err := loaded.Get("alice", &record)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "a@x.com", record["email"])
	})

	t.Run("corrupt document is an error, not silent data loss", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		docs, err := New(dir, time.Second)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(filepath.Join(dir, "users.json"), []byte("{not json"), 0o644))

		_, err = docs.Load("users")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "corrupt")
	})
}

func TestStoreSave(t *testing.T) {
	t.Parallel()

	t.Run("leaves no temp files behind", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		docs, err := New(dir, time.Second)
		require.NoError(t, err)

		doc := Document{}
		require.NoError(t, doc.Set("key", "value"))
		require.NoError(t, docs.Save("users", doc))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		for _, entry := range entries {
			assert.False(t, strings.HasSuffix(entry.Name(), ".tmp"),
				"temp file %s left behind", entry.Name())
		}
	})

	t.Run("replaces previous content entirely", func(t *testing.T) {
		t.Parallel()
		docs := newTestStore(t)

		first := Document{}
		require.NoError(t, first.Set("old", "value"))
		require.NoError(t, docs.Save("users", first))

		second := Document{}
		require.NoError(t, second.Set("new", "value"))
		require.NoError(t, docs.Save("users", second))

		loaded, err := docs.Load("users")
		require.NoError(t, err)
		assert.False(t, loaded.Has("old"))
		assert.True(t, loaded.Has("new"))
	})
}

func TestDocumentHelpers(t *testing.T) {
	t.Parallel()

	doc := Document{}

	assert.False(t, doc.Has("key"))

	var missing string
	ok, err := doc.Get("key", &missing)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, doc.Set("key", "value"))
	assert.True(t, doc.Has("key"))

	var got string
	ok, err = doc.Get("key", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "value", got)

	// Type mismatch surfaces as a decode error
	var wrongType int
	_, err = doc.Get("key", &wrongType)
	require.Error(t, err)

	doc.Delete("key")
	assert.False(t, doc.Has("key"))
}

func TestStoreWithLock(t *testing.T) {
	t.Parallel()

	t.Run("runs fn and releases the lock", func(t *testing.T) {
		t.Parallel()
		docs := newTestStore(t)

		ran := false
		err := docs.WithLock(context.Background(), "users", func() error {
			ran = true
			return nil
		})
		require.NoError(t, err)
		assert.True(t, ran)

		// Lock must be reacquirable immediately.
		err = docs.WithLock(context.Background(), "users", func() error { return nil })
		require.NoError(t, err)
	})

	t.Run("releases the lock when fn fails", func(t *testing.T) {
		t.Parallel()
		docs := newTestStore(t)

		wantErr := assert.AnError
		err := docs.WithLock(context.Background(), "users", func() error {
			return wantErr
		})
		require.ErrorIs(t, err, wantErr)

		err = docs.WithLock(context.Background(), "users", func() error { return nil })
		require.NoError(t, err)
	})

	t.Run("times out when the lock is held", func(t *testing.T) {
		t.Parallel()
		docs, err := New(t.TempDir(), 100*time.Millisecond)
		require.NoError(t, err)

		held := make(chan struct{})
		release := make(chan struct{})
		go func() {
			_ = docs.WithLock(context.Background(), "users", func() error {
				close(held)
				<-release
				return nil
			})
		}()

		<-held
		err = docs.WithLock(context.Background(), "users", func() error { return nil })
		close(release)

		require.ErrorIs(t, err, ErrLockTimeout)
	})

	t.Run("different documents lock independently", func(t *testing.T) {
		t.Parallel()
		docs, err := New(t.TempDir(), 100*time.Millisecond)
		require.NoError(t, err)

		held := make(chan struct{})
		release := make(chan struct{})
		go func() {
			_ = docs.WithLock(context.Background(), "users", func() error {
				close(held)
				<-release
				return nil
			})
		}()

		<-held
		err = docs.WithLock(context.Background(), "history", func() error { return nil })
		close(release)

		require.NoError(t, err)
	})
}

func TestStoreUpdate(t *testing.T) {
	t.Parallel()

	t.Run("persists mutations", func(t *testing.T) {
		t.Parallel()
		docs := newTestStore(t)

		err := docs.Update(context.Background(), "users", func(doc Document) error {
			return doc.Set("alice", "record")
		})
		require.NoError(t, err)

		loaded, err := docs.Load("users")
		require.NoError(t, err)
		assert.True(t, loaded.Has("alice"))
	})

	t.Run("does not write when fn fails", func(t *testing.T) {
		t.Parallel()
		docs := newTestStore(t)

		err := docs.Update(context.Background(), "users", func(doc Document) error {
			require.NoError(t, doc.Set("alice", "record"))
			return assert.AnError
		})
		require.ErrorIs(t, err, assert.AnError)

		loaded, err := docs.Load("users")
		require.NoError(t, err)
		assert.False(t, loaded.Has("alice"), "failed update must leave the document unchanged")
	})
}
