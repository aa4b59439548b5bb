package filedoc

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/paperiq/paperiq-api/internal/domain"
	"github.com/paperiq/paperiq-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHistoryStore(t *testing.T) *HistoryStore {
	t.Helper()
	docs, err := New(t.TempDir(), 10*time.Second)
	require.NoError(t, err)
	return NewHistoryStore(docs)
}

func testResults(score float64) domain.AnalysisResult {
	return domain.AnalysisResult{
		"overall_score": score,
		"scores": map[string]any{
			"language":  score,
			"coherence": score,
			"reasoning": score,
		},
		"flagged_sentences": []any{},
	}
}

func TestHistoryStoreAppend(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("assigns sequential positions", func(t *testing.T) {
		t.Parallel()
		history := newTestHistoryStore(t)

		for i := 0; i < 3; i++ {
			position, err := history.Append(ctx, "alice", fmt.Sprintf("text %d", i), testResults(80))
			require.NoError(t, err)
			assert.Equal(t, i, position)
		}
	})

	t.Run("append then list returns the appended entry last", func(t *testing.T) {
		t.Parallel()
		history := newTestHistoryStore(t)

		_, err := history.Append(ctx, "alice", "first", testResults(70))
		require.NoError(t, err)
		_, err = history.Append(ctx, "alice", "second", testResults(90))
		require.NoError(t, err)

		entries, err := history.List(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "second", entries[1].FullText)
		assert.Equal(t, 90.0, entries[1].Results["overall_score"])
	})

	t.Run("long text gets a truncated preview", func(t *testing.T) {
		t.Parallel()
		history := newTestHistoryStore(t)

		long := strings.Repeat("x", 150)
		_, err := history.Append(ctx, "alice", long, testResults(80))
		require.NoError(t, err)

		entries, err := history.List(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, strings.Repeat("x", 100)+"...", entries[0].TextPreview)
		assert.Equal(t, long, entries[0].FullText)
	})

	t.Run("users' sequences are independent", func(t *testing.T) {
		t.Parallel()
		history := newTestHistoryStore(t)

		_, err := history.Append(ctx, "alice", "alice text", testResults(80))
		require.NoError(t, err)
		position, err := history.Append(ctx, "bob", "bob text", testResults(60))
		require.NoError(t, err)
		assert.Equal(t, 0, position)

		aliceEntries, err := history.List(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, aliceEntries, 1)
		assert.Equal(t, "alice text", aliceEntries[0].FullText)
	})

	t.Run("rejects empty username and empty text", func(t *testing.T) {
		t.Parallel()
		history := newTestHistoryStore(t)

		_, err := history.Append(ctx, "", "text", testResults(80))
		require.ErrorIs(t, err, domain.ErrEmptyUsername)

		_, err = history.Append(ctx, "alice", "", testResults(80))
		require.ErrorIs(t, err, domain.ErrEmptyHistoryText)
	})
}

func TestHistoryStoreList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("unknown user yields an empty slice", func(t *testing.T) {
		t.Parallel()
		history := newTestHistoryStore(t)

		entries, err := history.List(ctx, "nobody")
		require.NoError(t, err)
		assert.NotNil(t, entries)
		assert.Empty(t, entries)
	})
}

func TestHistoryStoreDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	seed := func(t *testing.T, history *HistoryStore) {
		t.Helper()
		for i := 0; i < 3; i++ {
			_, err := history.Append(ctx, "alice", fmt.Sprintf("entry %d", i), testResults(80))
			require.NoError(t, err)
		}
	}

	t.Run("removes the entry and closes the gap", func(t *testing.T) {
		t.Parallel()
		history := newTestHistoryStore(t)
		seed(t, history)

		require.NoError(t, history.Delete(ctx, "alice", 1))

		entries, err := history.List(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "entry 0", entries[0].FullText)
		assert.Equal(t, "entry 2", entries[1].FullText)
	})

	t.Run("out of range positions fail and change nothing", func(t *testing.T) {
		t.Parallel()
		history := newTestHistoryStore(t)
		seed(t, history)

		for _, position := range []int{-1, 3, 100} {
			err := history.Delete(ctx, "alice", position)
			require.ErrorIs(t, err, store.ErrEntryNotFound)
		}

		entries, err := history.List(ctx, "alice")
		require.NoError(t, err)
		assert.Len(t, entries, 3)
	})

	t.Run("unknown user fails with not found", func(t *testing.T) {
		t.Parallel()
		history := newTestHistoryStore(t)

		err := history.Delete(ctx, "nobody", 0)
		require.ErrorIs(t, err, store.ErrEntryNotFound)
		assert.True(t, store.IsNotFoundError(err))
	})
}

// TestHistoryStoreConcurrentAppend drives many concurrent appends for one
// user through the locked read-modify-write cycle; every append must land.
func TestHistoryStoreConcurrentAppend(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	history := newTestHistoryStore(t)

	const callers = 50

	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := history.Append(ctx, "alice", fmt.Sprintf("concurrent %d", i), testResults(80))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	entries, err := history.List(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, entries, callers, "no append may be lost or duplicated")

	// Every distinct text must be present exactly once.
	seen := make(map[string]int, callers)
	for _, entry := range entries {
		seen[entry.FullText]++
	}
	for text, count := range seen {
		assert.Equal(t, 1, count, "entry %q appended %d times", text, count)
	}
	assert.Len(t, seen, callers)
}
