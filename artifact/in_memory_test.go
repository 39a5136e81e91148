package artifact

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satyamsundaram01/moe-support-assist/core"
)

var _ core.ArtifactStore = (*InMemoryStore)(nil)

func TestInMemoryStore_SaveGetIsolation(t *testing.T) {
	store := NewInMemoryStore()

	report := []byte("# Troubleshooting Report\n\nroot cause: rate limiting")
	require.NoError(t, store.Save("sess-1", "solution_report.md", report))

	// Mutating the caller's slice must not affect the stored bytes.
	report[0] = '!'

	got, err := store.Get("sess-1", "solution_report.md")
	require.NoError(t, err)
	assert.Equal(t, byte('#'), got[0])

	// Mutating the returned slice must not affect a later read.
	got[0] = '!'
	again, err := store.Get("sess-1", "solution_report.md")
	require.NoError(t, err)
	assert.Equal(t, byte('#'), again[0])
}

func TestInMemoryStore_GetMissing(t *testing.T) {
	store := NewInMemoryStore()

	_, err := store.Get("sess-1", "nope")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "sess-1/nope")
}

func TestInMemoryStore_ListSortedAndDelete(t *testing.T) {
	store := NewInMemoryStore()

	require.NoError(t, store.Save("sess-1", "solution_report.md", []byte("a")))
	require.NoError(t, store.Save("sess-1", "campaign_logs.txt", []byte("b")))

	ids, err := store.List("sess-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"campaign_logs.txt", "solution_report.md"}, ids)

	require.NoError(t, store.Delete("sess-1", "campaign_logs.txt"))

	_, err = store.Get("sess-1", "campaign_logs.txt")
	assert.ErrorIs(t, err, ErrNotFound)

	ids, err = store.List("sess-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"solution_report.md"}, ids)

	assert.ErrorIs(t, store.Delete("sess-1", "campaign_logs.txt"), ErrNotFound)
	assert.ErrorIs(t, store.Delete("other", "anything"), ErrNotFound)
}

func TestInMemoryStore_ListUnknownSession(t *testing.T) {
	store := NewInMemoryStore()

	ids, err := store.List("nope")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestInMemoryStore_Concurrency(t *testing.T) {
	store := NewInMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("artifact-%d", i%10)
			assert.NoError(t, store.Save("sess-1", id, []byte("data")))

			_, err := store.List("sess-1")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	ids, err := store.List("sess-1")
	require.NoError(t, err)
	assert.Len(t, ids, 10)
}
