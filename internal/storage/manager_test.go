// manager_test.go - Tests for the payload store
package storage

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_PutGet(t *testing.T) {
	t.Run("stores content under a fresh handle", func(t *testing.T) {
		store := NewMemoryStore()

		handle := store.Put("a.png", "image/png", []byte("png-bytes"))
		require.NotEmpty(t, handle)

		blob, err := store.Get(handle)
		require.NoError(t, err)
		assert.Equal(t, "a.png", blob.Name)
		assert.Equal(t, "image/png", blob.ContentType)
		assert.Equal(t, int64(9), blob.Size)
		assert.Equal(t, []byte("png-bytes"), blob.Content)
		assert.False(t, blob.StoredAt.IsZero())
	})

	t.Run("same name twice yields two handles", func(t *testing.T) {
		store := NewMemoryStore()

		h1 := store.Put("dup.txt", "text/plain", []byte("1"))
		h2 := store.Put("dup.txt", "text/plain", []byte("2"))

		assert.NotEqual(t, h1, h2)
		assert.Equal(t, 2, store.Len())
	})

	t.Run("nil content is allowed", func(t *testing.T) {
		store := NewMemoryStore()

		handle := store.Put("empty", "", nil)
		blob, err := store.Get(handle)
		require.NoError(t, err)
		assert.Equal(t, int64(0), blob.Size)
	})
}

func TestMemoryStore_GetUnknown(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "missing")
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore()
	handle := store.Put("doc.pdf", "application/pdf", []byte("%PDF"))

	store.Delete(handle)

	_, err := store.Get(handle)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, store.Len())

	// Deleting again is a no-op
	store.Delete(handle)
	store.Delete("never-existed")
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_ConcurrentPut(t *testing.T) {
	store := NewMemoryStore()
	const writers = 50

	var wg sync.WaitGroup
	handles := make(chan string, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			handles <- store.Put("f", "", []byte("x"))
		}()
	}
	wg.Wait()
	close(handles)

	seen := make(map[string]bool)
	for h := range handles {
		assert.False(t, seen[h], "handle %s issued twice", h)
		seen[h] = true
	}
	assert.Equal(t, writers, store.Len())
}
