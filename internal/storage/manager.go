package storage

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a handle does not resolve to stored content.
var ErrNotFound = errors.New("payload not found")

// Blob is file content held for an uploaded file.
type Blob struct {
	Handle      string
	Name        string
	ContentType string
	Size        int64
	StoredAt    time.Time
	Content     []byte
}

// Store defines the interface for payload storage.
type Store interface {
	Put(name, contentType string, content []byte) string
	Get(handle string) (*Blob, error)
	Delete(handle string)
	Len() int
}

// MemoryStore implements Store in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string]*Blob
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blobs: make(map[string]*Blob),
	}
}

// Put stores content and returns its opaque handle.
func (s *MemoryStore) Put(name, contentType string, content []byte) string {
	handle := uuid.New().String()
	blob := &Blob{
		Handle:      handle,
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(content)),
		StoredAt:    time.Now(),
		Content:     content,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[handle] = blob

	return handle
}

// Get retrieves stored content by handle.
func (s *MemoryStore) Get(handle string) (*Blob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blob, ok := s.blobs[handle]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, handle)
	}

	return blob, nil
}

// Delete releases content. Unknown handles are ignored.
func (s *MemoryStore) Delete(handle string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, handle)
}

// Len returns the number of stored payloads.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
