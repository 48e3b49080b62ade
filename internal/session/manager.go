package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/datadash/backend/internal/screen"
	"github.com/datadash/backend/internal/upload"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

var (
	// ErrSessionNotFound is returned for unknown or expired session ids.
	ErrSessionNotFound = errors.New("session not found")

	// ErrTooManySessions is returned when MaxSessions are already live.
	ErrTooManySessions = errors.New("too many active sessions")
)

const (
	// DefaultSessionTimeout is how long an untouched session is kept.
	DefaultSessionTimeout = 30 * time.Minute

	// DefaultCleanupInterval is how often expired sessions are purged.
	DefaultCleanupInterval = 5 * time.Minute

	// DefaultMaxSessions limits concurrent sessions to bound memory.
	DefaultMaxSessions = 1000
)

// UploadFactory builds the upload manager for a new session. onChange must
// be wired to the manager's OnChange option.
type UploadFactory func(onChange func()) *upload.Manager

// Options configures a Manager. Zero values select defaults.
type Options struct {
	Timeout         time.Duration
	CleanupInterval time.Duration
	MaxSessions     int
	NewUploads      UploadFactory
	Logger          *zap.Logger
}

// Manager keeps live sessions. Each access slides the session's expiry.
type Manager struct {
	createMu    sync.Mutex // Serializes the MaxSessions check with insertion
	cache       *cache.Cache
	maxSessions int
	newUploads  UploadFactory
	log         *zap.Logger
}

// NewManager creates a session manager. Expired sessions are discarded by
// the cache's janitor every CleanupInterval.
func NewManager(opts Options) *Manager {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultSessionTimeout
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = DefaultCleanupInterval
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = DefaultMaxSessions
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.NewUploads == nil {
		opts.NewUploads = func(onChange func()) *upload.Manager {
			return upload.NewManager(upload.Options{OnChange: onChange})
		}
	}

	m := &Manager{
		cache:       cache.New(opts.Timeout, opts.CleanupInterval),
		maxSessions: opts.MaxSessions,
		newUploads:  opts.NewUploads,
		log:         opts.Logger,
	}
	m.cache.OnEvicted(m.onEvicted)
	return m
}

// Create starts a new session on the home screen with no files. Concurrent
// calls never exceed MaxSessions.
func (m *Manager) Create() (*Session, error) {
	m.createMu.Lock()
	defer m.createMu.Unlock()

	if m.cache.ItemCount() >= m.maxSessions {
		m.cache.DeleteExpired()
		if m.cache.ItemCount() >= m.maxSessions {
			return nil, fmt.Errorf("%w: limit is %d", ErrTooManySessions, m.maxSessions)
		}
	}

	changes := newNotifier()
	s := &Session{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		Navigator: screen.NewNavigator(),
		Uploads:   m.newUploads(changes.broadcast),
		changes:   changes,
	}

	m.cache.Set(s.ID, s, cache.DefaultExpiration)
	m.log.Info("session created", zap.String("session", s.ID), zap.Int("active", m.cache.ItemCount()))

	return s, nil
}

// Get returns a live session and extends its expiry.
func (m *Manager) Get(id string) (*Session, error) {
	v, found := m.cache.Get(id)
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s := v.(*Session)
	if err := m.touch(s); err != nil {
		return nil, err
	}
	return s, nil
}

// touch slides the expiry of a session still held by the cache. A session
// evicted since it was looked up is not put back.
func (m *Manager) touch(s *Session) error {
	if err := m.cache.Replace(s.ID, s, cache.DefaultExpiration); err != nil {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, s.ID)
	}
	return nil
}

// Delete ends a session immediately. Unknown ids are ignored.
func (m *Manager) Delete(id string) {
	m.cache.Delete(id)
}

// Count returns the number of sessions held, including expired ones not
// yet purged.
func (m *Manager) Count() int {
	return m.cache.ItemCount()
}

// CleanupExpired purges expired sessions now instead of waiting for the
// janitor.
func (m *Manager) CleanupExpired() {
	m.cache.DeleteExpired()
}

func (m *Manager) onEvicted(id string, v interface{}) {
	s, ok := v.(*Session)
	if !ok {
		return
	}
	s.Uploads.Discard()
	s.changes.closeAll()
	m.log.Info("session ended", zap.String("session", id), zap.Duration("age", time.Since(s.CreatedAt)))
}
