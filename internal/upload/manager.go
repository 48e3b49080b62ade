// Package upload holds the upload session state and the simulated
// processing that makes newly submitted files visible after a delay.
package upload

import (
	"sync"
	"time"

	"github.com/datadash/backend/internal/models"
	"go.uber.org/zap"
)

// DefaultProcessingDelay is how long a batch stays "processing" before its
// files appear.
const DefaultProcessingDelay = 1500 * time.Millisecond

// Store is the payload storage the manager needs.
type Store interface {
	Put(name, contentType string, content []byte) string
	Delete(handle string)
}

// Options configures a Manager. Zero values select defaults.
type Options struct {
	Delay     time.Duration
	Scheduler Scheduler
	IDs       IDGenerator
	Store     Store
	Logger    *zap.Logger
	OnChange  func() // Called after every visible state change, outside the lock
}

// Manager owns one upload session. All state transitions are serialized
// under mu, including deferred batch completions fired by the scheduler.
type Manager struct {
	mu        sync.Mutex
	state     State
	batchSeq  int64
	discarded bool

	delay     time.Duration
	scheduler Scheduler
	ids       IDGenerator
	store     Store
	log       *zap.Logger
	onChange  func()
}

// NewManager creates a manager with an empty, idle session.
func NewManager(opts Options) *Manager {
	m := &Manager{
		state:     NewState(),
		delay:     opts.Delay,
		scheduler: opts.Scheduler,
		ids:       opts.IDs,
		store:     opts.Store,
		log:       opts.Logger,
		onChange:  opts.OnChange,
	}
	if m.delay <= 0 {
		m.delay = DefaultProcessingDelay
	}
	if m.scheduler == nil {
		m.scheduler = TimerScheduler{}
	}
	if m.ids == nil {
		m.ids = UUIDv7Generator{}
	}
	if m.store == nil {
		m.store = discardStore{}
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	return m
}

// Ingest submits a batch of raw files. The session turns busy at once; the
// accepted files are mapped now but only become visible when the deferred
// completion fires. Invalid raw files are skipped and reported, one error
// each, without affecting the rest of the batch.
func (m *Manager) Ingest(raw []models.RawFile) []error {
	var errs []error
	batch := make([]models.UploadedFile, 0, len(raw))

	for i, rf := range raw {
		if err := validateRawFile(i, rf); err != nil {
			errs = append(errs, err)
			continue
		}
		batch = append(batch, models.UploadedFile{
			ID:        m.ids.NextID(),
			Name:      rf.Name,
			Kind:      Classify(rf.MimeType),
			SizeBytes: rf.SizeBytes,
			Payload:   m.store.Put(rf.Name, rf.MimeType, rf.Content),
		})
	}

	m.mu.Lock()
	m.state = m.state.BeginIngest()
	m.batchSeq++
	seq := m.batchSeq
	m.mu.Unlock()

	m.log.Info("batch accepted",
		zap.Int64("batch", seq),
		zap.Int("files", len(batch)),
		zap.Int("rejected", len(errs)),
		zap.Duration("delay", m.delay))
	for _, err := range errs {
		m.log.Warn("raw file rejected", zap.Int64("batch", seq), zap.Error(err))
	}

	m.changed()
	m.scheduler.After(m.delay, func() { m.completeBatch(seq, batch) })

	return errs
}

// completeBatch is the deferred half of Ingest. Overlapping batches are not
// tracked: whichever completion fires last leaves the session idle.
func (m *Manager) completeBatch(seq int64, batch []models.UploadedFile) {
	m.mu.Lock()
	if m.discarded {
		m.state.Busy = false
		m.mu.Unlock()
		m.release(batch)
		m.log.Debug("batch dropped for discarded session", zap.Int64("batch", seq))
		return
	}
	m.state = m.state.CompleteBatch(batch)
	total := len(m.state.Files)
	m.mu.Unlock()

	m.log.Info("batch complete",
		zap.Int64("batch", seq),
		zap.Int("files", len(batch)),
		zap.Int("total", total))
	m.changed()
}

// Remove deletes the visible file with the given id. Unknown ids are
// ignored. The busy flag is not touched.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	next, removed, ok := m.state.Remove(id)
	if ok {
		m.state = next
	}
	m.mu.Unlock()

	if !ok {
		m.log.Debug("remove ignored, no such file", zap.String("id", id))
		return
	}

	m.store.Delete(removed.Payload)
	m.log.Info("file removed", zap.String("id", id), zap.String("name", removed.Name))
	m.changed()
}

// Files returns the visible files in insertion order.
func (m *Manager) Files() []models.UploadedFile {
	return m.State().Files
}

// Busy reports whether a batch is being processed.
func (m *Manager) Busy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Busy
}

// State returns a copy of the current session state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

// Find returns the visible file with the given id.
func (m *Manager) Find(id string) (models.UploadedFile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.state.Files {
		if f.ID == id {
			return f, true
		}
	}
	return models.UploadedFile{}, false
}

// Discard ends the session: visible payloads are released now, and batches
// still processing release theirs when they fire instead of appending.
func (m *Manager) Discard() {
	m.mu.Lock()
	if m.discarded {
		m.mu.Unlock()
		return
	}
	m.discarded = true
	files := m.state.Files
	m.state = NewState()
	m.mu.Unlock()

	m.release(files)
}

func (m *Manager) release(files []models.UploadedFile) {
	for _, f := range files {
		m.store.Delete(f.Payload)
	}
}

func (m *Manager) changed() {
	if m.onChange != nil {
		m.onChange()
	}
}

type discardStore struct{}

func (discardStore) Put(string, string, []byte) string { return "" }
func (discardStore) Delete(string)                     {}
