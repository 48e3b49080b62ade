package session

import (
	"time"

	"github.com/datadash/backend/internal/models"
	"github.com/datadash/backend/internal/screen"
	"github.com/datadash/backend/internal/upload"
)

// Session is the client state of one dashboard visit: the screen being
// shown and the upload session. A page reload starts a new Session.
type Session struct {
	ID        string
	CreatedAt time.Time
	Navigator *screen.Navigator
	Uploads   *upload.Manager

	changes *notifier
}

// Navigate switches the session's screen and notifies subscribers.
func (s *Session) Navigate(to models.Screen) models.Screen {
	shown := s.Navigator.Navigate(to)
	s.changes.broadcast()
	return shown
}

// Subscribe returns a channel signalled whenever the snapshot may have
// changed, and a function that ends the subscription. The channel is
// closed when the subscription ends or the session expires.
func (s *Session) Subscribe() (<-chan struct{}, func()) {
	return s.changes.subscribe()
}

// Snapshot renders the current session state for the presentation layer.
func (s *Session) Snapshot() models.Snapshot {
	current := s.Navigator.Current()
	state := s.Uploads.State()

	files := make([]models.FileView, len(state.Files))
	for i, f := range state.Files {
		files[i] = models.FileView{
			ID:        f.ID,
			Name:      f.Name,
			Kind:      f.Kind,
			SizeBytes: f.SizeBytes,
			SizeLabel: upload.FormatSize(f.SizeBytes),
		}
	}

	return models.Snapshot{
		SessionID: s.ID,
		Screen:    current,
		Actions:   screen.Actions(current),
		Busy:      state.Busy,
		Files:     files,
	}
}
