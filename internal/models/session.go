// Package models contains domain types shared by the dashboard backend.
package models

// Screen identifies one of the dashboard views.
type Screen string

const (
	ScreenHome      Screen = "home"
	ScreenLogin     Screen = "login"
	ScreenDashboard Screen = "dashboard"
)

// Valid reports whether s names a known screen.
func (s Screen) Valid() bool {
	switch s {
	case ScreenHome, ScreenLogin, ScreenDashboard:
		return true
	}
	return false
}

// ScreenAction is a control rendered on a screen. An empty Target means
// the control has no effect.
type ScreenAction struct {
	Label  string `json:"label" msgpack:"label"`
	Target Screen `json:"target,omitempty" msgpack:"target,omitempty"`
}

// FileView is an uploaded file as the presentation layer lists it.
type FileView struct {
	ID        string   `json:"id" msgpack:"id"`
	Name      string   `json:"name" msgpack:"name"`
	Kind      FileKind `json:"kind" msgpack:"kind"`
	SizeBytes int64    `json:"sizeBytes" msgpack:"sizeBytes"`
	SizeLabel string   `json:"sizeLabel" msgpack:"sizeLabel"`
}

// Snapshot is the read-only view of a dashboard session.
type Snapshot struct {
	SessionID string         `json:"sessionId" msgpack:"sessionId"`
	Screen    Screen         `json:"screen" msgpack:"screen"`
	Actions   []ScreenAction `json:"actions" msgpack:"actions"`
	Busy      bool           `json:"busy" msgpack:"busy"`
	Files     []FileView     `json:"files" msgpack:"files"`
}
