package upload

import "github.com/datadash/backend/internal/models"

// State is the upload session state. Transitions return a new State and
// never write through the receiver's Files backing array.
type State struct {
	Files []models.UploadedFile
	Busy  bool
}

// NewState returns the initial state: no files, not busy.
func NewState() State {
	return State{Files: []models.UploadedFile{}}
}

// BeginIngest marks the session busy for a newly submitted batch.
func (s State) BeginIngest() State {
	return State{Files: s.Files, Busy: true}
}

// CompleteBatch appends a processed batch after the existing files, in
// batch order, and clears the busy flag.
func (s State) CompleteBatch(batch []models.UploadedFile) State {
	files := make([]models.UploadedFile, 0, len(s.Files)+len(batch))
	files = append(files, s.Files...)
	files = append(files, batch...)
	return State{Files: files, Busy: false}
}

// Remove drops the file with the given id. The returned bool is false and
// the state unchanged when no file matches.
func (s State) Remove(id string) (State, models.UploadedFile, bool) {
	for i, f := range s.Files {
		if f.ID != id {
			continue
		}
		files := make([]models.UploadedFile, 0, len(s.Files)-1)
		files = append(files, s.Files[:i]...)
		files = append(files, s.Files[i+1:]...)
		return State{Files: files, Busy: s.Busy}, f, true
	}
	return s, models.UploadedFile{}, false
}

// Clone returns a copy whose Files slice is safe to hand to callers.
func (s State) Clone() State {
	files := make([]models.UploadedFile, len(s.Files))
	copy(files, s.Files)
	return State{Files: files, Busy: s.Busy}
}
