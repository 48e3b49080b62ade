package upload

import (
	"testing"

	"github.com/datadash/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func file(id string) models.UploadedFile {
	return models.UploadedFile{ID: id, Name: id + ".txt", Kind: models.FileKindDocument}
}

func TestState_Transitions(t *testing.T) {
	s := NewState()
	assert.False(t, s.Busy)
	assert.Empty(t, s.Files)

	busy := s.BeginIngest()
	assert.True(t, busy.Busy)
	assert.False(t, s.Busy, "receiver untouched")

	done := busy.CompleteBatch([]models.UploadedFile{file("a"), file("b")})
	assert.False(t, done.Busy)
	assert.Equal(t, []models.UploadedFile{file("a"), file("b")}, done.Files)

	more := done.BeginIngest().CompleteBatch([]models.UploadedFile{file("c")})
	assert.Equal(t, []models.UploadedFile{file("a"), file("b"), file("c")}, more.Files)
	assert.Len(t, done.Files, 2)
}

func TestState_Remove(t *testing.T) {
	s := NewState().CompleteBatch([]models.UploadedFile{file("a"), file("b"), file("c")})

	next, removed, ok := s.Remove("b")
	assert.True(t, ok)
	assert.Equal(t, "b", removed.ID)
	assert.Equal(t, []models.UploadedFile{file("a"), file("c")}, next.Files)
	assert.Equal(t, []models.UploadedFile{file("a"), file("b"), file("c")}, s.Files, "original untouched")

	same, _, ok := s.Remove("zzz")
	assert.False(t, ok)
	assert.Equal(t, s.Files, same.Files)
}

func TestState_RemoveKeepsBusy(t *testing.T) {
	s := NewState().CompleteBatch([]models.UploadedFile{file("a")}).BeginIngest()

	next, _, ok := s.Remove("a")
	assert.True(t, ok)
	assert.True(t, next.Busy)
	assert.Empty(t, next.Files)
}

func TestState_CompleteBatchDoesNotAlias(t *testing.T) {
	base := NewState().CompleteBatch([]models.UploadedFile{file("a")})
	x := base.CompleteBatch([]models.UploadedFile{file("x")})
	y := base.CompleteBatch([]models.UploadedFile{file("y")})

	assert.Equal(t, "x", x.Files[1].ID)
	assert.Equal(t, "y", y.Files[1].ID)
}
