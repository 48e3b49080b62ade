package models

// FileKind classifies an uploaded file for icon selection.
type FileKind string

const (
	FileKindImage    FileKind = "image"
	FileKindDocument FileKind = "document"
)

// RawFile is a file chosen by the user, before classification.
// Click-to-browse and drag-drop both produce this same shape.
type RawFile struct {
	Name      string `json:"name" validate:"required"`
	MimeType  string `json:"mimeType"`
	SizeBytes int64  `json:"sizeBytes" validate:"min=0"`
	Content   []byte `json:"-"`
}

// UploadedFile represents a file accepted into an upload session.
type UploadedFile struct {
	ID        string   `json:"id" msgpack:"id"`
	Name      string   `json:"name" msgpack:"name"`
	Kind      FileKind `json:"kind" msgpack:"kind"`
	SizeBytes int64    `json:"sizeBytes" msgpack:"sizeBytes"`
	Payload   string   `json:"-" msgpack:"-"` // Handle into the payload store
}
