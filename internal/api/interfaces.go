// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"github.com/datadash/backend/internal/session"
	"github.com/datadash/backend/internal/storage"
	"github.com/labstack/echo/v4"
)

// SessionHandler handles dashboard session operations
type SessionHandler interface {
	HandleCreateSession(c echo.Context) error
	HandleGetSession(c echo.Context) error
	HandleGetSessionMsgpack(c echo.Context) error
	HandleNavigate(c echo.Context) error
}

// UploadHandler handles file upload operations
type UploadHandler interface {
	HandleUploadFiles(c echo.Context) error
	HandleDropFiles(c echo.Context) error
	HandleRemoveFile(c echo.Context) error
	HandleGetFileContent(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// StreamHandler pushes session snapshots to connected clients
type StreamHandler interface {
	HandleWebSocket(c echo.Context) error
}

// SessionStore defines the session lookups handlers need.
// This allows mocking in tests
type SessionStore interface {
	Create() (*session.Session, error)
	Get(id string) (*session.Session, error)
	Count() int
}

// PayloadStore resolves payload handles to file content
type PayloadStore interface {
	Get(handle string) (*storage.Blob, error)
}
