// handlers_session.go - Dashboard session and screen handlers
package api

import (
	"net/http"

	"github.com/datadash/backend/internal/screen"
	"github.com/datadash/backend/internal/session"
	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"
)

// MIMEApplicationMsgpack is the content type of msgpack responses
const MIMEApplicationMsgpack = "application/x-msgpack"

// SessionHandlerImpl implements the SessionHandler interface
type SessionHandlerImpl struct {
	sessions SessionStore
}

// NewSessionHandler creates a new session handler instance
func NewSessionHandler(sessions SessionStore) SessionHandler {
	return &SessionHandlerImpl{sessions: sessions}
}

// HandleCreateSession starts a dashboard session on the home screen
func (h *SessionHandlerImpl) HandleCreateSession(c echo.Context) error {
	s, err := h.sessions.Create()
	if err != nil {
		return fromDomainError(err, "")
	}
	return c.JSON(http.StatusCreated, s.Snapshot())
}

// HandleGetSession returns the session snapshot
func (h *SessionHandlerImpl) HandleGetSession(c echo.Context) error {
	s, err := lookupSession(h.sessions, c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s.Snapshot())
}

// HandleGetSessionMsgpack returns the session snapshot encoded as msgpack
func (h *SessionHandlerImpl) HandleGetSessionMsgpack(c echo.Context) error {
	s, err := lookupSession(h.sessions, c)
	if err != nil {
		return err
	}

	data, err := msgpack.Marshal(s.Snapshot())
	if err != nil {
		return NewInternalError("failed to encode snapshot", err)
	}

	return c.Blob(http.StatusOK, MIMEApplicationMsgpack, data)
}

// HandleNavigate switches the session to another screen
func (h *SessionHandlerImpl) HandleNavigate(c echo.Context) error {
	s, err := lookupSession(h.sessions, c)
	if err != nil {
		return err
	}

	var req navigateRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}

	target, ok := screen.Parse(req.Screen)
	if !ok {
		return NewValidationError("screen")
	}

	s.Navigate(target)
	return c.JSON(http.StatusOK, s.Snapshot())
}

type navigateRequest struct {
	Screen string `json:"screen"`
}

// lookupSession resolves the :sessionId path parameter
func lookupSession(sessions SessionStore, c echo.Context) (*session.Session, error) {
	id := c.Param("sessionId")
	if id == "" {
		return nil, NewValidationError("sessionId")
	}

	s, err := sessions.Get(id)
	if err != nil {
		return nil, fromDomainError(err, id)
	}
	return s, nil
}
