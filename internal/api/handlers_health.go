// handlers_health.go - Health check handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	version  string
	sessions SessionStore
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, sessions SessionStore) HealthHandler {
	return &HealthHandlerImpl{
		version:  version,
		sessions: sessions,
	}
}

// HandleHealth returns server health status
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	active := 0
	if h.sessions != nil {
		active = h.sessions.Count()
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"version":  h.version,
		"sessions": active,
	})
}
