package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ListSessions returns the session history, newest first.
// GET /v1/sessions
func (h *Handler) ListSessions(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"sessions": h.service.Sessions(),
	})
}

// RestoreSession replays a stored session without calling the backend.
// POST /v1/sessions/:session_id/restore
func (h *Handler) RestoreSession(c echo.Context) error {
	sessionID := c.Param("session_id")

	if !h.service.Restore(sessionID) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
	}

	return c.JSON(http.StatusOK, h.service.State())
}
