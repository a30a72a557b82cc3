// Package v1 provides the engine control API.
package v1

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/panel/internal/domain"
	"github.com/xiaot623/gogo/panel/internal/service"
)

// EventSource feeds the websocket event stream.
type EventSource interface {
	Subscribe(ctx context.Context) (<-chan domain.Event, error)
}

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
	events  EventSource
}

// NewHandler creates a new handler. events may be nil, in which case the
// event feed is unavailable.
func NewHandler(service *service.Service, events EventSource) *Handler {
	return &Handler{
		service: service,
		events:  events,
	}
}

// RegisterRoutes registers the control routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Catalog and selection
	e.GET("/v1/participants", h.ListParticipants)
	e.GET("/v1/selection", h.GetSelection)
	e.POST("/v1/selection/:participant_id/toggle", h.ToggleParticipant)

	// Runs
	e.POST("/v1/runs", h.SubmitRun)
	e.GET("/v1/run", h.GetRun)
	e.POST("/v1/run/reset", h.ResetRun)

	// History
	e.GET("/v1/sessions", h.ListSessions)
	e.POST("/v1/sessions/:session_id/restore", h.RestoreSession)

	// Feedback
	e.GET("/v1/feedback", h.ListFeedback)
	e.POST("/v1/feedback", h.SubmitFeedback)
	e.GET("/v1/feedback/pending", h.GetPendingFeedback)

	e.GET("/v1/events", h.StreamEvents)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
