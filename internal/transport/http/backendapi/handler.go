// Package backendapi serves the remote run and feedback operations from the
// simulated participants.
package backendapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/xiaot623/gogo/panel/internal/domain"
	"github.com/xiaot623/gogo/panel/internal/simulate"
)

// Handler handles backend requests.
type Handler struct {
	backend *simulate.Backend
}

// NewHandler creates a new backend handler.
func NewHandler(backend *simulate.Backend) *Handler {
	return &Handler{backend: backend}
}

// RegisterRoutes registers the backend routes.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/run-agent", h.RunAgent)
	e.GET("/api/run-agent/stream", h.RunAgentStream)
	e.POST("/api/feedback", h.Feedback)
}

// RunAgent runs the query on the requested models.
// POST /api/run-agent
func (h *Handler) RunAgent(c echo.Context) error {
	ctx := c.Request().Context()

	var req domain.RunTaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Query) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "query is required"})
	}

	result, err := h.backend.RunTask(ctx, req.Query, req.Models)
	if err != nil {
		log.Error().Err(err).Msg("run failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, domain.NewRunTaskResponse(result))
}

// RunAgentStream runs the query and streams progress as server-sent events.
// GET /api/run-agent/stream?query=...&models=a,b
func (h *Handler) RunAgentStream(c echo.Context) error {
	ctx := c.Request().Context()

	query := c.QueryParam("query")
	if strings.TrimSpace(query) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "query is required"})
	}
	var models []string
	for _, m := range strings.Split(c.QueryParam("models"), ",") {
		if m = strings.TrimSpace(m); m != "" {
			models = append(models, m)
		}
	}

	// Set SSE headers
	c.Response().Header().Set("Content-Type", "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().Header().Set("X-Accel-Buffering", "no")
	c.Response().WriteHeader(http.StatusOK)

	flusher, _ := c.Response().Writer.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	var writeErr error
	_, err := h.backend.RunTaskStream(ctx, query, models, func(ev domain.StreamEvent) {
		if writeErr != nil {
			return
		}
		writeErr = writeEvent(c, ev)
		if writeErr == nil && flusher != nil {
			flusher.Flush()
		}
	})
	if err != nil {
		log.Warn().Err(err).Msg("stream run failed")
		return nil
	}
	if writeErr != nil {
		log.Debug().Err(writeErr).Msg("client went away during stream")
	}
	return nil
}

// Feedback accepts feedback on a model's output.
// POST /api/feedback
func (h *Handler) Feedback(c echo.Context) error {
	ctx := c.Request().Context()

	var req domain.FeedbackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	ack, err := h.backend.SubmitFeedback(ctx, req.Model, req.Feedback)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, ack)
}

func writeEvent(c echo.Context, ev domain.StreamEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	_, err = fmt.Fprintf(c.Response().Writer, "data: %s\n\n", data)
	return err
}
