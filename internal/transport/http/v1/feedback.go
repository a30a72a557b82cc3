package v1

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/panel/internal/domain"
)

// ListFeedback returns the feedback history, newest first.
// GET /v1/feedback
func (h *Handler) ListFeedback(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"feedback": h.service.Feedback(),
	})
}

// SubmitFeedback sends feedback on one participant's output.
// POST /v1/feedback
func (h *Handler) SubmitFeedback(c echo.Context) error {
	ctx := c.Request().Context()

	var req domain.SubmitFeedbackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.ParticipantID) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "participant_id is required"})
	}

	entry, err := h.service.SubmitFeedback(ctx, req.ParticipantID, req.Text)
	if err != nil {
		return c.JSON(statusFor(err), map[string]string{"error": err.Error()})
	}
	if entry == nil {
		// Blank feedback is dropped without contacting the backend.
		return c.NoContent(http.StatusNoContent)
	}

	return c.JSON(http.StatusOK, entry)
}

// GetPendingFeedback returns in-flight submissions and last errors by participant.
// GET /v1/feedback/pending
func (h *Handler) GetPendingFeedback(c echo.Context) error {
	errs := make(map[string]string)
	for _, p := range h.service.Catalog() {
		if msg := h.service.FeedbackError(p.ID); msg != "" {
			errs[p.ID] = msg
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"pending": h.service.FeedbackPendingAll(),
		"errors":  errs,
	})
}
