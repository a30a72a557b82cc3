package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ListParticipants returns the fixed catalog with the selection flag.
// GET /v1/participants
func (h *Handler) ListParticipants(c echo.Context) error {
	selected := make(map[string]bool)
	for _, id := range h.service.Selection() {
		selected[id] = true
	}

	catalog := h.service.Catalog()
	participants := make([]map[string]interface{}, len(catalog))
	for i, p := range catalog {
		participants[i] = map[string]interface{}{
			"id":        p.ID,
			"specialty": p.Specialty,
			"selected":  selected[p.ID],
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"participants": participants,
	})
}

// GetSelection returns the selected participant ids in selection order.
// GET /v1/selection
func (h *Handler) GetSelection(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"selected": h.service.Selection(),
	})
}

// ToggleParticipant flips one participant in the selection.
// POST /v1/selection/:participant_id/toggle
func (h *Handler) ToggleParticipant(c echo.Context) error {
	participantID := c.Param("participant_id")
	if participantID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "participant_id is required"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"participant_id": participantID,
		"selected":       h.service.Toggle(participantID),
		"selection":      h.service.Selection(),
	})
}
