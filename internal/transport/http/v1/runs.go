package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/xiaot623/gogo/panel/internal/domain"
)

// SubmitRun runs a query against the current selection and waits for it.
// POST /v1/runs
func (h *Handler) SubmitRun(c echo.Context) error {
	ctx := c.Request().Context()

	var req domain.SubmitRunRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	result, err := h.service.Submit(ctx, req.Query)
	if err != nil {
		return c.JSON(statusFor(err), map[string]interface{}{
			"error": err.Error(),
			"state": h.service.State(),
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"result": result,
		"state":  h.service.State(),
	})
}

// GetRun returns the visible run state.
// GET /v1/run
func (h *Handler) GetRun(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.State())
}

// ResetRun returns the run to idle.
// POST /v1/run/reset
func (h *Handler) ResetRun(c echo.Context) error {
	h.service.Reset()
	return c.JSON(http.StatusOK, h.service.State())
}

func statusFor(err error) int {
	var remote *domain.RemoteCallError
	var unexpected *domain.UnexpectedResponseError
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSuperseded):
		return http.StatusConflict
	case errors.As(err, &remote), errors.As(err, &unexpected):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
