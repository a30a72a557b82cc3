// Package http provides the HTTP servers of the panel engine.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/xiaot623/gogo/panel/internal/service"
	"github.com/xiaot623/gogo/panel/internal/simulate"
	"github.com/xiaot623/gogo/panel/internal/transport/http/backendapi"
	v1 "github.com/xiaot623/gogo/panel/internal/transport/http/v1"
)

// NewEngineServer creates the control API of the engine: selection, runs,
// session history, feedback and the websocket event feed.
func NewEngineServer(svc *service.Service, events v1.EventSource) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	v1.NewHandler(svc, events).RegisterRoutes(e)

	return e
}

// NewBackendServer creates the demo backend serving the remote run and
// feedback operations from the simulated participants.
func NewBackendServer(sim *simulate.Backend) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	backendapi.NewHandler(sim).RegisterRoutes(e)

	return e
}
