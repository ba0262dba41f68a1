// Package router registers the HTTP routes of the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/workspace-sessions/internal/handler"
	"github.com/iliyamo/workspace-sessions/internal/middleware"
)

// Handlers bundles everything the API routes dispatch to.
type Handlers struct {
	Venues   *handler.VenueHandler
	Sessions *handler.SessionHandler
	Merchant *handler.MerchantHandler
	State    *handler.StateHandler
	Stream   echo.HandlerFunc // websocket endpoint; optional
}

// RegisterRoutes registers the unversioned operational routes.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAPI registers the /v1 routes. limit is applied to every /v1
// route except the websocket stream; roles gates the user and merchant
// groups.
func RegisterAPI(e *echo.Echo, h Handlers, roles middleware.RoleSource, limit echo.MiddlewareFunc) {
	if h.Stream != nil {
		e.GET("/v1/stream", h.Stream)
	}

	v1 := e.Group("/v1")
	if limit != nil {
		v1.Use(limit)
	}

	v1.GET("/state", h.State.State)
	v1.PUT("/role", h.State.SetRole)
	v1.POST("/admin/reset", h.State.Reset)

	v1.GET("/venues", h.Venues.List)
	v1.GET("/venues/:id", h.Venues.Get)

	registerUser(v1, h.Sessions, roles)
	registerMerchant(v1, h.Merchant, roles)
}
