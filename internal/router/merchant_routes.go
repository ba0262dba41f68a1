package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/workspace-sessions/internal/handler"
	"github.com/iliyamo/workspace-sessions/internal/middleware"
	"github.com/iliyamo/workspace-sessions/internal/model"
)

// registerMerchant wires the operator routes under /v1/merchant.
func registerMerchant(g *echo.Group, h *handler.MerchantHandler, roles middleware.RoleSource) {
	m := g.Group("/merchant", middleware.RequireRole(roles, model.RoleMerchant))

	m.GET("/venue", h.MyVenue)
	m.GET("/venues/:id", h.Dashboard)
	m.PUT("/venues/:id/participating", h.SetParticipating)
	m.POST("/venues/:id/participating/toggle", h.ToggleParticipating)
	m.PUT("/venues/:id/seats", h.SetSeats)
	m.PUT("/venues/:id/price", h.SetPrice)
	m.PUT("/venues/:id/duration", h.SetDuration)
}
