package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/workspace-sessions/internal/handler"
	"github.com/iliyamo/workspace-sessions/internal/middleware"
	"github.com/iliyamo/workspace-sessions/internal/model"
)

// registerUser wires the seat holder's routes. They answer 403 unless
// the user role is selected.
func registerUser(g *echo.Group, h *handler.SessionHandler, roles middleware.RoleSource) {
	user := middleware.RequireRole(roles, model.RoleUser)

	g.POST("/venues/:id/check-in", h.CheckIn, user)
	g.GET("/session", h.Current, user)
	g.POST("/session/extend", h.Extend, user)
	g.POST("/session/end", h.End, user)
	g.GET("/history", h.History, user)
	g.GET("/wallet", h.Wallet, user)
}
