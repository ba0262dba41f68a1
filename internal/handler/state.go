package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/workspace-sessions/internal/engine"
	"github.com/iliyamo/workspace-sessions/internal/model"
)

// StateHandler serves the whole aggregate, the role preference and the
// reset control.
type StateHandler struct {
	Engine *engine.Engine
}

// State handles GET /v1/state.
func (h *StateHandler) State(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Engine.State())
}

type roleRequest struct {
	Role string `json:"role"`
}

// SetRole handles PUT /v1/role.
func (h *StateHandler) SetRole(c echo.Context) error {
	var req roleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	role, err := model.ParseRole(req.Role)
	if err != nil {
		return badRequest(c, err.Error())
	}
	h.Engine.SetRole(role)
	return c.JSON(http.StatusOK, echo.Map{"role": role, "display_name": role.DisplayName()})
}

// Reset handles POST /v1/admin/reset. It always succeeds.
func (h *StateHandler) Reset(c echo.Context) error {
	h.Engine.ResetAll()
	return c.JSON(http.StatusOK, h.Engine.State())
}
