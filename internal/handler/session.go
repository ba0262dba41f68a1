package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/workspace-sessions/internal/engine"
)

// SessionHandler exposes the holder's side of the session lifecycle.
type SessionHandler struct {
	Engine *engine.Engine
}

// CheckIn handles POST /v1/venues/:id/check-in.
func (h *SessionHandler) CheckIn(c echo.Context) error {
	id, err := venueID(c)
	if err != nil {
		return badRequest(c, "invalid venue id")
	}
	s, err := h.Engine.CheckIn(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, liveSessionView(s, s.Duration()))
}

// Current handles GET /v1/session. An idle engine answers 200 with a
// null session so clients can poll without treating it as an error.
func (h *SessionHandler) Current(c echo.Context) error {
	s, ok := h.Engine.Current()
	if !ok {
		return c.JSON(http.StatusOK, echo.Map{"session": nil})
	}
	remaining, _ := h.Engine.Remaining()
	return c.JSON(http.StatusOK, echo.Map{"session": liveSessionView(s, remaining)})
}

// Extend handles POST /v1/session/extend.
func (h *SessionHandler) Extend(c echo.Context) error {
	s, err := h.Engine.Extend()
	if err != nil {
		return respondError(c, err)
	}
	remaining, _ := h.Engine.Remaining()
	return c.JSON(http.StatusOK, liveSessionView(s, remaining))
}

// End handles POST /v1/session/end.
func (h *SessionHandler) End(c echo.Context) error {
	s, err := h.Engine.End()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sessionView(s))
}

// History handles GET /v1/history, newest first.
func (h *SessionHandler) History(c echo.Context) error {
	history := h.Engine.History()
	out := make([]SessionView, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		out = append(out, sessionView(history[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"sessions": out})
}

// Wallet handles GET /v1/wallet.
func (h *SessionHandler) Wallet(c echo.Context) error {
	return c.JSON(http.StatusOK, walletView(h.Engine.Wallet()))
}
