package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/workspace-sessions/internal/engine"
)

// errForbidden is returned when a merchant targets a venue they do not
// operate.
var errForbidden = errors.New("forbidden")

var errInvalidID = errors.New("invalid venue id")

// respondError maps engine precondition failures to HTTP responses. The
// body always carries a stable machine-readable code under "error".
func respondError(c echo.Context, err error) error {
	status, code := http.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(err, engine.ErrVenueNotFound):
		status, code = http.StatusNotFound, "venue_not_found"
	case errors.Is(err, engine.ErrSessionActive):
		status, code = http.StatusConflict, "session_active"
	case errors.Is(err, engine.ErrNoActiveSession):
		status, code = http.StatusConflict, "no_active_session"
	case errors.Is(err, engine.ErrNoSeatsAvailable):
		status, code = http.StatusConflict, "no_seats_available"
	case errors.Is(err, engine.ErrNotParticipating):
		status, code = http.StatusConflict, "venue_not_participating"
	case errors.Is(err, errForbidden):
		status, code = http.StatusForbidden, "forbidden"
	}
	if status == http.StatusInternalServerError {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
		return c.JSON(status, echo.Map{"error": code})
	}
	return c.JSON(status, echo.Map{"error": code, "message": err.Error()})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad_request", "message": msg})
}

func venueID(c echo.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("id"))
}
