package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/workspace-sessions/internal/catalog"
	"github.com/iliyamo/workspace-sessions/internal/engine"
	"github.com/iliyamo/workspace-sessions/internal/model"
	"github.com/iliyamo/workspace-sessions/internal/utils"
)

// MerchantHandler is the operator surface. OwnerID selects the venues the
// operator may see and change; any other venue answers 403.
type MerchantHandler struct {
	Engine  *engine.Engine
	OwnerID string
}

// DashboardView is the operator's live view of one venue.
type DashboardView struct {
	Venue          VenueView       `json:"venue"`
	ActiveSessions []SessionView   `json:"active_sessions"`
	SeatsInUse     int             `json:"seats_in_use"`
	TodayRevenue   decimal.Decimal `json:"today_revenue"`
	TodayDisplay   string          `json:"today_revenue_display"`
	DurationStep   int             `json:"duration_step_minutes"`
}

// MyVenue handles GET /v1/merchant/venue: the first venue this operator
// owns.
func (h *MerchantHandler) MyVenue(c echo.Context) error {
	owned := h.Engine.VenuesOwnedBy(h.OwnerID)
	if len(owned) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "venue_not_found", "message": "no venue for this operator"})
	}
	return c.JSON(http.StatusOK, h.dashboard(owned[0]))
}

// Dashboard handles GET /v1/merchant/venues/:id.
func (h *MerchantHandler) Dashboard(c echo.Context) error {
	v, err := h.ownedVenue(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, h.dashboard(v))
}

func (h *MerchantHandler) dashboard(v model.Venue) DashboardView {
	active := h.Engine.ActiveSessionsFor(v.ID)
	remaining, _ := h.Engine.Remaining()
	views := make([]SessionView, 0, len(active))
	for _, s := range active {
		views = append(views, liveSessionView(s, remaining))
	}
	revenue := h.Engine.TodayRevenueFor(v.ID)
	return DashboardView{
		Venue:          venueView(v),
		ActiveSessions: views,
		SeatsInUse:     v.TotalSeats - v.SeatsAvailable,
		TodayRevenue:   revenue,
		TodayDisplay:   utils.FormatMoney(revenue),
		DurationStep:   catalog.SessionStep,
	}
}

type participatingRequest struct {
	Participating *bool `json:"participating"`
}

// SetParticipating handles PUT /v1/merchant/venues/:id/participating.
func (h *MerchantHandler) SetParticipating(c echo.Context) error {
	v, err := h.ownedVenue(c)
	if err != nil {
		return h.fail(c, err)
	}
	var req participatingRequest
	if err := c.Bind(&req); err != nil || req.Participating == nil {
		return badRequest(c, "participating is required")
	}
	return h.respond(c)(h.Engine.SetParticipating(v.ID, *req.Participating))
}

// ToggleParticipating handles POST /v1/merchant/venues/:id/participating/toggle.
func (h *MerchantHandler) ToggleParticipating(c echo.Context) error {
	v, err := h.ownedVenue(c)
	if err != nil {
		return h.fail(c, err)
	}
	return h.respond(c)(h.Engine.ToggleParticipating(v.ID))
}

type seatsRequest struct {
	TotalSeats *int `json:"total_seats"`
}

// SetSeats handles PUT /v1/merchant/venues/:id/seats. Values below one
// are clamped.
func (h *MerchantHandler) SetSeats(c echo.Context) error {
	v, err := h.ownedVenue(c)
	if err != nil {
		return h.fail(c, err)
	}
	var req seatsRequest
	if err := c.Bind(&req); err != nil || req.TotalSeats == nil {
		return badRequest(c, "total_seats is required")
	}
	return h.respond(c)(h.Engine.SetSeatCapacity(v.ID, *req.TotalSeats))
}

type priceRequest struct {
	Price *decimal.Decimal `json:"price"`
}

// SetPrice handles PUT /v1/merchant/venues/:id/price. Prices below the
// minimum are clamped.
func (h *MerchantHandler) SetPrice(c echo.Context) error {
	v, err := h.ownedVenue(c)
	if err != nil {
		return h.fail(c, err)
	}
	var req priceRequest
	if err := c.Bind(&req); err != nil || req.Price == nil {
		return badRequest(c, "price is required")
	}
	return h.respond(c)(h.Engine.SetPrice(v.ID, *req.Price))
}

type durationRequest struct {
	Minutes *int `json:"minutes"`
}

// SetDuration handles PUT /v1/merchant/venues/:id/duration. Lengths are
// clamped to at least 15 minutes.
func (h *MerchantHandler) SetDuration(c echo.Context) error {
	v, err := h.ownedVenue(c)
	if err != nil {
		return h.fail(c, err)
	}
	var req durationRequest
	if err := c.Bind(&req); err != nil || req.Minutes == nil {
		return badRequest(c, "minutes is required")
	}
	return h.respond(c)(h.Engine.SetSessionLength(v.ID, *req.Minutes))
}

func (h *MerchantHandler) ownedVenue(c echo.Context) (model.Venue, error) {
	id, err := venueID(c)
	if err != nil {
		return model.Venue{}, errInvalidID
	}
	v, err := h.Engine.Venue(id)
	if err != nil {
		return model.Venue{}, err
	}
	if v.OwnerID != h.OwnerID {
		return model.Venue{}, errForbidden
	}
	return v, nil
}

func (h *MerchantHandler) fail(c echo.Context, err error) error {
	if err == errInvalidID {
		return badRequest(c, "invalid venue id")
	}
	return respondError(c, err)
}

func (h *MerchantHandler) respond(c echo.Context) func(model.Venue, error) error {
	return func(v model.Venue, err error) error {
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, venueView(v))
	}
}
