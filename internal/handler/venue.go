package handler

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/workspace-sessions/internal/engine"
	"github.com/iliyamo/workspace-sessions/internal/model"
)

// VenueHandler serves the venue catalog to both roles.
type VenueHandler struct {
	Engine *engine.Engine
}

// List handles GET /v1/venues. With lat and lng the venues are annotated
// with their distance and sorted nearest first; participating=true drops
// venues that do not accept check-ins.
func (h *VenueHandler) List(c echo.Context) error {
	var from *model.Coordinate
	lat, lng := c.QueryParam("lat"), c.QueryParam("lng")
	if lat != "" || lng != "" {
		la, err1 := strconv.ParseFloat(lat, 64)
		ln, err2 := strconv.ParseFloat(lng, 64)
		if err1 != nil || err2 != nil || la < -90 || la > 90 || ln < -180 || ln > 180 {
			return badRequest(c, "lat and lng must be given together as valid coordinates")
		}
		from = &model.Coordinate{Lat: la, Lng: ln}
	}
	onlyParticipating := false
	if p := c.QueryParam("participating"); p != "" {
		b, err := strconv.ParseBool(p)
		if err != nil {
			return badRequest(c, "participating must be a boolean")
		}
		onlyParticipating = b
	}

	venues := h.Engine.Venues()
	out := make([]VenueView, 0, len(venues))
	for _, v := range venues {
		if onlyParticipating && !v.IsParticipating {
			continue
		}
		vv := venueView(v)
		if from != nil {
			vv.annotate(*from)
		}
		out = append(out, vv)
	}
	if from != nil {
		sort.SliceStable(out, func(i, j int) bool { return *out[i].DistanceMeters < *out[j].DistanceMeters })
	}
	return c.JSON(http.StatusOK, echo.Map{"venues": out})
}

// Get handles GET /v1/venues/:id.
func (h *VenueHandler) Get(c echo.Context) error {
	id, err := venueID(c)
	if err != nil {
		return badRequest(c, "invalid venue id")
	}
	v, err := h.Engine.Venue(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, venueView(v))
}
