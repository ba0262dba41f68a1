// Package catalog holds the venue list and its validated setters. Operator
// input is clamped into the legal range rather than rejected.
//
// A Catalog is not safe for concurrent use; the session engine owns it and
// serializes access.
package catalog

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/workspace-sessions/internal/model"
)

const (
	MinSeats          = 1
	MinSessionMinutes = 15
	// SessionStep is the increment operator controls offer for session length.
	SessionStep = 15
)

// MinPrice is the lowest price a venue may charge per session.
var MinPrice = decimal.RequireFromString("0.50")

var (
	// ErrVenueNotFound is returned for an id that is not in the catalog.
	ErrVenueNotFound = errors.New("venue not found")
	// ErrNoSeatsAvailable is returned by DebitSeat when the venue is full.
	ErrNoSeatsAvailable = errors.New("no seats available")
)

// Catalog is the mutable venue list.
type Catalog struct {
	venues []model.Venue
	seed   func() []model.Venue
}

// New returns a catalog populated from seed. seed is called again on
// every ResetToSeed so each reset starts from a fresh copy.
func New(seed func() []model.Venue) *Catalog {
	c := &Catalog{seed: seed}
	c.ResetToSeed()
	return c
}

// Replace swaps in a previously persisted venue list. Venues are
// normalized so a hand-edited snapshot cannot break the invariants.
func (c *Catalog) Replace(venues []model.Venue) {
	c.venues = make([]model.Venue, 0, len(venues))
	for _, v := range venues {
		v = v.Clone()
		normalize(&v)
		c.venues = append(c.venues, v)
	}
}

// ResetToSeed replaces the whole list with the canonical seed set. It is
// the only way venues are removed.
func (c *Catalog) ResetToSeed() {
	c.Replace(c.seed())
}

// List returns a copy of all venues in catalog order.
func (c *Catalog) List() []model.Venue {
	out := make([]model.Venue, len(c.venues))
	for i, v := range c.venues {
		out[i] = v.Clone()
	}
	return out
}

// Get returns a copy of the venue with the given id.
func (c *Catalog) Get(id uuid.UUID) (model.Venue, error) {
	i := c.index(id)
	if i < 0 {
		return model.Venue{}, ErrVenueNotFound
	}
	return c.venues[i].Clone(), nil
}

// OwnedBy returns the venues whose OwnerID matches ownerID.
func (c *Catalog) OwnedBy(ownerID string) []model.Venue {
	var out []model.Venue
	for _, v := range c.venues {
		if v.OwnerID == ownerID {
			out = append(out, v.Clone())
		}
	}
	return out
}

// SetParticipating sets whether the venue accepts check-ins.
func (c *Catalog) SetParticipating(id uuid.UUID, on bool) (model.Venue, error) {
	return c.update(id, func(v *model.Venue) { v.IsParticipating = on })
}

// ToggleParticipating flips the venue's participation flag.
func (c *Catalog) ToggleParticipating(id uuid.UUID) (model.Venue, error) {
	return c.update(id, func(v *model.Venue) { v.IsParticipating = !v.IsParticipating })
}

// SetSeatCapacity sets TotalSeats to max(n, MinSeats) and lowers
// SeatsAvailable if it now exceeds the capacity.
func (c *Catalog) SetSeatCapacity(id uuid.UUID, n int) (model.Venue, error) {
	return c.update(id, func(v *model.Venue) {
		v.TotalSeats = max(n, MinSeats)
		v.SeatsAvailable = min(v.SeatsAvailable, v.TotalSeats)
	})
}

// SetPrice sets the per-session price, clamped to at least MinPrice.
func (c *Catalog) SetPrice(id uuid.UUID, price decimal.Decimal) (model.Venue, error) {
	return c.update(id, func(v *model.Venue) {
		v.PricePerSession = decimal.Max(price, MinPrice)
	})
}

// SetSessionLength sets the length of new sessions, clamped to at least
// MinSessionMinutes. Sessions already running keep their end time.
func (c *Catalog) SetSessionLength(id uuid.UUID, minutes int) (model.Venue, error) {
	return c.update(id, func(v *model.Venue) {
		v.SessionMinutes = max(minutes, MinSessionMinutes)
	})
}

// DebitSeat takes one seat. It fails with ErrNoSeatsAvailable, leaving
// the venue untouched, when none are free.
func (c *Catalog) DebitSeat(id uuid.UUID) error {
	i := c.index(id)
	if i < 0 {
		return ErrVenueNotFound
	}
	if c.venues[i].SeatsAvailable <= 0 {
		return ErrNoSeatsAvailable
	}
	c.venues[i].SeatsAvailable--
	return nil
}

// CreditSeat releases one seat, capped at TotalSeats.
func (c *Catalog) CreditSeat(id uuid.UUID) error {
	i := c.index(id)
	if i < 0 {
		return ErrVenueNotFound
	}
	v := &c.venues[i]
	v.SeatsAvailable = min(v.SeatsAvailable+1, v.TotalSeats)
	return nil
}

func (c *Catalog) update(id uuid.UUID, fn func(*model.Venue)) (model.Venue, error) {
	i := c.index(id)
	if i < 0 {
		return model.Venue{}, ErrVenueNotFound
	}
	fn(&c.venues[i])
	return c.venues[i].Clone(), nil
}

func (c *Catalog) index(id uuid.UUID) int {
	for i := range c.venues {
		if c.venues[i].ID == id {
			return i
		}
	}
	return -1
}

func normalize(v *model.Venue) {
	v.TotalSeats = max(v.TotalSeats, MinSeats)
	v.SeatsAvailable = min(max(v.SeatsAvailable, 0), v.TotalSeats)
	v.PricePerSession = decimal.Max(v.PricePerSession, MinPrice)
	v.SessionMinutes = max(v.SessionMinutes, MinSessionMinutes)
}
