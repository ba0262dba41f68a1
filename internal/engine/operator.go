package engine

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/workspace-sessions/internal/model"
)

// Venues returns the catalog.
func (e *Engine) Venues() []model.Venue {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.catalog.List()
}

// Venue returns one venue.
func (e *Engine) Venue(id uuid.UUID) (model.Venue, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.catalog.Get(id)
}

// VenuesOwnedBy returns the venues an operator controls.
func (e *Engine) VenuesOwnedBy(ownerID string) []model.Venue {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.catalog.OwnedBy(ownerID)
}

// SetParticipating sets whether a venue accepts check-ins.
func (e *Engine) SetParticipating(id uuid.UUID, on bool) (model.Venue, error) {
	return e.updateVenue(func() (model.Venue, error) { return e.catalog.SetParticipating(id, on) })
}

// ToggleParticipating flips whether a venue accepts check-ins.
func (e *Engine) ToggleParticipating(id uuid.UUID) (model.Venue, error) {
	return e.updateVenue(func() (model.Venue, error) { return e.catalog.ToggleParticipating(id) })
}

// SetSeatCapacity changes a venue's capacity (clamped to at least one).
func (e *Engine) SetSeatCapacity(id uuid.UUID, n int) (model.Venue, error) {
	return e.updateVenue(func() (model.Venue, error) { return e.catalog.SetSeatCapacity(id, n) })
}

// SetPrice changes a venue's per-session price (clamped to the minimum).
func (e *Engine) SetPrice(id uuid.UUID, price decimal.Decimal) (model.Venue, error) {
	return e.updateVenue(func() (model.Venue, error) { return e.catalog.SetPrice(id, price) })
}

// SetSessionLength changes the length of future sessions at a venue.
func (e *Engine) SetSessionLength(id uuid.UUID, minutes int) (model.Venue, error) {
	return e.updateVenue(func() (model.Venue, error) { return e.catalog.SetSessionLength(id, minutes) })
}

func (e *Engine) updateVenue(fn func() (model.Venue, error)) (model.Venue, error) {
	e.mu.Lock()
	defer e.unlock()

	v, err := fn()
	if err != nil {
		return model.Venue{}, err
	}
	e.saveLocked()
	e.publishLocked(Event{Kind: EventUpdated})
	return v, nil
}

// Role returns the persisted role preference.
func (e *Engine) Role() model.Role {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.role
}

// SetRole stores the role preference.
func (e *Engine) SetRole(r model.Role) {
	e.mu.Lock()
	defer e.unlock()

	e.role = r
	e.saveLocked()
	e.publishLocked(Event{Kind: EventUpdated})
}

// Current returns the active session, if any.
func (e *Engine) Current() (model.Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return model.Session{}, false
	}
	return *e.current, true
}

// History returns ended sessions, oldest first.
func (e *Engine) History() []model.Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]model.Session(nil), e.history...)
}

// Wallet returns the balance and the ledger.
func (e *Engine) Wallet() (decimal.Decimal, []model.Transaction) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.wallet.Balance(), e.wallet.Transactions()
}

// ActiveSessionsFor returns the current session if it is running at the
// venue, otherwise nothing.
func (e *Engine) ActiveSessionsFor(venueID uuid.UUID) []model.Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil || e.current.VenueID != venueID || !e.current.IsActive(e.clock.Now()) {
		return nil
	}
	return []model.Session{*e.current}
}

// TodayRevenueFor sums the price of ended sessions at the venue that
// started on the current calendar day.
func (e *Engine) TodayRevenueFor(venueID uuid.UUID) decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()

	y, m, d := e.clock.Now().In(e.loc).Date()
	total := decimal.Zero
	for _, s := range e.history {
		if s.VenueID != venueID {
			continue
		}
		sy, sm, sd := s.StartTime.In(e.loc).Date()
		if sy == y && sm == m && sd == d {
			total = total.Add(s.Price)
		}
	}
	return total
}
