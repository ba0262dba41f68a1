package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/workspace-sessions/internal/model"
)

// CheckIn starts a session at the venue. It fails without side effects if
// a session is already active, the venue is unknown or not participating,
// or no seat is free. On success the seat is taken and the price is
// settled against the wallet together with the cashback, so the balance
// moves by cashback minus price and stops at zero. Then the reminder is
// scheduled and the countdown started.
func (e *Engine) CheckIn(venueID uuid.UUID) (model.Session, error) {
	e.mu.Lock()
	defer e.unlock()

	now := e.clock.Now()
	e.expireIfDueLocked(now)
	if e.current != nil {
		return model.Session{}, ErrSessionActive
	}
	v, err := e.catalog.Get(venueID)
	if err != nil {
		return model.Session{}, err
	}
	if !v.IsParticipating {
		return model.Session{}, ErrNotParticipating
	}
	if err := e.catalog.DebitSeat(venueID); err != nil {
		return model.Session{}, err
	}

	s := model.Session{
		ID:         uuid.New(),
		VenueID:    v.ID,
		VenueName:  v.Name,
		StartTime:  now,
		EndTime:    now.Add(time.Duration(v.SessionMinutes) * time.Minute),
		Price:      v.PricePerSession,
		HolderName: e.holder,
	}
	e.current = &s

	if _, _, err := e.wallet.Settle(v.PricePerSession, "Session at "+v.Name, Cashback, "Cashback reward"); err != nil {
		e.logger.Errorf("settle session fee: %v", err)
	}
	e.scheduleReminderLocked()
	e.startCountdownLocked()
	e.saveLocked()

	seatsLeft := -1
	if after, err := e.catalog.Get(venueID); err == nil {
		seatsLeft = after.SeatsAvailable
	}
	e.logger.Infoj(log.JSON{
		"event":   "check_in",
		"session": s.ID.String(),
		"venue":   v.Name,
		"price":   s.Price.StringFixed(2),
		"ends_at": s.EndTime.Format(time.RFC3339),
		"seats":   seatsLeft,
	})
	e.publishLocked(Event{Kind: EventCheckedIn, At: now, Session: &s})
	return s, nil
}

// Extend pushes the current session's end time out by ExtensionDelta and
// debits ExtensionFee. The seat is already held, so the catalog is not
// touched.
func (e *Engine) Extend() (model.Session, error) {
	e.mu.Lock()
	defer e.unlock()

	now := e.clock.Now()
	e.expireIfDueLocked(now)
	if e.current == nil {
		return model.Session{}, ErrNoActiveSession
	}
	e.current.EndTime = e.current.EndTime.Add(ExtensionDelta)
	if _, err := e.wallet.Debit(ExtensionFee, "Session extension at "+e.current.VenueName); err != nil {
		e.logger.Errorf("debit extension fee: %v", err)
	}
	e.scheduleReminderLocked()
	e.startCountdownLocked()
	e.saveLocked()

	s := *e.current
	e.logger.Infoj(log.JSON{"event": "extend", "session": s.ID.String(), "ends_at": s.EndTime.Format(time.RFC3339)})
	e.publishLocked(Event{Kind: EventExtended, At: now, Session: &s})
	return s, nil
}

// End closes the current session now. The session is recorded with its
// true end instant, moved to history, and its seat released.
func (e *Engine) End() (model.Session, error) {
	e.mu.Lock()
	defer e.unlock()

	if e.current == nil {
		return model.Session{}, ErrNoActiveSession
	}
	return e.endLocked(e.clock.Now(), ReasonManual), nil
}

// ResetAll clears the session, history and wallet, restores the seed
// catalog and cancels timers. The role preference is kept. It always
// succeeds and is idempotent.
func (e *Engine) ResetAll() {
	e.mu.Lock()
	defer e.unlock()

	e.stopCountdownLocked()
	e.notifier.CancelAll()
	e.current = nil
	e.history = nil
	e.wallet.Reset()
	e.catalog.ResetToSeed()
	e.saveLocked()

	e.logger.Info("state reset to seed")
	e.publishLocked(Event{Kind: EventReset})
}

// endLocked is the single end transition shared by the manual, automatic
// and restore paths.
func (e *Engine) endLocked(at time.Time, reason EndReason) model.Session {
	e.stopCountdownLocked()

	s := *e.current
	s.EndTime = at
	e.history = append(e.history, s)
	if err := e.catalog.CreditSeat(s.VenueID); err != nil {
		e.logger.Warnf("release seat at %s: %v", s.VenueName, err)
	}
	e.current = nil
	e.notifier.CancelAll()
	e.saveLocked()

	e.logger.Infoj(log.JSON{
		"event":    "end",
		"session":  s.ID.String(),
		"venue":    s.VenueName,
		"reason":   string(reason),
		"duration": s.Duration().Round(time.Second).String(),
	})
	e.publishLocked(Event{Kind: EventEnded, At: at, Session: &s, Reason: reason})
	return s
}

// expireIfDueLocked ends a session whose time ran out before its next
// tick, so callers never act on a session that is already over.
func (e *Engine) expireIfDueLocked(now time.Time) {
	if e.current != nil && !e.current.IsActive(now) {
		e.endLocked(now, ReasonExpired)
	}
}

func (e *Engine) scheduleReminderLocked() {
	s := e.current
	e.notifier.CancelAll()
	e.notifier.Schedule(
		s.EndTime.Add(-ReminderLead),
		reminderTitle,
		fmt.Sprintf("Your session at %s ends in %d minutes.", s.VenueName, int(ReminderLead/time.Minute)),
	)
}
