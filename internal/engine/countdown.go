package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/workspace-sessions/internal/clock"
)

// countdown is the recurring tick for the current session. Each armed
// timer captures the session id and generation it was created for; a
// callback whose key no longer matches is a stale timer and does nothing.
type countdown struct {
	timer *clock.Timer
	key   uuid.UUID
	gen   uint64
}

// startCountdownLocked cancels any running countdown and arms a new one
// keyed by the current session.
func (e *Engine) startCountdownLocked() {
	e.stopCountdownLocked()
	if e.current == nil {
		return
	}
	e.countdown.key = e.current.ID
	e.armLocked(e.countdown.key, e.countdown.gen)
}

func (e *Engine) stopCountdownLocked() {
	e.countdown.gen++
	e.countdown.timer.Stop()
	e.countdown.timer = nil
	e.countdown.key = uuid.Nil
}

func (e *Engine) armLocked(key uuid.UUID, gen uint64) {
	e.countdown.timer = e.clock.AfterFunc(TickInterval, func() { e.tick(key, gen) })
}

// tick recomputes the remaining time from the absolute end timestamp, so
// a suspended process catches up on the next tick instead of drifting.
func (e *Engine) tick(key uuid.UUID, gen uint64) {
	e.mu.Lock()
	defer e.unlock()

	if gen != e.countdown.gen || e.current == nil || e.current.ID != key {
		return
	}
	now := e.clock.Now()
	remaining := e.current.Remaining(now)
	if remaining <= 0 {
		e.endLocked(now, ReasonExpired)
		return
	}
	e.armLocked(key, gen)
	s := *e.current
	e.publishLocked(Event{Kind: EventTick, At: now, Session: &s, Remaining: remaining})
}

// Remaining returns the time left on the current session, derived from
// its end timestamp. ok is false when the engine is idle.
func (e *Engine) Remaining() (remaining time.Duration, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return 0, false
	}
	return max(e.current.Remaining(e.clock.Now()), 0), true
}
