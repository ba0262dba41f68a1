package engine

import (
	"time"

	"github.com/iliyamo/workspace-sessions/internal/model"
)

// EventKind names what happened in an Event.
type EventKind string

const (
	EventCheckedIn EventKind = "checked_in"
	EventExtended  EventKind = "extended"
	EventEnded     EventKind = "ended"
	EventReset     EventKind = "reset"
	EventUpdated   EventKind = "updated" // catalog or role change
	EventTick      EventKind = "tick"
)

// EndReason tells a manual end from an automatic one.
type EndReason string

const (
	ReasonManual   EndReason = "manual"
	ReasonExpired  EndReason = "expired"
	ReasonRestored EndReason = "restored" // expired while the process was down
)

// Event is published to listeners after the engine lock is released.
// State is set for every kind except EventTick.
type Event struct {
	Kind      EventKind       `json:"kind"`
	At        time.Time       `json:"at"`
	Session   *model.Session  `json:"session,omitempty"`
	Reason    EndReason       `json:"reason,omitempty"`
	Remaining time.Duration   `json:"remaining_ns,omitempty"`
	State     *model.AppState `json:"state,omitempty"`
}

// Listener receives engine events. It must not block for long and must
// not call back into a mutating engine method synchronously.
type Listener func(Event)

// Subscribe registers l and returns a function that removes it.
func (e *Engine) Subscribe(l Listener) (unsubscribe func()) {
	e.lmu.Lock()
	defer e.lmu.Unlock()
	id := e.nextListener
	e.nextListener++
	e.listeners = append(e.listeners, listenerEntry{id: id, fn: l})
	return func() {
		e.lmu.Lock()
		defer e.lmu.Unlock()
		for i, entry := range e.listeners {
			if entry.id == id {
				e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
				return
			}
		}
	}
}

type listenerEntry struct {
	id int
	fn Listener
}

func (e *Engine) publishLocked(ev Event) {
	if ev.At.IsZero() {
		ev.At = e.clock.Now()
	}
	if ev.Kind != EventTick {
		st := e.stateLocked()
		ev.State = &st
	}
	e.outbox = append(e.outbox, ev)
}

// unlock releases the engine lock and then delivers queued events.
func (e *Engine) unlock() {
	events := e.outbox
	e.outbox = nil
	e.mu.Unlock()
	if len(events) == 0 {
		return
	}

	e.lmu.Lock()
	listeners := make([]Listener, 0, len(e.listeners))
	for _, entry := range e.listeners {
		listeners = append(listeners, entry.fn)
	}
	e.lmu.Unlock()

	for _, ev := range events {
		for _, l := range listeners {
			l(ev)
		}
	}
}
