// Package notify schedules the single "session ending soon" reminder and
// hands it to a delivery sink when it comes due.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/workspace-sessions/internal/clock"
)

// Reminder is a due notification.
type Reminder struct {
	At    time.Time `json:"at"`
	Title string    `json:"title"`
	Body  string    `json:"body"`
}

// Sink delivers a reminder out of band (console, message broker, ...).
type Sink interface {
	Deliver(ctx context.Context, r Reminder) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, r Reminder) error

func (f SinkFunc) Deliver(ctx context.Context, r Reminder) error { return f(ctx, r) }

// Scheduler keeps at most one pending reminder. Schedule replaces any
// pending reminder; a trigger time that has already passed is dropped.
type Scheduler struct {
	clock   clock.Clock
	sink    Sink
	timeout time.Duration
	logger  *log.Logger

	mu      sync.Mutex
	timer   *clock.Timer
	pending *Reminder
	gen     uint64
}

// NewScheduler returns a Scheduler delivering to sink.
func NewScheduler(c clock.Clock, sink Sink) *Scheduler {
	return &Scheduler{
		clock:   c,
		sink:    sink,
		timeout: 5 * time.Second,
		logger:  log.New("notify"),
	}
}

// Schedule cancels any pending reminder and arms a new one for at.
func (s *Scheduler) Schedule(at time.Time, title, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()
	d := at.Sub(s.clock.Now())
	if d <= 0 {
		s.logger.Debugf("reminder %q at %s already passed; dropped", title, at.Format(time.RFC3339))
		return
	}
	r := Reminder{At: at, Title: title, Body: body}
	gen := s.gen
	s.pending = &r
	s.timer = s.clock.AfterFunc(d, func() { s.fire(gen) })
}

// CancelAll drops the pending reminder, if any.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

// Pending returns the reminder that is armed, if any.
func (s *Scheduler) Pending() (Reminder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return Reminder{}, false
	}
	return *s.pending, true
}

func (s *Scheduler) cancelLocked() {
	s.gen++
	s.timer.Stop()
	s.timer = nil
	s.pending = nil
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.pending == nil {
		s.mu.Unlock()
		return
	}
	r := *s.pending
	s.pending = nil
	s.timer = nil
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.sink.Deliver(ctx, r); err != nil {
		s.logger.Warnf("deliver reminder %q: %v", r.Title, err)
	}
}

// LogSink writes reminders to the application log.
type LogSink struct {
	Logger *log.Logger
}

// Deliver logs r.
func (l LogSink) Deliver(_ context.Context, r Reminder) error {
	logger := l.Logger
	if logger == nil {
		logger = log.New("reminder")
	}
	logger.Infoj(log.JSON{"event": "reminder", "title": r.Title, "body": r.Body, "at": r.At.Format(time.RFC3339)})
	return nil
}
