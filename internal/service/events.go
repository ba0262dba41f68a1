package service

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/workspace-sessions/internal/engine"
	"github.com/iliyamo/workspace-sessions/internal/notify"
	"github.com/iliyamo/workspace-sessions/internal/queue"
	"github.com/iliyamo/workspace-sessions/internal/utils"
)

const publishTimeout = 5 * time.Second

// ReminderSink publishes due reminders to the session.reminder queue.
func ReminderSink(pub JSONPublisher) notify.Sink {
	return notify.SinkFunc(func(ctx context.Context, r notify.Reminder) error {
		return pub.PublishJSON(ctx, queue.ReminderQueue, queue.SessionReminderEvent{
			Title: r.Title,
			Body:  r.Body,
			DueAt: r.At.UTC().Format(time.RFC3339),
		})
	})
}

// EndedForwarder publishes ended sessions. Engine listeners run on the
// caller's goroutine, so Listener only enqueues; Run does the publishing.
// When the buffer is full the event is dropped and logged.
type EndedForwarder struct {
	pub    JSONPublisher
	events chan queue.SessionEndedEvent
	logger *log.Logger
}

// NewEndedForwarder returns a forwarder buffering up to size events.
func NewEndedForwarder(pub JSONPublisher, size int) *EndedForwarder {
	return &EndedForwarder{
		pub:    pub,
		events: make(chan queue.SessionEndedEvent, size),
		logger: log.New("events"),
	}
}

// Listener is registered with Engine.Subscribe.
func (f *EndedForwarder) Listener(ev engine.Event) {
	msg, ok := EndedMessage(ev)
	if !ok {
		return
	}
	select {
	case f.events <- msg:
	default:
		f.logger.Warnf("event buffer full; dropping ended session %s", msg.SessionID)
	}
}

// Run publishes queued events until ctx is cancelled.
func (f *EndedForwarder) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-f.events:
			pctx, cancel := context.WithTimeout(ctx, publishTimeout)
			if err := f.pub.PublishJSON(pctx, queue.EndedQueue, msg); err != nil {
				f.logger.Errorf("publish ended session %s: %v", msg.SessionID, err)
			}
			cancel()
		}
	}
}

// EndedMessage converts an engine ended event into its wire form.
func EndedMessage(ev engine.Event) (queue.SessionEndedEvent, bool) {
	if ev.Kind != engine.EventEnded || ev.Session == nil {
		return queue.SessionEndedEvent{}, false
	}
	s := ev.Session
	return queue.SessionEndedEvent{
		SessionID:       s.ID.String(),
		VenueID:         s.VenueID.String(),
		VenueName:       s.VenueName,
		HolderName:      s.HolderName,
		StartedAt:       s.StartTime.UTC().Format(time.RFC3339),
		EndedAt:         s.EndTime.UTC().Format(time.RFC3339),
		DurationSeconds: int64(s.Duration() / time.Second),
		Price:           utils.FormatMoney(s.Price),
		Reason:          string(ev.Reason),
	}, true
}
