// Package queue defines the session messages exchanged over RabbitMQ and
// the background consumer that appends them to the session log.
package queue

// Queue names. Both are durable and fed through the default exchange.
const (
	ReminderQueue = "session.reminder"
	EndedQueue    = "session.ended"
)

// SessionReminderEvent is published when the "session ending soon"
// reminder comes due.
type SessionReminderEvent struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	DueAt string `json:"due_at"`
}

// SessionEndedEvent is published after a session leaves the engine,
// whether the holder ended it, the countdown expired it, or it was found
// expired at startup.
type SessionEndedEvent struct {
	SessionID       string `json:"session_id"`
	VenueID         string `json:"venue_id"`
	VenueName       string `json:"venue_name"`
	HolderName      string `json:"holder_name"`
	StartedAt       string `json:"started_at"`
	EndedAt         string `json:"ended_at"`
	DurationSeconds int64  `json:"duration_seconds"`
	Price           string `json:"price"`
	Reason          string `json:"reason"`
}
