package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Session is one time-boxed seat hold at a venue. EndTime moves forward on
// extension and is overwritten with the real termination instant when the
// session ends; a session in history is never modified again.
type Session struct {
	ID         uuid.UUID       `json:"id" cbor:"id"`
	VenueID    uuid.UUID       `json:"venue_id" cbor:"venue_id"`
	VenueName  string          `json:"venue_name" cbor:"venue_name"` // kept for display after the venue changes
	StartTime  time.Time       `json:"start_time" cbor:"start_time"`
	EndTime    time.Time       `json:"end_time" cbor:"end_time"`
	Price      decimal.Decimal `json:"price" cbor:"price"`
	HolderName string          `json:"holder_name" cbor:"holder_name"`
}

// Remaining returns EndTime - now. It is negative once the session is over.
func (s Session) Remaining(now time.Time) time.Duration {
	return s.EndTime.Sub(now)
}

// IsActive reports whether any time remains at now.
func (s Session) IsActive(now time.Time) bool {
	return s.Remaining(now) > 0
}

// Duration is the length of the hold from start to end.
func (s Session) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}
