package engine

import (
	"errors"

	"github.com/iliyamo/workspace-sessions/internal/catalog"
)

// Precondition failures. Every engine operation reports exactly one of
// these (or nil) so callers can tell "nothing happened because X" apart
// from success.
var (
	ErrSessionActive    = errors.New("a session is already active")
	ErrNoActiveSession  = errors.New("no active session")
	ErrNotParticipating = errors.New("venue is not accepting check-ins")
	ErrVenueNotFound    = catalog.ErrVenueNotFound
	ErrNoSeatsAvailable = catalog.ErrNoSeatsAvailable
)
