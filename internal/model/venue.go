package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Coordinate is a WGS84 latitude/longitude pair used only for display.
type Coordinate struct {
	Lat float64 `json:"lat" cbor:"lat"`
	Lng float64 `json:"lng" cbor:"lng"`
}

// Venue is a location that offers bookable workspace seats. Seat inventory,
// price and session length are mutated by operator controls and by the
// session engine when a seat is taken or released.
//
// Fields:
//  ID              – opaque identifier, stable across restarts.
//  TotalSeats      – capacity; at least 1.
//  SeatsAvailable  – free seats; 0 <= SeatsAvailable <= TotalSeats.
//  PricePerSession – flat fee per session; at least 0.50.
//  SessionMinutes  – length of a new session; at least 15.
//  IsParticipating – whether the venue accepts check-ins.
//  OwnerID         – operator that controls the venue.
type Venue struct {
	ID              uuid.UUID       `json:"id" cbor:"id"`
	Name            string          `json:"name" cbor:"name"`
	Neighborhood    string          `json:"neighborhood" cbor:"neighborhood"`
	Description     string          `json:"description" cbor:"description"`
	Coordinate      Coordinate      `json:"coordinate" cbor:"coordinate"`
	Category        string          `json:"category" cbor:"category"` // pin icon / category tag
	Tags            []string        `json:"tags" cbor:"tags"`
	TotalSeats      int             `json:"total_seats" cbor:"total_seats"`
	SeatsAvailable  int             `json:"seats_available" cbor:"seats_available"`
	PricePerSession decimal.Decimal `json:"price_per_session" cbor:"price_per_session"`
	SessionMinutes  int             `json:"session_minutes" cbor:"session_minutes"`
	IsParticipating bool            `json:"is_participating" cbor:"is_participating"`
	OwnerID         string          `json:"owner_id" cbor:"owner_id"`
}

// Clone returns a copy that shares no slices with v.
func (v Venue) Clone() Venue {
	out := v
	if v.Tags != nil {
		out.Tags = append([]string(nil), v.Tags...)
	}
	return out
}
