// Package utils holds the display helpers the API uses to annotate
// responses: countdown strings, walking distances and money.
package utils

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/workspace-sessions/internal/model"
)

const earthRadiusMeters = 6371000.0

// FormatCountdown renders d as H:MM:SS when at least an hour is left and
// MM:SS otherwise. Negative durations render as 00:00.
func FormatCountdown(d time.Duration) string {
	t := int(max(d, 0) / time.Second)
	h, m, s := t/3600, (t%3600)/60, t%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// DistanceMeters is the great-circle distance between two coordinates.
func DistanceMeters(a, b model.Coordinate) float64 {
	lat1, lat2 := radians(a.Lat), radians(b.Lat)
	dLat := lat2 - lat1
	dLng := radians(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// FormatDistance renders whole meters below a kilometer ("350m") and one
// decimal of kilometers above ("1.2 km").
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%dm", int(meters))
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}

// FormatMoney renders an amount in dollars with two decimals. Negative
// amounts keep their sign in front of the symbol.
func FormatMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}
