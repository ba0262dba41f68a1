package utils

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/workspace-sessions/internal/model"
)

func TestFormatCountdown(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{90 * time.Minute, "1:30:00"},
		{time.Hour + 5*time.Second, "1:00:05"},
		{59*time.Minute + 59*time.Second, "59:59"},
		{9*time.Minute + 3*time.Second + 900*time.Millisecond, "09:03"},
		{0, "00:00"},
		{-time.Minute, "00:00"},
	}
	for _, tc := range cases {
		if got := FormatCountdown(tc.in); got != tc.want {
			t.Errorf("FormatCountdown(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatDistance(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{350.7, "350m"},
		{999.9, "999m"},
		{1000, "1.0 km"},
		{1234, "1.2 km"},
	}
	for _, tc := range cases {
		if got := FormatDistance(tc.in); got != tc.want {
			t.Errorf("FormatDistance(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDistanceMeters(t *testing.T) {
	a := model.Coordinate{Lat: 30.2672, Lng: -97.7431}
	if d := DistanceMeters(a, a); d != 0 {
		t.Fatalf("DistanceMeters(a, a) = %v, want 0", d)
	}
	// One degree of latitude is about 111.2 km.
	b := model.Coordinate{Lat: 31.2672, Lng: -97.7431}
	if d := DistanceMeters(a, b); math.Abs(d-111195) > 100 {
		t.Fatalf("DistanceMeters one degree = %v, want ~111195", d)
	}
}

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"2":      "$2.00",
		"0.5":    "$0.50",
		"-1":     "-$1.00",
		"12.345": "$12.35",
	}
	for in, want := range cases {
		if got := FormatMoney(decimal.RequireFromString(in)); got != want {
			t.Errorf("FormatMoney(%s) = %q, want %q", in, got, want)
		}
	}
}
