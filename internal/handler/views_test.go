package handler

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/workspace-sessions/internal/model"
)

func TestWalletViewNewestFirstWithWaiver(t *testing.T) {
	at := time.Date(2026, 4, 14, 10, 0, 0, 0, time.UTC)
	txs := []model.Transaction{
		{ID: uuid.New(), Time: at, Description: "Session at Caffe Medici",
			Amount: decimal.RequireFromString("-2"), Applied: decimal.RequireFromString("-0.50")},
		{ID: uuid.New(), Time: at, Description: "Cashback reward",
			Amount: decimal.RequireFromString("0.50"), Applied: decimal.RequireFromString("0.50")},
	}
	w := walletView(decimal.RequireFromString("0.50"), txs)
	if w.BalanceDisplay != "$0.50" {
		t.Fatalf("BalanceDisplay = %q", w.BalanceDisplay)
	}
	if w.Transactions[0].Description != "Cashback reward" {
		t.Fatalf("first = %q, want newest first", w.Transactions[0].Description)
	}
	debit := w.Transactions[1]
	if debit.AmountDisplay != "-$2.00" || debit.Waived != "$1.50" {
		t.Fatalf("debit view = %+v", debit)
	}
	if w.Transactions[0].Waived != "" {
		t.Fatalf("credit waived = %q, want empty", w.Transactions[0].Waived)
	}
}

func TestVenueViewAnnotate(t *testing.T) {
	v := venueView(model.Venue{
		Name:            "Caffe Medici",
		Coordinate:      model.Coordinate{Lat: 30.2849, Lng: -97.7420},
		PricePerSession: decimal.RequireFromString("2"),
	})
	if v.DistanceMeters != nil {
		t.Fatal("distance set without a caller location")
	}
	v.annotate(model.Coordinate{Lat: 30.2849, Lng: -97.7420})
	if v.Distance != "0m" || v.PriceDisplay != "$2.00" {
		t.Fatalf("view = %+v", v)
	}
}
