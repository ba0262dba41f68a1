package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/workspace-sessions/internal/model"
	"github.com/iliyamo/workspace-sessions/internal/utils"
)

// VenueView is a venue annotated for display. Distance is only set when
// the caller sent a location.
type VenueView struct {
	model.Venue
	PriceDisplay   string   `json:"price_display"`
	DistanceMeters *float64 `json:"distance_meters,omitempty"`
	Distance       string   `json:"distance,omitempty"`
}

func venueView(v model.Venue) VenueView {
	return VenueView{Venue: v, PriceDisplay: utils.FormatMoney(v.PricePerSession)}
}

func (v *VenueView) annotate(from model.Coordinate) {
	m := utils.DistanceMeters(from, v.Coordinate)
	v.DistanceMeters = &m
	v.Distance = utils.FormatDistance(m)
}

// SessionView is a session with its countdown rendered.
type SessionView struct {
	model.Session
	PriceDisplay     string `json:"price_display"`
	Duration         string `json:"duration"`
	Remaining        string `json:"remaining,omitempty"`
	RemainingSeconds int64  `json:"remaining_seconds,omitempty"`
}

func sessionView(s model.Session) SessionView {
	return SessionView{
		Session:      s,
		PriceDisplay: utils.FormatMoney(s.Price),
		Duration:     utils.FormatCountdown(s.Duration()),
	}
}

func liveSessionView(s model.Session, remaining time.Duration) SessionView {
	sv := sessionView(s)
	sv.Remaining = utils.FormatCountdown(remaining)
	sv.RemainingSeconds = int64(remaining / time.Second)
	return sv
}

// TransactionView is a ledger entry with its amount rendered.
type TransactionView struct {
	model.Transaction
	AmountDisplay string `json:"amount_display"`
	Waived        string `json:"waived,omitempty"`
}

func transactionView(t model.Transaction) TransactionView {
	tv := TransactionView{Transaction: t, AmountDisplay: utils.FormatMoney(t.Amount)}
	if w := t.Waived(); w.IsPositive() {
		tv.Waived = utils.FormatMoney(w)
	}
	return tv
}

// WalletView is the balance and ledger, newest entry first.
type WalletView struct {
	Balance        decimal.Decimal   `json:"balance"`
	BalanceDisplay string            `json:"balance_display"`
	Transactions   []TransactionView `json:"transactions"`
}

func walletView(balance decimal.Decimal, txs []model.Transaction) WalletView {
	out := WalletView{
		Balance:        balance,
		BalanceDisplay: utils.FormatMoney(balance),
		Transactions:   make([]TransactionView, 0, len(txs)),
	}
	for i := len(txs) - 1; i >= 0; i-- {
		out.Transactions = append(out.Transactions, transactionView(txs[i]))
	}
	return out
}
