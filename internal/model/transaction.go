package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is an append-only wallet ledger entry.
//
// Amount is the signed amount that was requested (negative = debit).
// Applied is the signed delta that actually reached the balance; it differs
// from Amount only when a debit was larger than the balance and the balance
// floored at zero. Summing Applied over the ledger reconstructs the balance.
type Transaction struct {
	ID          uuid.UUID       `json:"id" cbor:"id"`
	Time        time.Time       `json:"time" cbor:"time"`
	Description string          `json:"description" cbor:"description"`
	Amount      decimal.Decimal `json:"amount" cbor:"amount"`
	Applied     decimal.Decimal `json:"applied" cbor:"applied"`
}

// Waived is the part of a debit that could not be taken from the balance.
func (t Transaction) Waived() decimal.Decimal {
	return t.Applied.Sub(t.Amount)
}
