// Package wallet keeps the cashback balance and its append-only audit
// trail. The balance never goes below zero: a debit larger than the
// balance records the full requested amount and floors the balance.
package wallet

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/workspace-sessions/internal/model"
)

// ErrNonPositiveAmount is returned when Credit or Debit is called with an
// amount that is zero or negative.
var ErrNonPositiveAmount = errors.New("amount must be positive")

// Ledger is not safe for concurrent use; the session engine serializes
// access to it.
type Ledger struct {
	balance      decimal.Decimal
	transactions []model.Transaction
	now          func() time.Time
}

// New returns an empty ledger stamping entries with now().
func New(now func() time.Time) *Ledger {
	return &Ledger{now: now}
}

// Restore loads a persisted ledger. The balance is clamped at zero.
func (l *Ledger) Restore(balance decimal.Decimal, transactions []model.Transaction) {
	l.balance = decimal.Max(balance, decimal.Zero)
	l.transactions = append([]model.Transaction(nil), transactions...)
}

// Credit adds amount to the balance and records it.
func (l *Ledger) Credit(amount decimal.Decimal, description string) (model.Transaction, error) {
	if !amount.IsPositive() {
		return model.Transaction{}, ErrNonPositiveAmount
	}
	l.balance = l.balance.Add(amount)
	return l.append(description, amount, amount), nil
}

// Debit subtracts amount from the balance, flooring it at zero. The
// transaction always carries the requested amount; Applied carries what
// was actually taken.
func (l *Ledger) Debit(amount decimal.Decimal, description string) (model.Transaction, error) {
	if !amount.IsPositive() {
		return model.Transaction{}, ErrNonPositiveAmount
	}
	taken := decimal.Min(amount, l.balance)
	l.balance = l.balance.Sub(taken)
	return l.append(description, amount.Neg(), taken.Neg()), nil
}

// Settle charges fee and grants reward as one step: the reward counts
// toward the fee, so the balance ends at max(balance+reward-fee, 0). The
// fee entry is recorded before the reward entry, and the Applied values of
// the pair still sum to the change in balance.
func (l *Ledger) Settle(fee decimal.Decimal, feeDesc string, reward decimal.Decimal, rewardDesc string) (debit, credit model.Transaction, err error) {
	if !fee.IsPositive() || !reward.IsPositive() {
		return model.Transaction{}, model.Transaction{}, ErrNonPositiveAmount
	}
	funds := l.balance.Add(reward)
	taken := decimal.Min(fee, funds)
	l.balance = funds.Sub(taken)
	debit = l.append(feeDesc, fee.Neg(), taken.Neg())
	credit = l.append(rewardDesc, reward, reward)
	return debit, credit, nil
}

// Reset clears the balance and the transaction list.
func (l *Ledger) Reset() {
	l.balance = decimal.Zero
	l.transactions = nil
}

// Balance returns the current balance.
func (l *Ledger) Balance() decimal.Decimal { return l.balance }

// Transactions returns a copy of the ledger in append order.
func (l *Ledger) Transactions() []model.Transaction {
	return append([]model.Transaction(nil), l.transactions...)
}

func (l *Ledger) append(description string, amount, applied decimal.Decimal) model.Transaction {
	tx := model.Transaction{
		ID:          uuid.New(),
		Time:        l.now(),
		Description: description,
		Amount:      amount,
		Applied:     applied,
	}
	l.transactions = append(l.transactions, tx)
	return tx
}

// Reconcile sums Applied over the ledger. It equals Balance for any
// ledger built through Credit and Debit.
func Reconcile(transactions []model.Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range transactions {
		sum = sum.Add(tx.Applied)
	}
	return sum
}
