package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the ISO calendar form used for transaction dates.
const DateFormat = "2006-01-02"

// Transaction is a single income or expense entry. Values are never
// mutated once created; the ledger only adds or removes whole records.
type Transaction struct {
	ID          int64
	Description string
	Amount      decimal.Decimal // always positive; Kind carries the direction
	Kind        Kind
	Category    string
	Date        time.Time
}

// DateString returns the transaction date as "YYYY-MM-DD".
func (t Transaction) DateString() string {
	return t.Date.Format(DateFormat)
}

// Signed returns the amount with expenses negated.
func (t Transaction) Signed() decimal.Decimal {
	if t.Kind == KindExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// CategoryAmount is an amount summed under one category name.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}
