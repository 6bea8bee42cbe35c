package report

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Formatter renders amounts in a currency. Rounding happens here and only
// here; ledger values keep their full precision.
type Formatter struct {
	cur *money.Currency
}

// NewFormatter returns a Formatter for an ISO 4217 code such as "USD".
func NewFormatter(code string) (*Formatter, error) {
	cur := money.GetCurrency(strings.ToUpper(strings.TrimSpace(code)))
	if cur == nil {
		return nil, fmt.Errorf("unknown currency %q", code)
	}
	return &Formatter{cur: cur}, nil
}

// Currency returns the ISO code.
func (f *Formatter) Currency() string {
	return f.cur.Code
}

// Format renders amount, e.g. "$1,234.50" or "-$250.00". Amounts whose
// minor units overflow int64 are written plainly, e.g. "USD 100000000000000000000.00".
func (f *Formatter) Format(amount decimal.Decimal) string {
	frac := int32(f.cur.Fraction)
	minor := amount.Round(frac).Shift(frac).BigInt()
	if !minor.IsInt64() {
		return f.Currency() + " " + amount.StringFixed(frac)
	}
	return f.cur.Formatter().Format(minor.Int64())
}

// Signed renders amount with an explicit sign, "+" for positive values.
func (f *Formatter) Signed(amount decimal.Decimal) string {
	if amount.IsPositive() {
		return "+" + f.Format(amount)
	}
	return f.Format(amount)
}
