package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// ParseAmount converts user input to a positive decimal at full precision.
// Non-numeric input is rejected rather than coerced, as are amounts outside
// MaxAmountDigits and MaxAmountScale.
func ParseAmount(s string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return decimal.Zero, &ValidationError{Field: "amount", Description: "is required"}
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, &ValidationError{
			Field:       "amount",
			Description: fmt.Sprintf("must be a number, got %q", raw),
		}
	}
	if problem := checkAmount(amount); problem != "" {
		return decimal.Zero, &ValidationError{Field: "amount", Description: problem}
	}
	return amount, nil
}

// ParseDate parses an ISO "YYYY-MM-DD" date.
func ParseDate(s string) (time.Time, error) {
	raw := strings.TrimSpace(s)
	d, err := time.Parse(model.DateFormat, raw)
	if err != nil {
		return time.Time{}, &ValidationError{
			Field:       "date",
			Description: fmt.Sprintf("must be YYYY-MM-DD, got %q", raw),
		}
	}
	return d, nil
}
