package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/categories"
)

// ErrValidation matches every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError describes one rejected input field.
type ValidationError struct {
	Field       string
	Description string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Description)
}

// Is lets callers test for ErrValidation without knowing the field.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ValidationErrors collects every field rejected by a single append.
type ValidationErrors []*ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Unwrap exposes the individual field errors to errors.As and errors.Is.
func (errs ValidationErrors) Unwrap() []error {
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return out
}

// Amounts are bounded so every total stays representable in minor currency
// units and no input forces an unbounded rescale.
const (
	MaxAmountDigits = 12
	MaxAmountScale  = 12
)

// checkAmount describes what is wrong with amount, or returns "" when it is
// acceptable. The exponent is inspected before any arithmetic.
func checkAmount(amount decimal.Decimal) string {
	if !amount.IsPositive() {
		return "must be a positive number"
	}
	exp := int64(amount.Exponent())
	if exp < -MaxAmountScale {
		return fmt.Sprintf("must have at most %d decimal places", MaxAmountScale)
	}
	if int64(amount.NumDigits())+exp > MaxAmountDigits {
		return fmt.Sprintf("must be less than 10^%d", MaxAmountDigits)
	}
	return ""
}

// Validate checks append parameters against the vocabulary. A nil
// vocabulary only requires a non-empty category.
func Validate(p AppendParams, vocab categories.Vocabulary) ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(p.Description) == "" {
		errs = append(errs, &ValidationError{Field: "description", Description: "must not be empty"})
	}

	if problem := checkAmount(p.Amount); problem != "" {
		errs = append(errs, &ValidationError{Field: "amount", Description: problem})
	}

	kindOK := p.Kind.Valid()
	if !kindOK {
		errs = append(errs, &ValidationError{
			Field:       "kind",
			Description: fmt.Sprintf("must be income or expense, got %q", p.Kind),
		})
	}

	category := strings.TrimSpace(p.Category)
	switch {
	case category == "":
		errs = append(errs, &ValidationError{Field: "category", Description: "must not be empty"})
	case kindOK && vocab != nil && !vocab.Allowed(p.Kind, category):
		errs = append(errs, &ValidationError{
			Field:       "category",
			Description: fmt.Sprintf("%q is not a valid %s category", category, p.Kind),
		})
	}

	if p.Date.IsZero() {
		errs = append(errs, &ValidationError{Field: "date", Description: "must be set"})
	}

	return errs
}
