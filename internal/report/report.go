// Package report turns ledger state into the figures and listings shown to
// the user.
package report

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// Source is the read side of a ledger.
type Source interface {
	TotalIncome() decimal.Decimal
	TotalExpenses() decimal.Decimal
	NetBalance() decimal.Decimal
	ExpenseByCategory() []model.CategoryAmount
	Transactions() []model.Transaction
}

// Summary holds the three headline figures.
type Summary struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Net      decimal.Decimal
}

// Slice is one category's share of total expenses.
type Slice struct {
	Name    string
	Amount  decimal.Decimal
	Percent decimal.Decimal // 0-100
}

var hundred = decimal.NewFromInt(100)

// BuildSummary reads the headline figures from src.
func BuildSummary(src Source) Summary {
	return Summary{
		Income:   src.TotalIncome(),
		Expenses: src.TotalExpenses(),
		Net:      src.NetBalance(),
	}
}

// BuildBreakdown returns expense categories with their percentage of total
// expenses, in the ledger's grouping order.
func BuildBreakdown(src Source) []Slice {
	groups := src.ExpenseByCategory()
	total := decimal.Zero
	for _, g := range groups {
		total = total.Add(g.Amount)
	}
	if total.IsZero() {
		return nil
	}

	slices := make([]Slice, len(groups))
	for i, g := range groups {
		slices[i] = Slice{
			Name:    g.Name,
			Amount:  g.Amount,
			Percent: g.Amount.Mul(hundred).Div(total),
		}
	}
	return slices
}
