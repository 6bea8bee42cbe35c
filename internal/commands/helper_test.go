package commands

import "github.com/shopspring/decimal"

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func breakdownStrings(s *session) map[string]string {
	out := make(map[string]string)
	for name, amount := range s.ledger.ExpenseByCategoryMap() {
		out[name] = amount.String()
	}
	return out
}
