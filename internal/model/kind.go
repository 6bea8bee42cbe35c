package model

import "strings"

// Kind classifies a transaction as money coming in or going out.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Kinds lists every kind in display order.
var Kinds = []Kind{KindIncome, KindExpense}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// ParseKind accepts "income" or "expense" in any case.
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", false
	}
	return k, true
}
