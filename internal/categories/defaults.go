package categories

import "github.com/cleared-dev/tally/internal/model"

// Default returns the built-in freelancer vocabulary.
func Default() Vocabulary {
	return Vocabulary{
		model.KindIncome: {
			"Client Payment",
			"Project Fee",
			"Consultation",
			"Other Income",
		},
		model.KindExpense: {
			"Software/Tools",
			"Equipment",
			"Marketing",
			"Travel",
			"Office Supplies",
			"Professional Development",
			"Other Expense",
		},
	}
}
