package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/model"
)

// CSVHeader is the header row written by WriteCSV.
const CSVHeader = "id,date,kind,category,description,amount"

// WriteSummary prints the income, expense and net balance lines.
func WriteSummary(w io.Writer, s Summary, f *Formatter) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "Total Income:\t%s\n", f.Format(s.Income))
	fmt.Fprintf(tw, "Total Expenses:\t%s\n", f.Format(s.Expenses))
	fmt.Fprintf(tw, "Net Balance:\t%s\n", f.Format(s.Net))
	return tw.Flush()
}

// WriteBreakdown prints expense categories with amount and share.
func WriteBreakdown(w io.Writer, slices []Slice, f *Formatter) error {
	if len(slices) == 0 {
		_, err := fmt.Fprintln(w, "No expenses to display")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, s := range slices {
		fmt.Fprintf(tw, "%s\t%s\t%s%%\n", s.Name, f.Format(s.Amount), s.Percent.StringFixed(0))
	}
	return tw.Flush()
}

// WriteTransactions prints the sequence newest first. Income amounts are
// shown with "+", expenses with "-".
func WriteTransactions(w io.Writer, txns []model.Transaction, f *Formatter) error {
	if len(txns) == 0 {
		_, err := fmt.Fprintln(w, "No transactions yet")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, t := range txns {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			id.Format(t.ID), t.DateString(), t.Category, f.Signed(t.Signed()), t.Description)
	}
	return tw.Flush()
}

// WriteCSV writes the sequence as CSV with full-precision amounts.
func WriteCSV(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(CSVHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, t := range txns {
		if err := cw.Write(MarshalTransaction(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(t model.Transaction) []string {
	return []string{
		id.Format(t.ID),
		t.DateString(),
		string(t.Kind),
		t.Category,
		t.Description,
		t.Amount.String(),
	}
}
