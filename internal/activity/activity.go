// Package activity keeps a running record of ledger mutations for the
// lifetime of a session.
package activity

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
)

// Entry is one recorded mutation.
type Entry struct {
	Timestamp     time.Time
	Op            ledger.Op
	TransactionID int64
	Kind          string
	Category      string
	Amount        string
	Description   string
	Date          string
}

// Header is the CSV header written by WriteCSV.
const Header = "timestamp,op,transaction_id,kind,category,amount,description,date"

const (
	numFields      = 8
	colTimestamp   = 0
	colOp          = 1
	colTxnID       = 2
	colKind        = 3
	colCategory    = 4
	colAmount      = 5
	colDescription = 6
	colDate        = 7
)

// Subscriber is implemented by *ledger.Ledger.
type Subscriber interface {
	Subscribe(ledger.Observer) func()
}

// Journal collects entries from ledger events.
type Journal struct {
	now     func() time.Time
	entries []Entry
}

// NewJournal returns an empty Journal stamping entries with now, or
// time.Now when nil.
func NewJournal(now func() time.Time) *Journal {
	if now == nil {
		now = time.Now
	}
	return &Journal{now: now}
}

// Attach subscribes the journal to src and returns the unsubscribe func.
func (j *Journal) Attach(src Subscriber) func() {
	return src.Subscribe(j.Record)
}

// Record appends an entry for ev.
func (j *Journal) Record(ev ledger.Event) {
	t := ev.Transaction
	j.entries = append(j.entries, Entry{
		Timestamp:     j.now().UTC(),
		Op:            ev.Op,
		TransactionID: t.ID,
		Kind:          string(t.Kind),
		Category:      t.Category,
		Amount:        t.Amount.String(),
		Description:   t.Description,
		Date:          t.DateString(),
	})
}

// Entries returns a copy of the recorded entries, oldest first.
func (j *Journal) Entries() []Entry {
	return slices.Clone(j.entries)
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colOp] = string(e.Op)
	row[colTxnID] = id.Format(e.TransactionID)
	row[colKind] = e.Kind
	row[colCategory] = e.Category
	row[colAmount] = e.Amount
	row[colDescription] = e.Description
	row[colDate] = e.Date
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	txnID, err := id.Parse(record[colTxnID])
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		Timestamp:     ts,
		Op:            ledger.Op(record[colOp]),
		TransactionID: txnID,
		Kind:          record[colKind],
		Category:      record[colCategory],
		Amount:        record[colAmount],
		Description:   record[colDescription],
		Date:          record[colDate],
	}, nil
}

// WriteCSV writes all entries with a header row.
func (j *Journal) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, e := range j.entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses output produced by WriteCSV.
func ReadCSV(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading activity CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Replay re-applies entries to l in order. Appended transactions receive
// fresh identifiers and later removals are mapped onto them; a removal of a
// transaction not appended by the replay is skipped. Replay stops at the
// first entry the ledger rejects and returns how many entries were applied.
func Replay(l *ledger.Ledger, entries []Entry) (int, error) {
	replayed := make(map[int64]int64)
	applied := 0

	for i, e := range entries {
		switch e.Op {
		case ledger.OpAppend:
			params, err := appendParams(e)
			if err != nil {
				return applied, fmt.Errorf("entry %d: %w", i+1, err)
			}
			txn, err := l.Append(params)
			if err != nil {
				return applied, fmt.Errorf("entry %d: %w", i+1, err)
			}
			replayed[e.TransactionID] = txn.ID
			applied++
		case ledger.OpRemove:
			if n, ok := replayed[e.TransactionID]; ok && l.Remove(n) {
				delete(replayed, e.TransactionID)
				applied++
			}
		default:
			return applied, fmt.Errorf("entry %d: unknown op %q", i+1, e.Op)
		}
	}
	return applied, nil
}

func appendParams(e Entry) (ledger.AppendParams, error) {
	amount, err := ledger.ParseAmount(e.Amount)
	if err != nil {
		return ledger.AppendParams{}, err
	}
	date, err := ledger.ParseDate(e.Date)
	if err != nil {
		return ledger.AppendParams{}, err
	}
	kind, ok := model.ParseKind(e.Kind)
	if !ok {
		return ledger.AppendParams{}, &ledger.ValidationError{
			Field:       "kind",
			Description: fmt.Sprintf("must be income or expense, got %q", e.Kind),
		}
	}
	return ledger.AppendParams{
		Description: e.Description,
		Amount:      amount,
		Kind:        kind,
		Category:    e.Category,
		Date:        date,
	}, nil
}
