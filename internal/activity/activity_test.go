package activity

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
)

var testTime = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func newLedger() *ledger.Ledger {
	return ledger.New(ledger.WithIDSource(id.NewSequence(1)))
}

func travel(amount string) ledger.AppendParams {
	return ledger.AppendParams{
		Description: "Train to client site",
		Amount:      decimal.RequireFromString(amount),
		Kind:        model.KindExpense,
		Category:    "Travel",
		Date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestJournal_RecordsMutations(t *testing.T) {
	l := newLedger()
	j := NewJournal(func() time.Time { return testTime })
	j.Attach(l)

	txn, err := l.Append(travel("42.50"))
	require.NoError(t, err)
	l.Remove(txn.ID)

	entries := j.Entries()
	require.Len(t, entries, 2)

	assert.Equal(t, ledger.OpAppend, entries[0].Op)
	assert.Equal(t, txn.ID, entries[0].TransactionID)
	assert.Equal(t, "expense", entries[0].Kind)
	assert.Equal(t, "Travel", entries[0].Category)
	assert.Equal(t, "42.5", entries[0].Amount)
	assert.Equal(t, "2024-01-15", entries[0].Date)
	assert.Equal(t, testTime, entries[0].Timestamp)

	assert.Equal(t, ledger.OpRemove, entries[1].Op)
	assert.Equal(t, txn.ID, entries[1].TransactionID)
}

func TestJournal_IgnoresRejectedAndNoOps(t *testing.T) {
	l := newLedger()
	j := NewJournal(nil)
	j.Attach(l)

	_, err := l.Append(ledger.AppendParams{Kind: model.KindExpense})
	require.Error(t, err)
	l.Remove(99)

	assert.Empty(t, j.Entries())
}

func TestJournal_Detach(t *testing.T) {
	l := newLedger()
	j := NewJournal(nil)
	detach := j.Attach(l)

	_, err := l.Append(travel("1"))
	require.NoError(t, err)
	detach()
	_, err = l.Append(travel("2"))
	require.NoError(t, err)

	assert.Len(t, j.Entries(), 1)
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	l := newLedger()
	j := NewJournal(func() time.Time { return testTime })
	j.Attach(l)

	p := travel("19.99")
	p.Description = "Taxi, airport"
	_, err := l.Append(p)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, j.WriteCSV(&buf))
	assert.True(t, strings.HasPrefix(buf.String(), Header+"\n"))

	got, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, j.Entries(), got)
}

func TestReadCSV_Empty(t *testing.T) {
	entries, err := ReadCSV(strings.NewReader(Header + "\n"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUnmarshalEntry_Errors(t *testing.T) {
	_, err := UnmarshalEntry([]string{"too", "few"})
	assert.Error(t, err)

	_, err = UnmarshalEntry([]string{"yesterday", "append", "TX-1", "expense", "Travel", "1", "x", "2024-01-15"})
	assert.Error(t, err)

	_, err = UnmarshalEntry([]string{testTime.Format(time.RFC3339), "append", "TX-x", "expense", "Travel", "1", "x", "2024-01-15"})
	assert.Error(t, err)
}

func TestReplay_RebuildsLedger(t *testing.T) {
	src := newLedger()
	j := NewJournal(func() time.Time { return testTime })
	j.Attach(src)

	taxi, err := src.Append(travel("20"))
	require.NoError(t, err)
	_, err = src.Append(ledger.AppendParams{
		Description: "Retainer",
		Amount:      decimal.RequireFromString("500"),
		Kind:        model.KindIncome,
		Category:    "Client Payment",
		Date:        time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = src.Append(travel("7.25"))
	require.NoError(t, err)
	src.Remove(taxi.ID)

	var buf bytes.Buffer
	require.NoError(t, j.WriteCSV(&buf))
	entries, err := ReadCSV(&buf)
	require.NoError(t, err)

	dst := ledger.New(ledger.WithIDSource(id.NewSequence(100)))
	applied, err := Replay(dst, entries)
	require.NoError(t, err)
	assert.Equal(t, 4, applied)

	require.Equal(t, src.Len(), dst.Len())
	assert.True(t, src.NetBalance().Equal(dst.NetBalance()))
	for i, txn := range dst.Transactions() {
		want := src.Transactions()[i]
		assert.Equal(t, want.Category, txn.Category)
		assert.Equal(t, want.Date, txn.Date)
		assert.True(t, want.Amount.Equal(txn.Amount))
	}
}

func TestReplay_SkipsUnknownRemoval(t *testing.T) {
	l := newLedger()
	applied, err := Replay(l, []Entry{{Op: ledger.OpRemove, TransactionID: 5}})
	require.NoError(t, err)
	assert.Equal(t, 0, applied)
}

func TestReplay_StopsAtRejectedEntry(t *testing.T) {
	l := newLedger()
	entries := []Entry{
		{Op: ledger.OpAppend, TransactionID: 1, Kind: "expense", Category: "Travel", Amount: "5", Description: "Bus", Date: "2024-01-01"},
		{Op: ledger.OpAppend, TransactionID: 2, Kind: "expense", Category: "Travel", Amount: "1e20", Description: "Jet", Date: "2024-01-01"},
		{Op: ledger.OpAppend, TransactionID: 3, Kind: "expense", Category: "Travel", Amount: "5", Description: "Bus", Date: "2024-01-02"},
	}

	applied, err := Replay(l, entries)
	require.ErrorIs(t, err, ledger.ErrValidation)
	assert.Contains(t, err.Error(), "entry 2")
	assert.Equal(t, 1, applied)
	assert.Equal(t, 1, l.Len())

	_, err = Replay(newLedger(), []Entry{{Op: "rename"}})
	assert.Error(t, err)
}
