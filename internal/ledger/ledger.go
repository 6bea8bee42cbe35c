// Package ledger holds an in-memory, newest-first sequence of income and
// expense transactions and derives totals from it on demand.
package ledger

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/categories"
	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/model"
)

const maxIDAttempts = 1000

// ErrIDExhausted is returned by Append when the identifier source only
// yields identifiers that are already in use.
var ErrIDExhausted = errors.New("no unused transaction id")

// Op names a ledger mutation.
type Op string

const (
	OpAppend Op = "append"
	OpRemove Op = "remove"
)

// Event is delivered to observers after a successful mutation.
type Event struct {
	Op          Op
	Transaction model.Transaction
}

// Observer is called synchronously after each successful mutation.
type Observer func(Event)

// AppendParams holds the fields of a new transaction.
type AppendParams struct {
	Description string
	Amount      decimal.Decimal
	Kind        model.Kind
	Category    string
	Date        time.Time
}

// Ledger is not safe for concurrent use.
type Ledger struct {
	txns      []model.Transaction
	ids       id.Source
	vocab     categories.Vocabulary
	logger    *slog.Logger
	observers []subscription
	nextSub   int
}

type subscription struct {
	id int
	fn Observer
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithIDSource overrides the default clock-derived identifiers.
func WithIDSource(src id.Source) Option {
	return func(l *Ledger) { l.ids = src }
}

// WithVocabulary overrides the default category vocabulary. A nil
// vocabulary accepts any non-empty category.
func WithVocabulary(v categories.Vocabulary) Option {
	return func(l *Ledger) { l.vocab = v }
}

// WithLogger sets the logger used for mutation and rejection records.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// New creates an empty Ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		ids:    id.NewClock(nil),
		vocab:  categories.Default(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With("component", "ledger")
	return l
}

// Append validates params, assigns a fresh identifier and inserts the new
// transaction at the front. On error the ledger is left unchanged.
func (l *Ledger) Append(params AppendParams) (model.Transaction, error) {
	params.Description = strings.TrimSpace(params.Description)
	params.Category = strings.TrimSpace(params.Category)

	if errs := Validate(params, l.vocab); len(errs) > 0 {
		l.logger.Info("rejected transaction", "error", errs.Error())
		return model.Transaction{}, errs
	}

	txnID, err := l.freshID()
	if err != nil {
		return model.Transaction{}, err
	}

	txn := model.Transaction{
		ID:          txnID,
		Description: params.Description,
		Amount:      params.Amount,
		Kind:        params.Kind,
		Category:    params.Category,
		Date:        calendarDate(params.Date),
	}

	l.txns = slices.Insert(l.txns, 0, txn)
	l.logger.Debug("appended transaction",
		"id", id.Format(txn.ID),
		"kind", txn.Kind,
		"category", txn.Category,
		"amount", txn.Amount.String(),
	)
	l.notify(Event{Op: OpAppend, Transaction: txn})
	return txn, nil
}

// Remove deletes the transaction with the given identifier and reports
// whether one was found. Removing an unknown identifier is a no-op.
func (l *Ledger) Remove(txnID int64) bool {
	i := l.index(txnID)
	if i < 0 {
		return false
	}

	removed := l.txns[i]
	l.txns = slices.Delete(l.txns, i, i+1)
	l.logger.Debug("removed transaction", "id", id.Format(txnID))
	l.notify(Event{Op: OpRemove, Transaction: removed})
	return true
}

// Get returns the transaction with the given identifier.
func (l *Ledger) Get(txnID int64) (model.Transaction, bool) {
	i := l.index(txnID)
	if i < 0 {
		return model.Transaction{}, false
	}
	return l.txns[i], true
}

// Transactions returns a copy of the sequence, newest first.
func (l *Ledger) Transactions() []model.Transaction {
	return slices.Clone(l.txns)
}

// Len returns the number of transactions.
func (l *Ledger) Len() int {
	return len(l.txns)
}

// TotalByKind sums the amounts of every transaction of kind.
func (l *Ledger) TotalByKind(kind model.Kind) decimal.Decimal {
	total := decimal.Zero
	for _, t := range l.txns {
		if t.Kind == kind {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// TotalIncome is TotalByKind(model.KindIncome).
func (l *Ledger) TotalIncome() decimal.Decimal {
	return l.TotalByKind(model.KindIncome)
}

// TotalExpenses is TotalByKind(model.KindExpense).
func (l *Ledger) TotalExpenses() decimal.Decimal {
	return l.TotalByKind(model.KindExpense)
}

// NetBalance returns total income minus total expenses.
func (l *Ledger) NetBalance() decimal.Decimal {
	return l.TotalIncome().Sub(l.TotalExpenses())
}

// ExpenseByCategory groups expenses by category. Groups appear in the order
// their category is first met walking the sequence (newest first).
func (l *Ledger) ExpenseByCategory() []model.CategoryAmount {
	var out []model.CategoryAmount
	pos := make(map[string]int)
	for _, t := range l.txns {
		if t.Kind != model.KindExpense {
			continue
		}
		i, seen := pos[t.Category]
		if !seen {
			pos[t.Category] = len(out)
			out = append(out, model.CategoryAmount{Name: t.Category, Amount: t.Amount})
			continue
		}
		out[i].Amount = out[i].Amount.Add(t.Amount)
	}
	return out
}

// ExpenseByCategoryMap is ExpenseByCategory keyed by category name.
func (l *Ledger) ExpenseByCategoryMap() map[string]decimal.Decimal {
	groups := l.ExpenseByCategory()
	out := make(map[string]decimal.Decimal, len(groups))
	for _, g := range groups {
		out[g.Name] = g.Amount
	}
	return out
}

// Subscribe registers fn for mutation events and returns a function that
// unregisters it.
func (l *Ledger) Subscribe(fn Observer) func() {
	l.nextSub++
	subID := l.nextSub
	l.observers = append(l.observers, subscription{id: subID, fn: fn})
	return func() {
		l.observers = slices.DeleteFunc(l.observers, func(s subscription) bool {
			return s.id == subID
		})
	}
}

func (l *Ledger) notify(ev Event) {
	// Observers may unsubscribe while being notified.
	for _, s := range slices.Clone(l.observers) {
		s.fn(ev)
	}
}

func (l *Ledger) index(txnID int64) int {
	return slices.IndexFunc(l.txns, func(t model.Transaction) bool {
		return t.ID == txnID
	})
}

// freshID skips identifiers already present, which only happens with an
// injected source that restarts or repeats. A source that keeps repeating
// used identifiers gives up after maxIDAttempts.
func (l *Ledger) freshID() (int64, error) {
	for i := 0; i < maxIDAttempts; i++ {
		n := l.ids.Next()
		if l.index(n) < 0 {
			return n, nil
		}
	}
	return 0, fmt.Errorf("%w after %d attempts", ErrIDExhausted, maxIDAttempts)
}

func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
