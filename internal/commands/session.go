package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/activity"
	"github.com/cleared-dev/tally/internal/categories"
	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/report"
)

const sessionHelp = `Commands:
  add [income|expense] <amount> <category> <YYYY-MM-DD|today> <description>
  rm <id>
  list
  summary
  breakdown
  csv
  history
  categories [income|expense]
  help
  quit
Quote categories that contain spaces, e.g. "Office Supplies".
`

const addUsage = "usage: add [income|expense] <amount> <category> <YYYY-MM-DD|today> <description>"

func newSessionCommand(a *app) *cobra.Command {
	var script, replay string

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Record transactions for the lifetime of this process",
		Long: "Reads one command per line from stdin (or --script) and keeps an in-memory\n" +
			"ledger until end of input. Nothing is written to disk.\n\n" + sessionHelp,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd.ErrOrStderr()); err != nil {
				return err
			}

			in := cmd.InOrStdin()
			if script != "" {
				f, err := os.Open(script)
				if err != nil {
					return fmt.Errorf("opening script: %w", err)
				}
				defer f.Close()
				in = f
			}

			s, err := newSession(a.cfg, a.logger, cmd.OutOrStdout(), nil)
			if err != nil {
				return err
			}
			if replay != "" {
				if err := s.replayFile(replay); err != nil {
					return err
				}
			}
			return s.run(in)
		},
	}

	cmd.Flags().StringVar(&script, "script", "", "read commands from a file instead of stdin")
	cmd.Flags().StringVar(&replay, "replay", "", "rebuild the ledger from a saved history CSV before reading commands")

	return cmd
}

// session owns one ledger and renders it after every mutation.
type session struct {
	ledger      *ledger.Ledger
	journal     *activity.Journal
	vocab       categories.Vocabulary
	money       *report.Formatter
	defaultKind model.Kind
	out         io.Writer
	now         func() time.Time
	quiet       bool
}

// newSession builds a session. A nil ids uses clock-derived identifiers.
func newSession(cfg *config.Config, logger *slog.Logger, out io.Writer, ids id.Source) (*session, error) {
	money, err := report.NewFormatter(cfg.Display.Currency)
	if err != nil {
		return nil, err
	}

	vocab := categories.Default()
	opts := []ledger.Option{ledger.WithVocabulary(vocab), ledger.WithLogger(logger)}
	if ids != nil {
		opts = append(opts, ledger.WithIDSource(ids))
	}

	s := &session{
		ledger:      ledger.New(opts...),
		journal:     activity.NewJournal(nil),
		vocab:       vocab,
		money:       money,
		defaultKind: cfg.DefaultKind(),
		out:         out,
		now:         time.Now,
	}
	s.journal.Attach(s.ledger)
	s.ledger.Subscribe(s.echo)
	return s, nil
}

func (s *session) echo(ev ledger.Event) {
	if s.quiet {
		return
	}
	t := ev.Transaction
	switch ev.Op {
	case ledger.OpAppend:
		fmt.Fprintf(s.out, "added %s %s %s %s\n", id.Format(t.ID), t.Category, s.money.Signed(t.Signed()), t.Description)
	case ledger.OpRemove:
		fmt.Fprintf(s.out, "removed %s\n", id.Format(t.ID))
	}
	fmt.Fprintf(s.out, "net balance: %s\n", s.money.Format(s.ledger.NetBalance()))
}

func (s *session) replayFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer f.Close()
	return s.replay(f)
}

// replay applies a history CSV without echoing each mutation.
func (s *session) replay(r io.Reader) error {
	entries, err := activity.ReadCSV(r)
	if err != nil {
		return err
	}

	s.quiet = true
	applied, err := activity.Replay(s.ledger, entries)
	s.quiet = false
	if err != nil {
		return fmt.Errorf("replaying history: %w", err)
	}

	fmt.Fprintf(s.out, "replayed %d entries\n", applied)
	fmt.Fprintf(s.out, "net balance: %s\n", s.money.Format(s.ledger.NetBalance()))
	return nil
}

// run executes commands until quit or end of input. Command errors are
// printed and do not stop the session.
func (s *session) run(in io.Reader) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		quit, err := s.exec(sc.Text())
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading commands: %w", err)
	}
	return nil
}

func (s *session) exec(line string) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false, nil
	}

	args, err := splitArgs(line)
	if err != nil {
		return false, err
	}

	switch strings.ToLower(args[0]) {
	case "add":
		return false, s.add(args[1:])
	case "rm", "remove", "delete":
		return false, s.remove(args[1:])
	case "list":
		return false, report.WriteTransactions(s.out, s.ledger.Transactions(), s.money)
	case "summary":
		return false, report.WriteSummary(s.out, report.BuildSummary(s.ledger), s.money)
	case "breakdown":
		return false, report.WriteBreakdown(s.out, report.BuildBreakdown(s.ledger), s.money)
	case "csv":
		return false, report.WriteCSV(s.out, s.ledger.Transactions())
	case "history":
		return false, s.journal.WriteCSV(s.out)
	case "categories":
		return false, writeCategories(s.out, s.vocab, args[1:])
	case "help":
		_, err := fmt.Fprint(s.out, sessionHelp)
		return false, err
	case "quit", "exit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q (try help)", args[0])
	}
}

// add records a transaction. Without an explicit kind, the kind is taken
// from the category when it names one and from the configured default
// otherwise.
func (s *session) add(args []string) error {
	kind, explicit := s.defaultKind, false
	if len(args) > 0 {
		if k, ok := model.ParseKind(args[0]); ok {
			kind, explicit = k, true
			args = args[1:]
		}
	}
	if len(args) < 4 {
		return errors.New(addUsage)
	}
	if !explicit {
		if k, ok := s.vocab.KindOf(args[1]); ok {
			kind = k
		}
	}

	amount, err := ledger.ParseAmount(args[0])
	if err != nil {
		return err
	}

	category := args[1]
	if canonical, ok := s.vocab.Lookup(kind, category); ok {
		category = canonical
	}

	var date time.Time
	if strings.EqualFold(args[2], "today") {
		date = s.now()
	} else if date, err = ledger.ParseDate(args[2]); err != nil {
		return err
	}

	_, err = s.ledger.Append(ledger.AppendParams{
		Description: strings.Join(args[3:], " "),
		Amount:      amount,
		Kind:        kind,
		Category:    category,
		Date:        date,
	})
	return err
}

func (s *session) remove(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: rm <id>")
	}
	txnID, err := id.Parse(args[0])
	if err != nil {
		return err
	}
	if !s.ledger.Remove(txnID) {
		fmt.Fprintf(s.out, "no transaction %s\n", id.Format(txnID))
	}
	return nil
}

// splitArgs splits on whitespace, keeping double-quoted runs together.
func splitArgs(line string) ([]string, error) {
	var args []string
	var cur strings.Builder
	inArg, quoted := false, false

	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			inArg = true
		case !quoted && unicode.IsSpace(r):
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(r)
			inArg = true
		}
	}
	if quoted {
		return nil, errors.New("unterminated quote")
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}
