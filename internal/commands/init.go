package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/report"
)

func newInitCommand() *cobra.Command {
	var currency string
	var kind string
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default tally.yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			path, err := runInit(absDir, currency, kind, force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&currency, "currency", "USD", "ISO 4217 currency code for display")
	cmd.Flags().StringVar(&kind, "default-kind", string(model.KindExpense), "kind assumed when add omits it")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing tally.yaml")

	return cmd
}

func runInit(dir, currency, kind string, force bool) (string, error) {
	if _, err := report.NewFormatter(currency); err != nil {
		return "", err
	}

	cfg := config.Default()
	cfg.Display.Currency = currency
	cfg.Defaults.Kind = kind
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, config.DefaultPath)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("checking %s: %w", path, err)
		}
	}

	if err := config.Save(path, cfg); err != nil {
		return "", err
	}
	return path, nil
}
