package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/buildinfo"
	"github.com/cleared-dev/tally/internal/config"
)

// app carries settings shared by subcommands.
type app struct {
	configPath string
	envFile    string
	cfg        *config.Config
	logger     *slog.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "tally",
		Short:   "Track freelance income and expenses",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultPath, "config file")
	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before TALLY_* overrides")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newSessionCommand(a))
	rootCmd.AddCommand(newCategoriesCommand())

	return rootCmd
}

// load reads config, applies environment overrides and builds the logger.
func (a *app) load(stderr io.Writer) error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", a.envFile, err)
		}
	}

	cfg, err := config.LoadOrDefault(a.configPath)
	if err != nil {
		return err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := cfg.Log.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(cfg.Log.Format, "json") {
		handler = slog.NewJSONHandler(stderr, opts)
	} else {
		handler = slog.NewTextHandler(stderr, opts)
	}

	a.cfg = cfg
	a.logger = slog.New(handler)
	return nil
}
