package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/tally/internal/model"
)

// DefaultPath is the config file read when --config is not given.
const DefaultPath = "tally.yaml"

// Config represents the top-level tally.yaml configuration.
type Config struct {
	Display  DisplayConfig  `yaml:"display"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Log      LogConfig      `yaml:"log"`
}

// DisplayConfig controls how amounts are rendered.
type DisplayConfig struct {
	Currency string `yaml:"currency"` // ISO 4217, e.g. "USD"
}

// DefaultsConfig holds values assumed when input omits them.
type DefaultsConfig struct {
	Kind string `yaml:"kind"` // "income" or "expense"
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Load reads a tally.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except a missing file yields Default().
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Display:  DisplayConfig{Currency: "USD"},
		Defaults: DefaultsConfig{Kind: string(model.KindExpense)},
		Log:      LogConfig{Level: "info", Format: "text"},
	}
}

// ApplyEnv overrides fields from TALLY_* environment variables.
func (c *Config) ApplyEnv() {
	if v, ok := os.LookupEnv("TALLY_CURRENCY"); ok && v != "" {
		c.Display.Currency = v
	}
	if v, ok := os.LookupEnv("TALLY_DEFAULT_KIND"); ok && v != "" {
		c.Defaults.Kind = v
	}
	if v, ok := os.LookupEnv("TALLY_LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := os.LookupEnv("TALLY_LOG_FORMAT"); ok && v != "" {
		c.Log.Format = v
	}
}

// Validate reports every invalid field in one error.
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.Display.Currency) == "" {
		errs = append(errs, "display.currency must not be empty")
	}
	if _, ok := model.ParseKind(c.Defaults.Kind); !ok {
		errs = append(errs, fmt.Sprintf("defaults.kind %q must be income or expense", c.Defaults.Kind))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err.Error())
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("log.format %q must be text or json", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// DefaultKind returns Defaults.Kind as a model.Kind, falling back to expense.
func (c *Config) DefaultKind() model.Kind {
	if k, ok := model.ParseKind(c.Defaults.Kind); ok {
		return k
	}
	return model.KindExpense
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level %q is not a valid level", l.Level)
	}
	return lvl, nil
}
