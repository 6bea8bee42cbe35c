package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/model"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Display.Currency = "EUR"
	cfg.Defaults.Kind = "income"
	cfg.Log.Format = "json"

	path := filepath.Join(t.TempDir(), "tally.yaml")
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "USD", cfg.Display.Currency)
	assert.Equal(t, "expense", cfg.Defaults.Kind)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadOrDefault_Missing(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tally.yaml")
	require.NoError(t, os.WriteFile(path, []byte("display:\n  currency: GBP\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "GBP", cfg.Display.Currency)
	assert.Equal(t, "expense", cfg.Defaults.Kind)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tally.yaml")
	require.NoError(t, os.WriteFile(path, []byte("display: [unterminated\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tally.yaml")
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "currency: USD")
	assert.Contains(t, contents, "kind: expense")
	assert.Contains(t, contents, "level: info")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("TALLY_CURRENCY", "JPY")
	t.Setenv("TALLY_DEFAULT_KIND", "income")
	t.Setenv("TALLY_LOG_LEVEL", "debug")
	t.Setenv("TALLY_LOG_FORMAT", "json")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, "JPY", cfg.Display.Currency)
	assert.Equal(t, model.KindIncome, cfg.DefaultKind())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestApplyEnv_EmptyValuesIgnored(t *testing.T) {
	t.Setenv("TALLY_CURRENCY", "")

	cfg := Default()
	cfg.ApplyEnv()
	assert.Equal(t, "USD", cfg.Display.Currency)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Display.Currency = " "
	cfg.Defaults.Kind = "transfer"
	cfg.Log.Level = "loud"
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"display.currency", "defaults.kind", "log.level", "log.format"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestSlogLevel(t *testing.T) {
	lvl, err := LogConfig{Level: "debug"}.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	lvl, err = LogConfig{Level: "WARN"}.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)
}

func TestDefaultKind_Fallback(t *testing.T) {
	cfg := Default()
	cfg.Defaults.Kind = "bogus"
	assert.Equal(t, model.KindExpense, cfg.DefaultKind())
}
