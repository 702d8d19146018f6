package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 365, cfg.Retention.Days)
	require.Equal(t, "Rs.", cfg.UI.CurrencySymbol)
	require.Contains(t, cfg.Storage.Path, "dayledger.db")
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	content := "[retention]\ndays = 90\n\n[ui]\ncurrency_symbol = \"$\"\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))
	t.Setenv("DAYLEDGER_CONFIG", cfgPath)
	t.Setenv("DAYLEDGER_UI_CURRENCY_SYMBOL", "€")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 90, cfg.Retention.Days)
	require.Equal(t, "€", cfg.UI.CurrencySymbol)
}

func TestSaveRoundTrip(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("DAYLEDGER_CONFIG", cfgPath)

	cfg, err := Load()
	require.NoError(t, err)
	cfg.Retention.Days = 180
	require.NoError(t, Save(cfg))

	reloaded, err := Load()
	require.NoError(t, err)
	require.Equal(t, 180, reloaded.Retention.Days)
}
