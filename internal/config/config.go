package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Storage   StorageConfig
	Retention RetentionConfig
	UI        UIConfig
}

// StorageConfig holds sqlite settings.
type StorageConfig struct {
	Path           string
	MigrationsPath string `mapstructure:"migrations_path"`
}

// RetentionConfig holds the expiry window.
type RetentionConfig struct {
	Days int
}

// UIConfig holds presentation settings.
type UIConfig struct {
	CurrencySymbol string `mapstructure:"currency_symbol"`
	ExportDir      string `mapstructure:"export_dir"`
}

// Load reads configuration from file and env. Env var overrides use prefix DAYLEDGER_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("storage.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "dayledger", "dayledger.db"))
	v.SetDefault("storage.migrations_path", "internal/store/migrations")
	v.SetDefault("retention.days", 365)
	v.SetDefault("ui.currency_symbol", "Rs.")
	v.SetDefault("ui.export_dir", filepath.Join(os.Getenv("HOME"), "dayledger-reports"))

	v.SetConfigType("toml")

	cfgPath := os.Getenv("DAYLEDGER_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "dayledger"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("DAYLEDGER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if
// needed. Used by the TUI settings flow for non-sensitive preferences.
func Save(cfg Config) error {
	path := os.Getenv("DAYLEDGER_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "dayledger", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("storage.path", cfg.Storage.Path)
	v.Set("storage.migrations_path", cfg.Storage.MigrationsPath)
	v.Set("retention.days", cfg.Retention.Days)
	v.Set("ui.currency_symbol", cfg.UI.CurrencySymbol)
	v.Set("ui.export_dir", cfg.UI.ExportDir)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
