package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// AppConfig is the top-level configuration for the announcement client.
type AppConfig struct {
	// URLTemplate is where the announcement JSON lives. Recognized
	// placeholders: __VERSION__ (application version) and __LANGUAGE__
	// (preferred language tag), e.g.
	// https://example.com/news.php?version=__VERSION__&language=__LANGUAGE__
	URLTemplate string `mapstructure:"url_template" yaml:"url_template"`

	// ShowOnFirstLaunch controls whether an announcement may be shown
	// on the very first run of this installation. When false, the first
	// run makes no network call at all.
	ShowOnFirstLaunch bool `mapstructure:"show_on_first_launch" yaml:"show_on_first_launch"`

	// Version is the application version substituted for __VERSION__.
	Version string `mapstructure:"version" yaml:"version"`

	// Language overrides the language tag substituted for __LANGUAGE__.
	// Empty means "use the host environment's locale".
	Language string `mapstructure:"language" yaml:"language"`

	// DataDir is where the local state database lives.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`

	// HTTPTimeoutSec bounds the announcement fetch.
	HTTPTimeoutSec int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/announce/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "announce", "config.yaml")
}

// DefaultDataDir returns the default directory for local state,
// located at ~/.local/share/announce.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "announce")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		ShowOnFirstLaunch: true,
		DataDir:           DefaultDataDir(),
		HTTPTimeoutSec:    30,
		LogLevel:          "info",
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("show_on_first_launch", true)
	v.SetDefault("data_dir", DefaultDataDir())
	v.SetDefault("http_timeout_sec", 30)
	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.HTTPTimeoutSec <= 0 {
		cfg.HTTPTimeoutSec = 30
	}

	return cfg, nil
}
