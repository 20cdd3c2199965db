package tui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the TUI settings.
type Config struct {
	// ServerURL is the base URL of the task tracker API.
	ServerURL string `mapstructure:"server_url" yaml:"server_url"`

	// WindowSize is how many tasks the list view holds.
	WindowSize int `mapstructure:"window_size" yaml:"window_size"`
}

// DefaultConfigPath returns the default path for the configuration
// file, located at ~/.config/tasktracker/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "tasktracker", "config.yaml")
}

func defaultConfig() *Config {
	return &Config{
		ServerURL:  "http://localhost:3000",
		WindowSize: 10,
	}
}

// LoadConfig reads configuration from the given YAML file path using
// Viper. TASKTUI_SERVER_URL and TASKTUI_WINDOW_SIZE override file
// values; a missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("server_url", "http://localhost:3000")
	v.SetDefault("window_size", 10)

	v.SetEnvPrefix("TASKTUI")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			cfg := defaultConfig()
			applyEnvOverrides(v, cfg)
			return cfg, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			cfg := defaultConfig()
			applyEnvOverrides(v, cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.WindowSize < 1 {
		cfg.WindowSize = 10
	}
	return cfg, nil
}

// applyEnvOverrides fills a config from environment variables when no
// file was read. AutomaticEnv only resolves through v.Get, so the
// unmarshal path above misses env-only values.
func applyEnvOverrides(v *viper.Viper, cfg *Config) {
	if s := v.GetString("server_url"); s != "" {
		cfg.ServerURL = s
	}
	if n := v.GetInt("window_size"); n > 0 {
		cfg.WindowSize = n
	}
}
