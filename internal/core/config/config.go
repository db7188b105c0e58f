// Package config handles configuration loading and validation for consolestate.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/consolestate/internal/core/notify"
)

// Config holds the application configuration.
type Config struct {
	Backend       BackendConfig       `yaml:"backend"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Debug         DebugConfig         `yaml:"debug"`
	TUI           TUIConfig           `yaml:"tui"`
}

// BackendConfig configures the gateway API client.
type BackendConfig struct {
	BaseURL string        `yaml:"base_url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// NotificationsConfig configures the notification queue.
type NotificationsConfig struct {
	// MaxActive caps displayed notifications; 0 means unlimited.
	MaxActive int `yaml:"max_active"`
	// Durations overrides the default auto-dismiss delay per level.
	Durations map[notify.Level]time.Duration `yaml:"durations"`
}

// DebugConfig configures the metrics and state HTTP endpoint.
type DebugConfig struct {
	// Addr is the listen address, e.g. "127.0.0.1:9090". Empty disables it.
	Addr string `yaml:"addr"`
}

// TUIConfig configures the watch view.
type TUIConfig struct {
	Theme string `yaml:"theme"`
	// RefreshInterval re-checks the version cache while watching; 0 disables.
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Backend: BackendConfig{
			BaseURL: "http://localhost:8080",
			Timeout: 10 * time.Second,
		},
		Notifications: NotificationsConfig{
			MaxActive: 0,
			Durations: map[notify.Level]time.Duration{
				notify.LevelSuccess: notify.DefaultSuccessTTL,
				notify.LevelError:   notify.DefaultErrorTTL,
				notify.LevelInfo:    notify.DefaultInfoTTL,
				notify.LevelWarning: notify.DefaultWarningTTL,
			},
		},
		TUI: TUIConfig{
			Theme: DefaultTheme,
		},
	}
}

// Load reads configuration from the given path and validates it. If
// configPath is empty or doesn't exist, returns defaults.
func Load(configPath string) (*Config, error) {
	cfg, err := Read(configPath)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Read parses the config file and applies defaults without validating.
func Read(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = defaults.Backend.BaseURL
	}
	if c.Backend.Timeout == 0 {
		c.Backend.Timeout = defaults.Backend.Timeout
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}

	// User durations override defaults per level.
	merged := make(map[notify.Level]time.Duration, len(defaults.Notifications.Durations))
	for k, v := range defaults.Notifications.Durations {
		merged[k] = v
	}
	for k, v := range c.Notifications.Durations {
		merged[k] = v
	}
	c.Notifications.Durations = merged
}

// QueueOptions converts the notification settings into queue options.
func (n NotificationsConfig) QueueOptions() []notify.Option {
	opts := []notify.Option{notify.WithMaxActive(n.MaxActive)}
	for level, d := range n.Durations {
		opts = append(opts, notify.WithDefaultTTL(level, d))
	}
	return opts
}
