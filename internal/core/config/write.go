package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/consolestate/internal/core/notify"
)

// file mirrors Config with durations written in their string form.
type file struct {
	Backend struct {
		BaseURL string `yaml:"base_url"`
		Token   string `yaml:"token,omitempty"`
		Timeout string `yaml:"timeout"`
	} `yaml:"backend"`
	Notifications struct {
		MaxActive int                     `yaml:"max_active"`
		Durations map[notify.Level]string `yaml:"durations"`
	} `yaml:"notifications"`
	Debug struct {
		Addr string `yaml:"addr,omitempty"`
	} `yaml:"debug,omitempty"`
	TUI struct {
		Theme           string `yaml:"theme"`
		RefreshInterval string `yaml:"refresh_interval,omitempty"`
	} `yaml:"tui"`
}

// Marshal encodes the config as YAML that Read accepts.
func (c *Config) Marshal() ([]byte, error) {
	var f file
	f.Backend.BaseURL = c.Backend.BaseURL
	f.Backend.Token = c.Backend.Token
	f.Backend.Timeout = c.Backend.Timeout.String()
	f.Notifications.MaxActive = c.Notifications.MaxActive
	f.Notifications.Durations = make(map[notify.Level]string, len(c.Notifications.Durations))
	for level, d := range c.Notifications.Durations {
		f.Notifications.Durations[level] = d.String()
	}
	f.Debug.Addr = c.Debug.Addr
	f.TUI.Theme = c.TUI.Theme
	if c.TUI.RefreshInterval > 0 {
		f.TUI.RefreshInterval = c.TUI.RefreshInterval.String()
	}

	return yaml.Marshal(f)
}

// Write encodes the config to path, creating parent directories. The file
// is written with owner-only permissions since it may hold the admin token.
func Write(path string, cfg *Config) error {
	data, err := cfg.Marshal()
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Exists reports whether a config file exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Backup copies the file at path to path+".bak", replacing any earlier
// backup. It returns an empty string when there is nothing to back up.
func Backup(path string) (string, error) {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read existing config: %w", err)
	}

	backupPath := path + ".bak"
	if err := os.WriteFile(backupPath, content, 0o600); err != nil {
		return "", fmt.Errorf("create backup: %w", err)
	}
	return backupPath, nil
}
