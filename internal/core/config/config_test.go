package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/consolestate/internal/core/notify"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_missing_file_returns_defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.Backend.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, DefaultTheme, cfg.TUI.Theme)
	assert.Equal(t, notify.DefaultErrorTTL, cfg.Notifications.Durations[notify.LevelError])
}

func TestLoad_empty_path_returns_defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Backend, cfg.Backend)
}

func TestLoad_parses_file(t *testing.T) {
	path := writeConfig(t, `
backend:
  base_url: https://gateway.example.com
  token: admin-key
  timeout: 3s
notifications:
  max_active: 4
  durations:
    error: 8s
debug:
  addr: 127.0.0.1:9090
tui:
  theme: gruvbox
  refresh_interval: 5m
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://gateway.example.com", cfg.Backend.BaseURL)
	assert.Equal(t, "admin-key", cfg.Backend.Token)
	assert.Equal(t, 3*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 4, cfg.Notifications.MaxActive)
	assert.Equal(t, 8*time.Second, cfg.Notifications.Durations[notify.LevelError])
	// unspecified levels keep their defaults
	assert.Equal(t, notify.DefaultWarningTTL, cfg.Notifications.Durations[notify.LevelWarning])
	assert.Equal(t, "127.0.0.1:9090", cfg.Debug.Addr)
	assert.Equal(t, "gruvbox", cfg.TUI.Theme)
	assert.Equal(t, 5*time.Minute, cfg.TUI.RefreshInterval)
}

func TestLoad_invalid_yaml(t *testing.T) {
	path := writeConfig(t, "backend: [")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestLoad_invalid_values(t *testing.T) {
	path := writeConfig(t, `
backend:
  base_url: ftp://example.com
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestRead_skips_validation(t *testing.T) {
	path := writeConfig(t, `
tui:
  theme: solarized
`)
	cfg, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "solarized", cfg.TUI.Theme)
	assert.Error(t, cfg.Validate())
}

func TestNotificationsConfig_QueueOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Notifications.MaxActive = 1
	cfg.Notifications.Durations[notify.LevelInfo] = time.Minute

	q := notify.NewQueue(cfg.Notifications.QueueOptions()...)
	q.Info("first")
	q.Info("second")

	items := q.List()
	require.Len(t, items, 1)
	assert.Equal(t, "second", items[0].Message)
	assert.Equal(t, time.Minute, items[0].TTL)
	q.ClearAll()
}
