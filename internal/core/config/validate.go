package config

import (
	"fmt"
	"os"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/consolestate/internal/core/styles"
	"github.com/colonyops/consolestate/internal/core/validate"
)

// DefaultTheme is the name of the default TUI theme.
const DefaultTheme = styles.DefaultTheme

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("backend.base_url", c.Backend.BaseURL, validate.AbsoluteURL),
		c.validateBackend(),
		c.validateNotifications(),
		criterio.Run("debug.addr", c.Debug.Addr, validate.ListenAddr),
		criterio.Run("tui.theme", c.TUI.Theme, knownTheme),
	)
}

// ValidateDeep runs Validate and additionally checks that the config file,
// when given, is a readable file.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return validateConfigFile(configPath)
}

func (c *Config) validateBackend() error {
	return validate.DurationField("backend.timeout", c.Backend.Timeout)
}

func (c *Config) validateNotifications() error {
	var errs criterio.FieldErrorsBuilder
	if c.Notifications.MaxActive < 0 {
		errs = errs.Append("notifications.max_active", fmt.Errorf("must not be negative"))
	}
	for level, d := range c.Notifications.Durations {
		field := fmt.Sprintf("notifications.durations.%s", level)
		if !level.Valid() {
			errs = errs.Append(field, fmt.Errorf("unknown level %q", level))
			continue
		}
		if err := validate.NonNegative(d); err != nil {
			errs = errs.Append(field, err)
		}
	}
	if err := validate.NonNegative(c.TUI.RefreshInterval); err != nil {
		errs = errs.Append("tui.refresh_interval", err)
	}
	return errs.ToError()
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

func knownTheme(name string) error {
	return validate.OneOf(styles.ThemeNames()...)(name)
}
