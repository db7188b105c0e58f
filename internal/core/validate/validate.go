// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"net"
	"net/url"
	"slices"
	"time"

	"github.com/hay-kot/criterio"
)

// AbsoluteURL validates that raw is an http or https URL with a host.
func AbsoluteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}

// ListenAddr validates a host:port listen address. Empty is allowed and
// means disabled.
func ListenAddr(addr string) error {
	if addr == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("invalid listen address: %w", err)
	}
	return nil
}

// NonNegative validates that d is zero or greater.
func NonNegative(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

// OneOf returns a validator accepting only the given values.
func OneOf(values ...string) func(string) error {
	return func(v string) error {
		if !slices.Contains(values, v) {
			return fmt.Errorf("unknown value %q (available: %v)", v, values)
		}
		return nil
	}
}

// DurationField returns a criterio validator for a non-negative duration.
func DurationField(field string, d time.Duration) error {
	if err := NonNegative(d); err != nil {
		return criterio.NewFieldErrors(field, err)
	}
	return nil
}
