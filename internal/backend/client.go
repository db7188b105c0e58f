// Package backend is the HTTP client for the gateway endpoints the console
// caches: public settings and the admin update check.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/consolestate/internal/core/settings"
	"github.com/colonyops/consolestate/internal/core/version"
)

const (
	publicSettingsPath = "/api/v1/settings/public"
	checkUpdatesPath   = "/api/v1/admin/system/check-updates"
	userAgent          = "consolestate"
)

// ErrUnauthorized is returned when the backend rejects the admin token.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a failure reported inside the response envelope or by a
// non-2xx status.
type APIError struct {
	Status  int
	Code    int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend error: status %d code %d", e.Status, e.Code)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden {
		return ErrUnauthorized
	}
	return nil
}

// envelope is the standard response wrapper.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Config configures a Client.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client calls the backend. It issues exactly one request per call.
type Client struct {
	baseURL *url.URL
	token   string
	http    *http.Client
	log     zerolog.Logger
}

// New creates a client for cfg.BaseURL.
func New(cfg Config, logger zerolog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("parse base url: %q is not absolute", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: base,
		token:   cfg.Token,
		http:    &http.Client{Timeout: timeout},
		log:     logger,
	}, nil
}

// FetchSettings returns the public settings.
func (c *Client) FetchSettings(ctx context.Context) (settings.Public, error) {
	var out settings.Public
	if err := c.get(ctx, publicSettingsPath, nil, false, &out); err != nil {
		return settings.Public{}, fmt.Errorf("fetch public settings: %w", err)
	}
	return out, nil
}

// FetchVersionInfo returns the update status. force asks the backend to
// bypass its own release cache.
func (c *Client) FetchVersionInfo(ctx context.Context, force bool) (version.Info, error) {
	var query url.Values
	if force {
		query = url.Values{"force": []string{"true"}}
	}

	var out version.Info
	if err := c.get(ctx, checkUpdatesPath, query, true, &out); err != nil {
		return version.Info{}, fmt.Errorf("fetch version info: %w", err)
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, auth bool, dest any) error {
	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if auth && c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Debug().Err(err).Str("path", path).Msg("close response body")
		}
	}()

	c.log.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("backend request")

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s body: %w", path, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(body, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if decodeErr == nil {
			apiErr.Code = env.Code
			apiErr.Message = env.Message
		}
		return apiErr
	}
	if decodeErr != nil {
		return fmt.Errorf("decode %s envelope: %w", path, decodeErr)
	}
	if env.Code != 0 {
		return &APIError{Status: resp.StatusCode, Code: env.Code, Message: env.Message}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return fmt.Errorf("decode %s: missing data", path)
	}

	if err := json.Unmarshal(env.Data, dest); err != nil {
		return fmt.Errorf("decode %s data: %w", path, err)
	}
	return nil
}
