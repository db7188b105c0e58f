package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/consolestate/internal/core/config"
	"github.com/colonyops/consolestate/internal/core/doctor"
)

func newBackendServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/settings/public", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"code":0,"message":"success","data":{"site_name":"Acme","version":"1.0.0"}}`))
	})
	mux.HandleFunc("/api/v1/admin/system/check-updates", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"code":0,"message":"success","data":{"current_version":"1.0.0","latest_version":"1.0.0"}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestNew_WiresConsoleToBackendAndMetrics(t *testing.T) {
	srv := newBackendServer(t)

	cfg := config.DefaultConfig()
	cfg.Backend.BaseURL = srv.URL
	cfg.Backend.Token = "admin"

	a, err := New(&cfg, clockwork.NewFakeClock())
	require.NoError(t, err)

	require.NoError(t, a.Console.Prefetch(context.Background()))

	snap := a.Console.Snapshot()
	assert.Equal(t, "Acme", snap.Settings.SiteName)
	assert.Equal(t, "1.0.0", snap.Version.CurrentVersion)

	assert.InDelta(t, 1, testutil.ToFloat64(a.Metrics.CacheReads.WithLabelValues("version", "fetched")), 0)
}

func TestNew_UsesConfiguredNotificationLimits(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Notifications.MaxActive = 1

	a, err := New(&cfg, clockwork.NewFakeClock())
	require.NoError(t, err)

	a.Console.ShowInfo("one")
	a.Console.ShowInfo("two")

	toasts := a.Console.Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, "two", toasts[0].Message)
	a.Console.ClearAllToasts()
}

func TestNew_InvalidBaseURL(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Backend.BaseURL = "not a url"

	_, err := New(&cfg, nil)
	require.Error(t, err)
}

func TestDoctorChecks(t *testing.T) {
	srv := newBackendServer(t)

	cfg := config.DefaultConfig()
	cfg.Backend.BaseURL = srv.URL
	cfg.Backend.Token = "admin"

	a, err := New(&cfg, nil)
	require.NoError(t, err)

	results := doctor.RunAll(context.Background(), a.DoctorChecks(""))
	require.Len(t, results, 2)

	passed, warned, failed := doctor.Summary(results)
	assert.Equal(t, 0, failed)
	assert.Equal(t, 1, warned) // no config path
	assert.Equal(t, 3, passed)
}
