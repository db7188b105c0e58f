// Package app wires the console and its collaborators from configuration.
package app

import (
	"fmt"

	"github.com/jonboulle/clockwork"

	"github.com/colonyops/consolestate/internal/backend"
	"github.com/colonyops/consolestate/internal/console"
	"github.com/colonyops/consolestate/internal/core/config"
	"github.com/colonyops/consolestate/internal/core/doctor"
	"github.com/colonyops/consolestate/internal/core/logging"
	"github.com/colonyops/consolestate/internal/core/notify"
	"github.com/colonyops/consolestate/internal/metrics"
)

// App is the central entry point for all consolestate operations.
// Commands and the TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Config  *config.Config
	Backend *backend.Client
	Console *console.Console
	Metrics *metrics.Metrics
	Clock   clockwork.Clock
}

// New constructs an App from cfg. The global logger must be configured
// before calling New; component loggers derive from it.
func New(cfg *config.Config, clock clockwork.Clock) (*App, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	client, err := backend.New(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Token:   cfg.Backend.Token,
		Timeout: cfg.Backend.Timeout,
	}, logging.Component("backend"))
	if err != nil {
		return nil, fmt.Errorf("create backend client: %w", err)
	}

	m := metrics.New()

	queueOpts := append(cfg.Notifications.QueueOptions(), notify.WithClock(clock))
	queue := notify.NewQueue(queueOpts...)

	c := console.New(client,
		console.WithQueue(queue),
		console.WithLogger(logging.Component("console")),
		console.WithRecorder(m),
	)

	return &App{
		Config:  cfg,
		Backend: client,
		Console: c,
		Metrics: m,
		Clock:   clock,
	}, nil
}

// DoctorChecks returns the health checks for this App.
func (a *App) DoctorChecks(configPath string) []doctor.Check {
	return []doctor.Check{
		doctor.NewConfigCheck(a.Config, configPath),
		doctor.NewBackendCheck(a.Backend, a.Config.Backend.Token != ""),
	}
}
