package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/consolestate/internal/app"
	"github.com/colonyops/consolestate/internal/core/logging"
	"github.com/colonyops/consolestate/internal/debugserver"
	"github.com/colonyops/consolestate/internal/tui"
)

type WatchCmd struct {
	flags     *Flags
	app       *app.App
	debugAddr string
	refresh   time.Duration
}

func NewWatchCmd(flags *Flags, app *app.App) *WatchCmd {
	return &WatchCmd{flags: flags, app: app}
}

func (cmd *WatchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "watch",
		Usage:     "Open a live view of the console state",
		UsageText: "consolestate watch [options]",
		Description: `Loads the public settings and version info and keeps them on screen with
the sidebar, loading indicator, and notifications.

Without --log-file, log output is held until the view closes.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "debug-addr",
				Usage:       "serve /metrics, /debug/state and pprof on this address (overrides config)",
				Sources:     cli.EnvVars("CONSOLESTATE_DEBUG_ADDR"),
				Destination: &cmd.debugAddr,
			},
			&cli.DurationFlag{
				Name:        "refresh",
				Usage:       "re-read the caches on this interval (overrides config, 0 disables)",
				Destination: &cmd.refresh,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *WatchCmd) run(ctx context.Context, c *cli.Command) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return cli.Exit("watch requires a terminal", 1)
	}

	cfg := cmd.app.Config

	addr := cmd.debugAddr
	if addr == "" {
		addr = cfg.Debug.Addr
	}
	if addr != "" {
		srv := debugserver.New(addr, cmd.app.Metrics.Registry, func() any {
			return cmd.app.Console.Snapshot()
		}, logging.ComponentCtx(ctx, "debugserver"))
		if err := srv.Start(ctx); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("debug server shutdown")
			}
		}()
	}

	refresh := cfg.TUI.RefreshInterval
	if c.IsSet("refresh") {
		refresh = cmd.refresh
	}

	m := tui.New(ctx, tui.Options{
		Console:         cmd.app.Console,
		Clock:           cmd.app.Clock,
		RefreshInterval: refresh,
		Logger:          logging.ComponentCtx(ctx, "tui"),
	})
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run tui: %w", err)
	}

	cmd.app.Console.Reset()
	return nil
}
