package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/consolestate/internal/app"
	"github.com/colonyops/consolestate/internal/commands"
	"github.com/colonyops/consolestate/internal/core/config"
	"github.com/colonyops/consolestate/internal/core/logging"
	"github.com/colonyops/consolestate/internal/core/styles"
	"github.com/colonyops/consolestate/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		logCloser func()
		deferred  *logutils.DeferredWriter
	)

	flags := &commands.Flags{}
	consoleApp := &app.App{}

	root := &cli.Command{
		Name:      "consolestate",
		Usage:     "Inspect and watch the admin console state of a gateway",
		UsageText: "consolestate [global options] command [command options]",
		Description: `consolestate keeps the client-side state of the admin console: the sidebar,
the loading indicator, transient notifications, and cached copies of the
public settings and version info read from the backend.

Run 'consolestate watch' for a live view.
Run 'consolestate doctor' to check the configuration and backend.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("CONSOLESTATE_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to stderr)",
				Sources:     cli.EnvVars("CONSOLESTATE_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("CONSOLESTATE_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			command := c.Args().First()

			var (
				logger zerolog.Logger
				closer = func() {}
				err    error
			)
			if flags.LogFile == "" && command == "watch" {
				// The TUI owns the terminal; hold console logs until it exits.
				deferred = &logutils.DeferredWriter{}
				logger, err = logutils.NewConsole(flags.LogLevel, deferred)
			} else {
				logger, closer, err = logutils.New(flags.LogLevel, flags.LogFile)
			}
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger.Hook(logging.ContextHook{})
			logCloser = closer

			ctx = logging.WithSessionID(ctx, uuid.NewString())
			ctx = logging.WithCommand(ctx, command)

			cfg, err := config.Read(flags.ConfigPath)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			// config subcommands report validation problems themselves.
			if command == "config" {
				return ctx, nil
			}

			if err := cfg.Validate(); err != nil {
				return ctx, fmt.Errorf("invalid config: %w", err)
			}

			// Apply configured theme (validation ensures name is valid)
			palette, _ := styles.GetPalette(cfg.TUI.Theme)
			styles.SetTheme(palette)

			a, err := app.New(cfg, nil)
			if err != nil {
				return ctx, err
			}

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*consoleApp = *a

			log.Debug().Ctx(ctx).Str("backend", cfg.Backend.BaseURL).Msg("console ready")
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if consoleApp.Console != nil {
				consoleApp.Console.Reset()
			}

			if deferred != nil {
				_ = deferred.Flush(os.Stderr)
			}

			// Close log file
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	root = commands.NewSettingsCmd(flags, consoleApp).Register(root)
	root = commands.NewCheckUpdatesCmd(flags, consoleApp).Register(root)
	root = commands.NewWatchCmd(flags, consoleApp).Register(root)
	root = commands.NewDoctorCmd(flags, consoleApp).Register(root)
	root = commands.NewConfigCmd(flags).Register(root)

	if err := root.Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run consolestate")
	}
}
