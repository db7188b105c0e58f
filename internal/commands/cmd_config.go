package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/consolestate/internal/core/config"
	"github.com/colonyops/consolestate/internal/core/styles"
	"github.com/colonyops/consolestate/internal/core/validate"
	"github.com/colonyops/consolestate/pkg/iojson"
)

type ConfigCmd struct {
	flags  *Flags
	format string

	// init options
	yes     bool
	force   bool
	baseURL string
	token   string
	theme   string
}

// NewConfigCmd creates the config command and its subcommands.
func NewConfigCmd(flags *Flags) *ConfigCmd {
	return &ConfigCmd{flags: flags}
}

// Register adds the config commands to the application.
func (cmd *ConfigCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "consolestate config validate [options]",
				Description: "Validates the configuration file, checking the backend URL, notification durations, and theme.",
				Flags: []cli.Flag{
					formatFlag(&cmd.format),
				},
				Action: cmd.runValidate,
			},
			{
				Name:        "init",
				Usage:       "Create a configuration file",
				UsageText:   "consolestate config init [options]",
				Description: "Prompts for the backend URL, admin token, and theme and writes them to the config file.\nAn existing file is backed up to <path>.bak before it is replaced.",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "yes",
						Aliases:     []string{"y"},
						Usage:       "skip prompts and use flag values or defaults",
						Destination: &cmd.yes,
					},
					&cli.BoolFlag{
						Name:        "force",
						Usage:       "overwrite an existing config without asking",
						Destination: &cmd.force,
					},
					&cli.StringFlag{
						Name:        "base-url",
						Usage:       "gateway base URL",
						Destination: &cmd.baseURL,
					},
					&cli.StringFlag{
						Name:        "token",
						Usage:       "admin API token",
						Sources:     cli.EnvVars("CONSOLESTATE_TOKEN"),
						Destination: &cmd.token,
					},
					&cli.StringFlag{
						Name:        "theme",
						Usage:       "TUI theme",
						Destination: &cmd.theme,
					},
				},
				Action: cmd.runInit,
			},
		},
	})

	return app
}

type fieldErrorJSON struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (cmd *ConfigCmd) runValidate(_ context.Context, c *cli.Command) error {
	err := cmd.flags.Config.ValidateDeep(cmd.flags.ConfigPath)

	var issues []fieldErrorJSON
	if err != nil {
		var fieldErrs criterio.FieldErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			issues = append(issues, fieldErrorJSON{Field: fe.Field, Message: fe.Err.Error()})
		}
	}

	if cmd.format == formatJSON {
		out := struct {
			Valid  bool             `json:"valid"`
			Errors []fieldErrorJSON `json:"errors,omitempty"`
		}{
			Valid:  len(issues) == 0,
			Errors: issues,
		}
		if err := iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, out); err != nil {
			return err
		}
		if len(issues) > 0 {
			return cli.Exit("", 1)
		}
		return nil
	}

	w := c.Root().Writer
	if len(issues) == 0 {
		_, _ = fmt.Fprintln(w, styles.UpdateStyle.Render("Configuration is valid"))
		return nil
	}

	for _, issue := range issues {
		_, _ = fmt.Fprintf(w, "%s %s\n", styles.ErrorStyle.Render(issue.Field+":"), issue.Message)
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, styles.ErrorStyle.Render(fmt.Sprintf("%d error(s) found", len(issues))))
	return cli.Exit("", 1)
}

func (cmd *ConfigCmd) runInit(_ context.Context, c *cli.Command) error {
	w := c.Root().Writer
	path := cmd.flags.ConfigPath
	if path == "" {
		path = DefaultConfigPath()
	}

	if config.Exists(path) && !cmd.force {
		if cmd.yes {
			return cli.Exit(fmt.Sprintf("config exists at %s; use --force to overwrite", path), 1)
		}

		var overwrite bool
		err := huh.NewConfirm().
			Title("Config file already exists").
			Description(path + "\nOverwrite? (a backup will be created)").
			Value(&overwrite).
			Run()
		if err != nil {
			return formError(err)
		}
		if !overwrite {
			_, _ = fmt.Fprintln(w, "Init cancelled")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	if cmd.flags.Config != nil {
		cfg = *cmd.flags.Config
	}
	if cmd.baseURL != "" {
		cfg.Backend.BaseURL = cmd.baseURL
	}
	if cmd.token != "" {
		cfg.Backend.Token = cmd.token
	}
	if cmd.theme != "" {
		cfg.TUI.Theme = cmd.theme
	}

	if !cmd.yes {
		if err := promptConfig(&cfg); err != nil {
			return formError(err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	backup, err := config.Backup(path)
	if err != nil {
		return err
	}
	if backup != "" {
		_, _ = fmt.Fprintf(w, "Backed up config to: %s\n", backup)
	}

	if err := config.Write(path, &cfg); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(w, styles.UpdateStyle.Render("Created config: "+path))
	return nil
}

func promptConfig(cfg *config.Config) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Backend URL").
				Description("Base URL of the gateway, e.g. https://gw.example.com").
				Validate(validate.AbsoluteURL).
				Value(&cfg.Backend.BaseURL),
			huh.NewInput().
				Title("Admin token").
				Description("Leave empty to use public endpoints only").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.Backend.Token),
			huh.NewSelect[string]().
				Title("Theme").
				Options(huh.NewOptions(styles.ThemeNames()...)...).
				Value(&cfg.TUI.Theme),
		),
	).WithTheme(styles.FormTheme()).Run()
}

func formError(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return cli.Exit("init aborted", 1)
	}
	return fmt.Errorf("form: %w", err)
}
