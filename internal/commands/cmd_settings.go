package commands

import (
	"context"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/consolestate/internal/app"
	"github.com/colonyops/consolestate/internal/console"
	"github.com/colonyops/consolestate/internal/core/settings"
	"github.com/colonyops/consolestate/pkg/iojson"
)

type SettingsCmd struct {
	flags  *Flags
	app    *app.App
	format string
	force  bool
	input  iojson.FileReader[settings.Public]
}

func NewSettingsCmd(flags *Flags, app *app.App) *SettingsCmd {
	return &SettingsCmd{flags: flags, app: app}
}

func (cmd *SettingsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "settings",
		Usage:     "Show the public settings the console projects",
		UsageText: "consolestate settings [options]",
		Description: `Fetches the public settings from the backend and prints the fields the
console keeps in its state. Use --file to project a saved payload instead.`,
		Flags: []cli.Flag{
			formatFlag(&cmd.format),
			&cli.BoolFlag{
				Name:        "force",
				Usage:       "bypass the cache",
				Destination: &cmd.force,
			},
			cmd.input.Flag(),
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *SettingsCmd) run(ctx context.Context, c *cli.Command) error {
	var p settings.Public
	if cmd.input.Provided() {
		var err error
		p, err = cmd.input.Read()
		if err != nil {
			return err
		}
	} else {
		var ok bool
		p, ok = cmd.app.Console.FetchPublicSettings(ctx, cmd.force)
		if !ok {
			return unavailable(c, cmd.format, "public settings unavailable", map[string]any{"slot": console.SlotPublicSettings})
		}
	}

	view := settings.Project(p)
	if cmd.format == formatJSON {
		return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, view)
	}

	writeSection(c.Root().Writer, "Public settings", []row{
		{"Site", view.SiteName},
		{"Version", view.SiteVersion},
		{"API base URL", view.APIBaseURL},
		{"Docs", view.DocURL},
		{"Contact", view.ContactInfo},
		{"Logo", view.SiteLogo},
		{"Simple mode", strconv.FormatBool(view.SimpleMode)},
	})
	return nil
}
