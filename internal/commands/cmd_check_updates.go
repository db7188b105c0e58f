package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/consolestate/internal/app"
	"github.com/colonyops/consolestate/internal/console"
	"github.com/colonyops/consolestate/internal/core/styles"
	"github.com/colonyops/consolestate/internal/core/version"
	"github.com/colonyops/consolestate/pkg/iojson"
)

type CheckUpdatesCmd struct {
	flags  *Flags
	app    *app.App
	format string
	force  bool
	notes  bool
}

func NewCheckUpdatesCmd(flags *Flags, app *app.App) *CheckUpdatesCmd {
	return &CheckUpdatesCmd{flags: flags, app: app}
}

func (cmd *CheckUpdatesCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "check-updates",
		Usage:       "Check the backend for available updates",
		UsageText:   "consolestate check-updates [options]",
		Description: "Asks the backend for its running and latest versions. Requires an admin token.",
		Flags: []cli.Flag{
			formatFlag(&cmd.format),
			&cli.BoolFlag{
				Name:        "force",
				Usage:       "ask the backend to bypass its release cache",
				Destination: &cmd.force,
			},
			&cli.BoolFlag{
				Name:        "notes",
				Usage:       "render the release notes of the latest version",
				Destination: &cmd.notes,
			},
		},
		Action: cmd.run,
	})
	return app
}

type versionJSON struct {
	version.Info
	UpdateKind string `json:"update_kind,omitempty"`
}

func (cmd *CheckUpdatesCmd) run(ctx context.Context, c *cli.Command) error {
	info, ok := cmd.app.Console.FetchVersion(ctx, cmd.force)
	if !ok {
		return unavailable(c, cmd.format, "version info unavailable", map[string]any{"slot": console.SlotVersion})
	}
	info = info.Normalize()

	if cmd.format == formatJSON {
		return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, versionJSON{Info: info, UpdateKind: info.UpdateKind()})
	}

	status := "up to date"
	switch kind := info.UpdateKind(); kind {
	case version.UpdateNone:
	case version.UpdateOther:
		status = styles.UpdateStyle.Render("update available")
	default:
		status = styles.UpdateStyle.Render(kind + " update available")
	}

	rows := []row{
		{"Current", info.CurrentVersion},
		{"Latest", info.LatestVersion},
		{"Build", info.BuildType},
		{"Status", status},
	}
	if r := info.ReleaseInfo; r != nil {
		rows = append(rows,
			row{"Release", r.Name},
			row{"Published", r.PublishedAt},
			row{"URL", r.HTMLURL},
		)
	}
	if info.Warning != "" {
		rows = append(rows, row{"Warning", styles.ErrorStyle.Render(info.Warning)})
	}

	w := c.Root().Writer
	writeSection(w, "Version", rows)

	if cmd.notes && info.ReleaseInfo != nil && info.ReleaseInfo.Body != "" {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, renderMarkdown(info.ReleaseInfo.Body, notesWidth))
	}
	return nil
}
