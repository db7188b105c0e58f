package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/consolestate/internal/core/styles"
	"github.com/colonyops/consolestate/internal/core/validate"
	"github.com/colonyops/consolestate/pkg/iojson"
)

const (
	formatText = "text"
	formatJSON = "json"
)

func formatFlag(dest *string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "format",
		Usage:       "output format (text, json)",
		Value:       formatText,
		Destination: dest,
		Validator:   validate.OneOf(formatText, formatJSON),
	}
}

// unavailable reports a failed backend read. In JSON mode the failure is
// written to the error stream as an iojson envelope.
func unavailable(c *cli.Command, format, msg string, data map[string]any) error {
	if format == formatJSON {
		if err := iojson.WriteError(c.Root().ErrWriter, msg, data); err != nil {
			return err
		}
		return cli.Exit("", 1)
	}
	return cli.Exit(msg+", see log for details", 1)
}

type row struct {
	label string
	value string
}

func writeSection(w io.Writer, title string, rows []row) {
	_, _ = fmt.Fprintln(w, styles.HeaderStyle.Render(title))
	_, _ = fmt.Fprintln(w, styles.DividerStyle.Render(strings.Repeat("─", 40)))
	for _, r := range rows {
		value := r.value
		if value == "" {
			value = styles.MutedStyle.Render("-")
		}
		_, _ = fmt.Fprintln(w, styles.LabelStyle.Render(r.label)+value)
	}
}

const notesWidth = 80

// renderMarkdown renders md for the terminal, falling back to the raw text
// when rendering fails.
func renderMarkdown(md string, width int) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		log.Debug().Err(err).Msg("failed to create markdown renderer, showing raw content")
		return md
	}

	rendered, err := renderer.Render(md)
	if err != nil {
		log.Debug().Err(err).Msg("failed to render markdown, showing raw content")
		return md
	}
	return strings.TrimSpace(rendered)
}
