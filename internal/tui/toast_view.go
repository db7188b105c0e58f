package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/consolestate/internal/core/notify"
	"github.com/colonyops/consolestate/internal/core/styles"
)

const toastWidth = 50

// RenderToasts renders the toast stack with toasts stacked vertically
// (oldest at top, newest at bottom).
func RenderToasts(toasts []notify.Notification, now time.Time) string {
	if len(toasts) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(toasts))
	for _, t := range toasts {
		rendered = append(rendered, renderToast(t, now))
	}

	return strings.Join(rendered, "\n")
}

func renderToast(n notify.Notification, now time.Time) string {
	var icon string
	var style lipgloss.Style

	switch n.Level {
	case notify.LevelSuccess:
		icon = styles.IconNotifySuccess
		style = styles.ToastSuccessStyle
	case notify.LevelError:
		icon = styles.IconNotifyError
		style = styles.ToastErrorStyle
	case notify.LevelWarning:
		icon = styles.IconNotifyWarning
		style = styles.ToastWarningStyle
	default:
		icon = styles.IconNotifyInfo
		style = styles.ToastInfoStyle
	}

	content := icon + " " + n.Message
	if n.Expires() {
		remaining := n.Remaining(now).Round(time.Second)
		content += styles.MutedStyle.Render(fmt.Sprintf(" (%s)", remaining))
	}
	return style.Width(toastWidth).Render(content)
}

// overlayBottomRight places fg in the lower-right corner below background,
// padding background to height when it is shorter.
func overlayBottomRight(background, fg string, width, height int) string {
	if fg == "" {
		return background
	}

	bgH := lipgloss.Height(background)
	fgH := lipgloss.Height(fg)
	gap := max(height-bgH-fgH, 0)

	placed := lipgloss.PlaceHorizontal(width, lipgloss.Right, fg)
	return background + strings.Repeat("\n", gap+1) + placed
}
