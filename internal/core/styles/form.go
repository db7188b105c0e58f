package styles

import "github.com/charmbracelet/huh"

// FormTheme returns a huh theme using the active palette.
func FormTheme() *huh.Theme {
	t := huh.ThemeCharm()

	t.Focused.Title = t.Focused.Title.Foreground(CurrentPalette.Primary)
	t.Focused.Description = t.Focused.Description.Foreground(CurrentPalette.Muted)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(CurrentPalette.Secondary)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(CurrentPalette.Error)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(CurrentPalette.Error)
	t.Blurred.Title = t.Blurred.Title.Foreground(CurrentPalette.Muted)

	return t
}
