package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/consolestate/internal/core/styles"
	"github.com/colonyops/consolestate/internal/core/version"
)

func (m Model) View() string {
	body := m.renderMain()
	if sidebar := m.renderSidebar(); sidebar != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, body)
	}

	view := lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatusBar())

	toasts := RenderToasts(m.snap.Toasts, m.clock.Now())
	width := max(m.width, lipgloss.Width(view))
	return overlayBottomRight(view, toasts, width, m.height)
}

func (m Model) renderSidebar() string {
	s := m.snap
	if m.narrow() {
		if !s.MobileOpen {
			return ""
		}
	} else if s.SidebarCollapsed {
		return styles.SidebarCollapsed.Render(styles.IconSidebar)
	}

	lines := []string{
		styles.HeaderStyle.Render(s.Settings.SiteName),
	}
	if s.Settings.SiteVersion != "" {
		lines = append(lines, styles.MutedStyle.Render(s.Settings.SiteVersion))
	}
	lines = append(lines,
		"",
		styles.IconSettings+" Settings",
		styles.IconUpdate+" Version",
	)
	if s.Version.HasUpdate {
		lines = append(lines, "", styles.UpdateStyle.Render("update available"))
	}
	return styles.SidebarStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) renderMain() string {
	sections := []string{
		m.renderSettings(),
		m.renderVersion(),
	}
	return styles.PanelStyle.Render(strings.Join(sections, "\n\n"))
}

func (m Model) renderSettings() string {
	s := m.snap
	lines := []string{styles.HeaderStyle.Render("Public settings")}

	switch {
	case s.PublicSettingsLoading && !s.PublicSettingsLoaded:
		lines = append(lines, m.spinner.View()+" loading")
		return strings.Join(lines, "\n")
	case !s.PublicSettingsLoaded:
		lines = append(lines, styles.MutedStyle.Render("not loaded"))
		return strings.Join(lines, "\n")
	}

	v := s.Settings
	lines = append(lines,
		row("Site", v.SiteName),
		row("API base URL", v.APIBaseURL),
		row("Docs", v.DocURL),
		row("Contact", v.ContactInfo),
		row("Simple mode", fmt.Sprintf("%t", v.SimpleMode)),
	)
	return strings.Join(lines, "\n")
}

func (m Model) renderVersion() string {
	s := m.snap
	lines := []string{styles.HeaderStyle.Render("Version")}

	switch {
	case s.VersionLoading && !s.VersionLoaded:
		lines = append(lines, m.spinner.View()+" checking")
		return strings.Join(lines, "\n")
	case !s.VersionLoaded:
		lines = append(lines, styles.MutedStyle.Render("not checked"))
		return strings.Join(lines, "\n")
	}

	info := s.Version
	lines = append(lines,
		row("Current", info.CurrentVersion),
		row("Latest", info.LatestVersion),
		row("Build", info.BuildType),
	)

	if kind := info.UpdateKind(); kind != version.UpdateNone {
		label := "update available"
		if kind != version.UpdateOther {
			label = kind + " update available"
		}
		lines = append(lines, styles.LabelStyle.Render("Status")+styles.UpdateStyle.Render(label))
	} else {
		lines = append(lines, row("Status", "up to date"))
	}

	if r := info.ReleaseInfo; r != nil {
		lines = append(lines, row("Release", r.Name))
		if r.HTMLURL != "" {
			lines = append(lines, row("", r.HTMLURL))
		}
	}
	if info.Warning != "" {
		lines = append(lines, styles.ErrorStyle.Render(info.Warning))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderStatusBar() string {
	status := "ready"
	if m.snap.Loading {
		status = m.spinner.View() + " loading"
	}
	return styles.StatusBarStyle.Render(status) + "  " + styles.HelpStyle.Render(m.help.View(m.keys))
}

func row(label, value string) string {
	if value == "" {
		value = "-"
	}
	return styles.LabelStyle.Render(label) + styles.ValueStyle.Render(value)
}
