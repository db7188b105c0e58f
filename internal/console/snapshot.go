package console

import (
	"github.com/colonyops/consolestate/internal/core/notify"
	"github.com/colonyops/consolestate/internal/core/settings"
	"github.com/colonyops/consolestate/internal/core/version"
)

// Snapshot is an immutable copy of every projected UI field.
type Snapshot struct {
	SidebarCollapsed bool                  `json:"sidebar_collapsed"`
	MobileOpen       bool                  `json:"mobile_open"`
	Loading          bool                  `json:"loading"`
	Toasts           []notify.Notification `json:"toasts"`
	HasActiveToasts  bool                  `json:"has_active_toasts"`

	PublicSettingsLoaded  bool          `json:"public_settings_loaded"`
	PublicSettingsLoading bool          `json:"public_settings_loading"`
	Settings              settings.View `json:"settings"`

	VersionLoaded  bool         `json:"version_loaded"`
	VersionLoading bool         `json:"version_loading"`
	Version        version.Info `json:"version"`
}

// Snapshot returns the current state.
func (c *Console) Snapshot() Snapshot {
	c.mu.Lock()
	s := Snapshot{
		SidebarCollapsed: c.sidebarCollapsed,
		MobileOpen:       c.mobileOpen,
	}
	c.mu.Unlock()

	s.Loading = c.gate.Loading()
	s.Toasts = c.queue.List()
	s.HasActiveToasts = len(s.Toasts) > 0

	ps := c.publicSettings.Entry()
	s.PublicSettingsLoaded = ps.Loaded
	s.PublicSettingsLoading = ps.InFlight
	s.Settings = settings.Project(ps.Value)

	v := c.version.Entry()
	s.VersionLoaded = v.Loaded
	s.VersionLoading = v.InFlight
	s.Version = v.Value.Normalize()
	s.Version.Cached = false

	return s
}
