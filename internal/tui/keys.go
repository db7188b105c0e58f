package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Refresh      key.Binding
	Sidebar      key.Binding
	Dismiss      key.Binding
	ClearToasts  key.Binding
	ClearVersion key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Refresh:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Sidebar:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sidebar")),
		Dismiss:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss")),
		ClearToasts:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear toasts")),
		ClearVersion: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "recheck version")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Sidebar, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Refresh, k.ClearVersion, k.Sidebar},
		{k.Dismiss, k.ClearToasts},
		{k.Help, k.Quit},
	}
}
