package tui

import "github.com/charmbracelet/bubbles/key"

// dashboardKeyMap defines key bindings for the dashboard screen
type dashboardKeyMap struct {
	Refresh key.Binding
	Left    key.Binding
	Right   key.Binding
	Dismiss key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k dashboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Left, k.Right, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k dashboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Refresh, k.Dismiss},
		{k.Left, k.Right},
		{k.Help, k.Quit},
	}
}

// errorKeyMap defines key bindings for the full-screen error view
type errorKeyMap struct {
	Retry key.Binding
	Quit  key.Binding
}

func (k errorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Retry, k.Quit}
}

func (k errorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Retry, k.Quit}}
}

func newDashboardKeyMap() dashboardKeyMap {
	return dashboardKeyMap{
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous point"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next point"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("enter", "esc", "x"),
			key.WithHelp("enter/esc/x", "close alert"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func newErrorKeyMap() errorKeyMap {
	return errorKeyMap{
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry (restart dashboard)"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
