package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the tray key bindings.
type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	MarkRead    key.Binding
	MarkAllRead key.Binding
	Delete      key.Binding
	Refresh     key.Binding
	DismissAll  key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		MarkRead: key.NewBinding(
			key.WithKeys("r", "enter"),
			key.WithHelp("r", "mark read"),
		),
		MarkAllRead: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "mark all read"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "refresh"),
		),
		DismissAll: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "dismiss toasts"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// helpEntries returns the footer help in display order.
func (k keyMap) helpEntries() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.MarkRead, k.MarkAllRead, k.Delete, k.Refresh, k.Quit}
}
