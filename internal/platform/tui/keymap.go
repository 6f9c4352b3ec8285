package tui

import "github.com/charmbracelet/bubbles/key"

// TrackerKeyMap defines the key bindings for the tracker.
type TrackerKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	Settings key.Binding
	Back     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k TrackerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Settings, k.Toggle, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k TrackerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.Settings, k.Back, k.Help, k.Quit},
	}
}

// DefaultTrackerKeyMap returns default key bindings.
func DefaultTrackerKeyMap() TrackerKeyMap {
	return TrackerKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "move down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "toggle checkpoint"),
		),
		Settings: key.NewBinding(
			key.WithKeys("s", "tab"),
			key.WithHelp("s", "edit checkpoints"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
