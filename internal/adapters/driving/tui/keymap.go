package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for the browser.
type KeyMap struct {
	Quit     key.Binding
	Back     key.Binding
	Submit   key.Binding
	Mode     key.Binding
	Up       key.Binding
	Down     key.Binding
	Open     key.Binding
	NewQuery key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "run"),
		),
		Mode: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "mode"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		NewQuery: key.NewBinding(
			key.WithKeys("/", "n"),
			key.WithHelp("/", "new query"),
		),
	}
}

// help returns the bindings shown in the status line for a screen.
func (k *KeyMap) help(s screen) []key.Binding {
	switch s {
	case screenResults:
		return []key.Binding{k.Up, k.Down, k.Open, k.NewQuery, k.Quit}
	case screenSection, screenAnswer:
		return []key.Binding{k.Up, k.Down, k.Back, k.Quit}
	default:
		return []key.Binding{k.Submit, k.Mode, k.Quit}
	}
}
