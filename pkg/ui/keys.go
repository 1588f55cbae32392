// Package ui provides the Bubble Tea dashboard.
package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	Quit          key.Binding
	Pause         key.Binding
	Clear         key.Binding
	Refresh       key.Binding
	TradeUp       key.Binding
	TradeDown     key.Binding
	ThresholdUp   key.Binding
	ThresholdDown key.Binding
	Up            key.Binding
	Down          key.Binding
	Help          key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear errors"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		TradeUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "trade +1000"),
		),
		TradeDown: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "trade -1000"),
		),
		ThresholdUp: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "min profit +0.1"),
		),
		ThresholdDown: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "min profit -0.1"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓", "scroll down"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Refresh, k.TradeUp, k.TradeDown, k.ThresholdUp, k.ThresholdDown, k.Help}
}

// FullHelp returns keybindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.TradeUp, k.TradeDown, k.ThresholdUp, k.ThresholdDown},
		{k.Refresh, k.Pause, k.Clear},
		{k.Up, k.Down, k.Help, k.Quit},
	}
}
