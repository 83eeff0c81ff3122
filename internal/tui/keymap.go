package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap defines global key bindings used across the TUI.
type keyMap struct {
	Quit      key.Binding
	Help      key.Binding
	Left      key.Binding
	Right     key.Binding
	Focus     key.Binding
	Explore   key.Binding
	Shortlist key.Binding
	Copy      key.Binding
	Autoplay  key.Binding
	Escape    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "switch carousel"),
		),
		Explore: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "explore career"),
		),
		Shortlist: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "shortlist"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy referral code"),
		),
		Autoplay: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause/resume autoplay"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Focus, k.Explore, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Focus},
		{k.Explore, k.Shortlist, k.Copy},
		{k.Autoplay, k.Escape, k.Help, k.Quit},
	}
}
