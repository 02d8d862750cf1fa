package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap binds the navigation keys shared by every view.
//
// The reading-list and book views also get vim-style j/k movement from the
// embedded [list.Model]; these bindings only drive the custom views.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	back    key.Binding
	yes     key.Binding
	no      key.Binding
	restart key.Binding
	quit    key.Binding
}

func bind(help string, desc string, kk ...string) key.Binding {
	return key.NewBinding(key.WithKeys(kk...), key.WithHelp(help, desc))
}

func newKeyMap() keyMap {
	return keyMap{
		up:      bind("↑/k", "up", "up", "k"),
		down:    bind("↓/j", "down", "down", "j"),
		enter:   bind("enter", "select", "enter"),
		back:    bind("esc", "back", "esc"),
		yes:     bind("y", "confirm", "y"),
		no:      bind("n", "cancel", "n"),
		restart: bind("r", "start over", "r"),
		quit:    bind("q", "quit", "q", "ctrl+c"),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.back, k.yes, k.no},
		{k.restart, k.quit},
	}
}
