package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Pause key.Binding
	Left  key.Binding
	Right key.Binding
	Reset key.Binding
	Quit  key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Left, k.Reset, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Pause: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
	Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "turn")),
	Right: key.NewBinding(key.WithKeys("right", "l")),
	Reset: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
	Quit:  key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}
