package tui

import "github.com/charmbracelet/bubbles/key"

// Chip values bound to the number keys
var chipValues = map[string]int{"1": 10, "2": 25, "3": 50, "4": 100}

type keyMap struct {
	Chip10  key.Binding
	Chip25  key.Binding
	Chip50  key.Binding
	Chip100 key.Binding
	Deal    key.Binding
	Hit     key.Binding
	Stand   key.Binding
	NewGame key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Chip10:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "bet 10")),
		Chip25:  key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "bet 25")),
		Chip50:  key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "bet 50")),
		Chip100: key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "bet 100")),
		Deal:    key.NewBinding(key.WithKeys("d", "enter"), key.WithHelp("d", "deal")),
		Hit:     key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hit")),
		Stand:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stand")),
		NewGame: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new game")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Deal, k.Hit, k.Stand, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Chip10, k.Chip25, k.Chip50, k.Chip100},
		{k.Deal, k.Hit, k.Stand},
		{k.NewGame, k.Help, k.Quit},
	}
}
