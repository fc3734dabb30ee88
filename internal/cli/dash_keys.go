package cli

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

type dashKeyMap struct {
	NextTab key.Binding
	PrevTab key.Binding
	Up      key.Binding
	Down    key.Binding
	Filter  key.Binding
	Clear   key.Binding
	Narrate key.Binding
	Reload  key.Binding
	Open    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultDashKeys() dashKeyMap {
	return dashKeyMap{
		NextTab: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab/→", "next tab")),
		PrevTab: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab/←", "prev tab")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Filter:  key.NewBinding(key.WithKeys("f", "/"), key.WithHelp("f", "drill down")),
		Clear:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear drill-down")),
		Narrate: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "write summary")),
		Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload file")),
		Open:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open file")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k dashKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Filter, k.Reload, k.Help, k.Quit}
}

func (k dashKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab, k.Up, k.Down},
		{k.Filter, k.Clear, k.Narrate},
		{k.Reload, k.Open, k.Help, k.Quit},
	}
}

var _ help.KeyMap = dashKeyMap{}
