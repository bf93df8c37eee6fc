package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Complete key.Binding
	Delete   key.Binding
	Add      key.Binding
	Refresh  key.Binding
	Quit     key.Binding
	Confirm  key.Binding
	Cancel   key.Binding
	Submit   key.Binding
	Back     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Complete: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "complete"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Confirm: key.NewBinding(key.WithKeys("y", "Y")),
		Cancel:  key.NewBinding(key.WithKeys("n", "N", "esc")),
		Submit:  key.NewBinding(key.WithKeys("enter")),
		Back:    key.NewBinding(key.WithKeys("esc")),
	}
}

func (k keyMap) shortHelp() []key.Binding {
	return []key.Binding{k.Complete, k.Add, k.Delete, k.Refresh, k.Quit}
}
