package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit        key.Binding
	Help        key.Binding
	Back        key.Binding
	Next        key.Binding
	Prev        key.Binding
	Generations key.Binding
	Plan        key.Binding
	Compare     key.Binding
	Rules       key.Binding
	Reset       key.Binding
	Ownership   key.Binding
	Beneficiary key.Binding
	Strategy    key.Binding
	RPU         key.Binding
	RPUMode     key.Binding
	Export      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:        key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Next:        key.NewBinding(key.WithKeys("tab", "down", "enter"), key.WithHelp("tab", "next field")),
		Prev:        key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
		Generations: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "generations")),
		Plan:        key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "plan")),
		Compare:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "compare")),
		Rules:       key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tax rules")),
		Reset:       key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "restore loaded rules")),
		Ownership:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "toggle ownership change")),
		Beneficiary: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "toggle face to Gen3")),
		Strategy:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cycle strategy")),
		RPU:         key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "toggle RPU")),
		RPUMode:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "toggle RPU mode")),
		Export:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export PDF")),
	}
}
