package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up           key.Binding
	down         key.Binding
	switchKind   key.Binding
	enter        key.Binding
	esc          key.Binding
	tab          key.Binding
	backtab      key.Binding
	quit         key.Binding
	logout       key.Binding
	newItem      key.Binding
	edit         key.Binding
	delete       key.Binding
	refresh      key.Binding
	forceRefresh key.Binding
	pending      key.Binding
	buildInfo    key.Binding
	copy         key.Binding
	yes          key.Binding
	no           key.Binding
}

var keys = keyMap{
	up:           key.NewBinding(key.WithKeys("up", "k")),
	down:         key.NewBinding(key.WithKeys("down", "j")),
	switchKind:   key.NewBinding(key.WithKeys("tab", "left", "right")),
	enter:        key.NewBinding(key.WithKeys("enter")),
	esc:          key.NewBinding(key.WithKeys("esc")),
	tab:          key.NewBinding(key.WithKeys("tab", "down")),
	backtab:      key.NewBinding(key.WithKeys("shift+tab", "up")),
	quit:         key.NewBinding(key.WithKeys("q", "ctrl+c")),
	logout:       key.NewBinding(key.WithKeys("l")),
	newItem:      key.NewBinding(key.WithKeys("n")),
	edit:         key.NewBinding(key.WithKeys("e")),
	delete:       key.NewBinding(key.WithKeys("d")),
	refresh:      key.NewBinding(key.WithKeys("s")),
	forceRefresh: key.NewBinding(key.WithKeys("S")),
	pending:      key.NewBinding(key.WithKeys("p")),
	buildInfo:    key.NewBinding(key.WithKeys("v")),
	copy:         key.NewBinding(key.WithKeys("c")),
	yes:          key.NewBinding(key.WithKeys("y")),
	no:           key.NewBinding(key.WithKeys("n", "esc")),
}
