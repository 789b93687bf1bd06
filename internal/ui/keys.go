package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the filter builder.
type KeyMap struct {
	// Chip row.
	AddFilter      key.Binding
	PrevChip       key.Binding
	NextChip       key.Binding
	ToggleOperator key.Binding
	RemoveChip     key.Binding
	ClearAll       key.Binding
	Apply          key.Binding

	// Menu.
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Back   key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	AddFilter: key.NewBinding(
		key.WithKeys("a", "+", "/"),
		key.WithHelp("a", "add filter"),
	),
	PrevChip: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "prev"),
	),
	NextChip: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "next"),
	),
	ToggleOperator: key.NewBinding(
		key.WithKeys("t", "!"),
		key.WithHelp("t", "toggle operator"),
	),
	RemoveChip: key.NewBinding(
		key.WithKeys("x", "backspace", "delete"),
		key.WithHelp("x", "remove"),
	),
	ClearAll: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "clear"),
	),
	Apply: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "apply"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// chipHelp is the help line shown under the chip row.
func (k KeyMap) chipHelp() []key.Binding {
	return []key.Binding{k.AddFilter, k.PrevChip, k.NextChip, k.ToggleOperator, k.RemoveChip, k.ClearAll, k.Apply, k.Quit}
}

// menuHelp is the help line shown while the menu is open.
func (k KeyMap) menuHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Back}
}
