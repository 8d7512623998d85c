package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the calculator's key bindings; it implements help.KeyMap
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Territory key.Binding
	Measure   key.Binding
	Relative  key.Binding
	Share     key.Binding
	Export    key.Binding
	Reset     key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous control"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next control"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h", "-"),
			key.WithHelp("←/h", "decrease"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l", "+"),
			key.WithHelp("→/l", "increase"),
		),
		Territory: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "territory view"),
		),
		Measure: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "next measure"),
		),
		Relative: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "absolute/relative"),
		),
		Share: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy share link"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export csv+xlsx"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp is shown in the status bar
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Measure, k.Share, k.Help, k.Quit}
}

// FullHelp is shown after pressing ?
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Territory, k.Measure, k.Relative, k.Reset},
		{k.Share, k.Export, k.Help, k.Quit},
	}
}
