package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next      key.Binding
	Prev      key.Binding
	Dec       key.Binding
	Inc       key.Binding
	DecBig    key.Binding
	IncBig    key.Binding
	Benchmark key.Binding
	Reset     key.Binding
	Export    key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Dec: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "-1"),
		),
		Inc: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "+1"),
		),
		DecBig: key.NewBinding(
			key.WithKeys("shift+left", "pgdown"),
			key.WithHelp("shift+←/pgdn", "-10"),
		),
		IncBig: key.NewBinding(
			key.WithKeys("shift+right", "pgup"),
			key.WithHelp("shift+→/pgup", "+10"),
		),
		Benchmark: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "benchmark"),
		),
		Reset: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reset"),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "export"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Inc, k.IncBig, k.Benchmark, k.Export, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev},
		{k.Dec, k.Inc, k.DecBig, k.IncBig},
		{k.Benchmark, k.Reset, k.Export, k.Quit},
	}
}
