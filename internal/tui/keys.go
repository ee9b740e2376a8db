package tui

import "github.com/charmbracelet/bubbles/key"

// todayKeyMap binds the dashboard's actions.
type todayKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PrevDay  key.Binding
	NextDay  key.Binding
	Done     key.Binding
	Miss     key.Binding
	Undo     key.Binding
	Momentum key.Binding
	Refresh  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultTodayKeys() todayKeyMap {
	return todayKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PrevDay: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev day"),
		),
		NextDay: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next day"),
		),
		Done: key.NewBinding(
			key.WithKeys("enter", " ", "d"),
			key.WithHelp("enter", "done"),
		),
		Miss: key.NewBinding(
			key.WithKeys("x", "m"),
			key.WithHelp("x", "miss"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "undo"),
		),
		Momentum: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "momentum"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k todayKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Done, k.Miss, k.Undo, k.Momentum, k.Help, k.Quit}
}

func (k todayKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevDay, k.NextDay},
		{k.Done, k.Miss, k.Undo, k.Momentum},
		{k.Refresh, k.Help, k.Quit},
	}
}
