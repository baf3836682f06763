package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/vovakirdan/rummi-companion/internal/session"
)

// KeyMap defines the key bindings of every screen.
type KeyMap struct {
	Up   key.Binding
	Down key.Binding
	Help key.Binding
	Quit key.Binding

	// setup
	Rename     key.Binding
	AddPlayer  key.Binding
	DropPlayer key.Binding
	LessTime   key.Binding
	MoreTime   key.Binding
	StartGame  key.Binding

	// timer
	Pause    key.Binding
	NextTurn key.Binding
	EndGame  key.Binding

	// scoring
	Winner  key.Binding
	Penalty key.Binding
	Scan    key.Binding
	Finish  key.Binding
	Cancel  key.Binding

	// results
	NextRound key.Binding
	ResetAll  key.Binding

	// text input
	Submit key.Binding
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "down"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),

		Rename: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "rename"),
		),
		AddPlayer: key.NewBinding(
			key.WithKeys("a", "+"),
			key.WithHelp("a", "add player"),
		),
		DropPlayer: key.NewBinding(
			key.WithKeys("x", "-", "delete"),
			key.WithHelp("x", "remove player"),
		),
		LessTime: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left", "less time"),
		),
		MoreTime: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right", "more time"),
		),
		StartGame: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start game"),
		),

		Pause: key.NewBinding(
			key.WithKeys(" ", "p"),
			key.WithHelp("space", "pause/resume"),
		),
		NextTurn: key.NewBinding(
			key.WithKeys("enter", "n"),
			key.WithHelp("enter", "next turn"),
		),
		EndGame: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "end game"),
		),

		Winner: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "declare winner"),
		),
		Penalty: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "enter penalty"),
		),
		Scan: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "scan photo"),
		),
		Finish: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "calculate scores"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),

		NextRound: key.NewBinding(
			key.WithKeys("n", "enter"),
			key.WithHelp("n", "play next round"),
		),
		ResetAll: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "end game (reset all)"),
		),

		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "save"),
		),
	}
}

// phaseKeys adapts KeyMap to help.KeyMap for one screen.
type phaseKeys struct {
	keys    KeyMap
	phase   session.Phase
	editing bool
}

// ShortHelp returns key bindings for the short help view.
func (p phaseKeys) ShortHelp() []key.Binding {
	k := p.keys
	if p.editing {
		return []key.Binding{k.Submit, k.Cancel}
	}
	switch p.phase {
	case session.PhaseSetup:
		return []key.Binding{k.Rename, k.AddPlayer, k.DropPlayer, k.StartGame, k.Help}
	case session.PhasePlaying:
		return []key.Binding{k.Pause, k.NextTurn, k.EndGame, k.Help}
	case session.PhaseScoring:
		return []key.Binding{k.Winner, k.Penalty, k.Scan, k.Finish, k.Help}
	case session.PhaseResults:
		return []key.Binding{k.NextRound, k.ResetAll, k.Help}
	}
	return []key.Binding{k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (p phaseKeys) FullHelp() [][]key.Binding {
	k := p.keys
	if p.editing {
		return [][]key.Binding{{k.Submit, k.Cancel}}
	}
	switch p.phase {
	case session.PhaseSetup:
		return [][]key.Binding{
			{k.Up, k.Down, k.Rename},
			{k.AddPlayer, k.DropPlayer},
			{k.LessTime, k.MoreTime},
			{k.StartGame, k.Quit},
		}
	case session.PhasePlaying:
		return [][]key.Binding{
			{k.Pause, k.NextTurn},
			{k.EndGame, k.Quit},
		}
	case session.PhaseScoring:
		return [][]key.Binding{
			{k.Up, k.Down},
			{k.Winner, k.Penalty, k.Scan},
			{k.Finish, k.Cancel, k.Quit},
		}
	case session.PhaseResults:
		return [][]key.Binding{
			{k.Up, k.Down},
			{k.NextRound, k.ResetAll, k.Quit},
		}
	}
	return [][]key.Binding{{k.Quit}}
}
