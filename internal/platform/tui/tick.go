// Package tui provides the Bubble Tea front end of the companion: the setup,
// turn timer, scoring and results screens, plus the SSH server that serves
// them remotely.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent once per second while a turn is running. Gen identifies
// the tick loop that produced it; ticks from an abandoned loop are ignored.
type TickMsg struct {
	Gen  uint64
	Time time.Time
}

// tickCmd returns a Bubble Tea command that sends the next one-second tick.
func tickCmd(gen uint64) tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg{Gen: gen, Time: t}
	})
}
