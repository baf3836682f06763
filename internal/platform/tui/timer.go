package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// updateTimer handles the turn timer screen.
func (m Model) updateTimer(msg tea.KeyMsg) (Model, tea.Cmd) {
	t := m.sess.Timer()
	if t == nil {
		return m, nil
	}
	paused, turn := t.Paused(), t.Turn()

	switch {
	case key.Matches(msg, m.keys.Pause):
		_, err := m.sess.TogglePause()
		m.setStatus(err, "")

	case key.Matches(msg, m.keys.NextTurn):
		m.setStatus(m.sess.EndTurn(), "")

	case key.Matches(msg, m.keys.EndGame):
		err := m.sess.EndGame()
		m.setStatus(err, "")
		if err == nil {
			m.logger.Info("game ended", "game", m.sess.GameID())
		}
	}
	return m, m.restartTicks(paused, turn)
}

// restartTicks retires the tick loop when the pause state or the turn
// changed, and starts a new one if the clock is running.
func (m *Model) restartTicks(paused bool, turn uint64) tea.Cmd {
	t := m.sess.Timer()
	if t == nil || (t.Paused() == paused && t.Turn() == turn) {
		return nil
	}
	m.tickGen++
	if t.Paused() {
		return nil
	}
	return tickCmd(m.tickGen)
}

func (m Model) viewTimer() string {
	t := m.sess.Timer()
	cur, ok := m.sess.CurrentPlayer()
	if t == nil || !ok {
		return ""
	}

	style := bandStyle(t.Band())
	bar := m.bar
	bar.FullColor = string(bandColors[t.Band()])

	var b strings.Builder
	b.WriteString(subtleStyle.Render("Current turn") + "\n")
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(cur.Name) + "\n\n")

	clockLine := style.Render(clock(t.TimeLeft()))
	switch {
	case t.Paused():
		clockLine += "  " + subtleStyle.Render("PAUSED")
	case t.TimeLeft() == 0:
		clockLine += "  " + errorStyle.Render("TIME'S UP")
	}
	b.WriteString(clockLine + "\n")
	b.WriteString(bar.ViewAs(t.Fraction()) + "\n\n")

	players := m.sess.Players()
	if up := t.Upcoming(); len(up) > 0 {
		b.WriteString(subtleStyle.Render("Up next") + "\n")
		for i, seat := range up {
			if seat >= len(players) {
				continue
			}
			b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, players[seat].Name))
		}
	}

	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}
