package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/rummi-companion/internal/roster"
)

// updateSetup handles the setup screen: roster editing and the time limit.
func (m Model) updateSetup(msg tea.KeyMsg) (Model, tea.Cmd) {
	players := m.sess.Players()
	if m.moveCursor(msg, len(players)) {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Rename):
		id := m.selectedID()
		if id == "" {
			return m, nil
		}
		return m, m.startEdit(editName, id, players[m.cursor].Name, "player name")

	case key.Matches(msg, m.keys.AddPlayer):
		p, err := m.sess.AddPlayer("")
		m.setStatus(err, "")
		if err == nil {
			m.cursor = len(m.sess.Players()) - 1
			m.logger.Debug("player added", "player", p.ID)
		}

	case key.Matches(msg, m.keys.DropPlayer):
		err := m.sess.RemovePlayer(m.selectedID())
		m.setStatus(err, "")
		if n := len(m.sess.Players()); m.cursor >= n {
			m.cursor = n - 1
		}

	case key.Matches(msg, m.keys.LessTime):
		m.setStatus(m.sess.StepTimeLimit(-1), "")

	case key.Matches(msg, m.keys.MoreTime):
		m.setStatus(m.sess.StepTimeLimit(1), "")

	case key.Matches(msg, m.keys.StartGame):
		err := m.sess.Start()
		m.setStatus(err, "")
		if err == nil {
			m.logger.Info("game started", "game", m.sess.GameID(), "players", len(players), "limit", m.sess.TimeLimit())
		}
	}
	return m, nil
}

func (m Model) viewSetup() string {
	var b strings.Builder

	players := m.sess.Players()
	b.WriteString(fmt.Sprintf("Players (%d/%d)\n\n", len(players), roster.MaxPlayers))
	for i, p := range players {
		cursor := "  "
		line := fmt.Sprintf("%d. %s", i+1, p.Name)
		if i == m.cursor {
			cursor = "> "
			if m.editing == editName {
				line = fmt.Sprintf("%d. %s", i+1, m.input.View())
			} else {
				line = selectedStyle.Render(line)
			}
		}
		b.WriteString(cursor + line + "\n")
	}

	limits := m.sess.Limits()
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Turn time limit:  < %s >  ", infoStyle.Bold(true).Render(fmt.Sprintf("%ds", m.sess.TimeLimit()))))
	b.WriteString(subtleStyle.Render(fmt.Sprintf("(%ds to %ds, step %ds)", limits.MinSeconds, limits.MaxSeconds, limits.StepSeconds)))
	b.WriteString("\n")

	return boxStyle.Render(b.String())
}
