package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// updateResults handles the results screen.
func (m Model) updateResults(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.NextRound):
		m.setStatus(m.sess.NextRound(), "")
		return m, nil

	case key.Matches(msg, m.keys.ResetAll):
		if !m.confirmReset {
			m.confirmReset = true
			m.status = "Press r again to reset all totals."
			m.statusErr = false
			return m, nil
		}
		m.confirmReset = false
		m.setStatus(m.sess.Reset(), "")
		m.logger.Info("session reset")
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) tableHeight() int {
	// rows plus the header and its border
	h := len(m.sess.Players()) + 3
	if m.height > 0 {
		h = min(h, max(m.height-14, 4))
	}
	return h
}

// resultsTable creates the standings table.
func (m Model) resultsTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Player", Width: 18},
		{Title: "Total", Width: 8},
		{Title: "Round", Width: 8},
		{Title: "", Width: 14},
	}

	var rows []table.Row
	for _, st := range m.sess.Standings() {
		note := ""
		if st.IsWinner {
			note = "round winner"
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", st.Rank),
			st.Name,
			signed(st.Total),
			signed(st.RoundDelta),
			note,
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(m.tableHeight()),
	)

	// Table styles
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(colorAccent).
		Bold(false)
	t.SetStyles(s)

	return t
}

func (m Model) viewResults() string {
	var b strings.Builder
	b.WriteString(m.table.View())
	b.WriteString("\n\n")

	// Coloured summary under the table; table cells stay plain so the
	// column widths are not thrown off by escape codes.
	for _, st := range m.sess.Standings() {
		name := st.Name
		if st.IsWinner {
			name = winnerStyle.Render(name)
		}
		b.WriteString(fmt.Sprintf("  %s  %s  %s\n",
			name,
			scoreStyle(st.Total).Render(signed(st.Total)),
			subtleStyle.Render("round ")+scoreStyle(st.RoundDelta).Render(signed(st.RoundDelta)),
		))
	}

	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}
