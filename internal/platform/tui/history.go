package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/rummi-companion/internal/storage"
)

// History layout constants
const (
	minWidthForSidebar = 90  // Minimum width to show the session sidebar
	sidebarWidth       = 22  // Width of session sidebar
	maxRounds          = 100 // Max rounds to load
)

// HistoryKeyMap defines the key bindings for the round history.
type HistoryKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Quit        key.Binding
	NextSession key.Binding
	PrevSession key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextSession, k.PrevSession, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextSession, k.PrevSession},
		{k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev session"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next session"),
		),
		NextSession: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next session"),
		),
		PrevSession: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev session"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel browses the round log one session at a time.
type HistoryModel struct {
	sessions    []string
	cursor      int
	store       *storage.Store
	rounds      []storage.RoundRecord
	table       table.Model
	help        help.Model
	keys        HistoryKeyMap
	width       int
	height      int
	err         error
	quitting    bool
	showSidebar bool
}

// NewHistoryModel creates a history browser. Sessions with rounds are
// listed most recent first; current selects one by key.
func NewHistoryModel(store *storage.Store, current string, width, height int) HistoryModel {
	h := help.New()
	h.ShowAll = false

	m := HistoryModel{
		store:       store,
		keys:        DefaultHistoryKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}

	if store != nil {
		m.sessions, m.err = store.RoundSessions()
	}
	for i, k := range m.sessions {
		if k == current {
			m.cursor = i
		}
	}

	m.table = m.createTable()
	if len(m.sessions) > 0 {
		m.loadRounds(m.sessions[m.cursor])
	}
	return m
}

// createTable creates a new table with appropriate columns.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Round", Width: 6},
		{Title: "Date", Width: 13},
		{Title: "Winner", Width: 14},
		{Title: "Won", Width: 6},
		{Title: "Penalties", Width: 30},
	}

	tableWidth := m.width - 4
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3
	}
	if rest := tableWidth - 47; rest > 12 {
		columns[4].Width = min(rest, 50)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 5)),
	)

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

// loadRounds loads the rounds of the given session.
func (m *HistoryModel) loadRounds(sessionKey string) {
	if m.store == nil {
		m.rounds = nil
		m.updateTableRows()
		return
	}

	rounds, err := m.store.RecentRounds(sessionKey, maxRounds)
	if err != nil {
		m.err = err
		m.rounds = nil
	} else {
		m.rounds = rounds
	}
	m.updateTableRows()
}

// updateTableRows updates the table with the loaded rounds.
func (m *HistoryModel) updateTableRows() {
	rows := make([]table.Row, len(m.rounds))
	for i, r := range m.rounds {
		rows[i] = table.Row{
			fmt.Sprintf("%d", r.RoundNo),
			r.CreatedAt.Format("Jan 02 15:04"),
			r.WinnerName,
			signed(r.TotalPenalty),
			penaltySummary(r),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// penaltySummary lists the losers of a round with their penalties.
func penaltySummary(r storage.RoundRecord) string {
	var parts []string
	for _, p := range r.Players {
		if p.IsWinner {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s -%d", p.Name, p.Penalty))
	}
	return strings.Join(parts, ", ")
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history browser.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextSession), key.Matches(msg, m.keys.Right):
			if len(m.sessions) > 0 {
				m.cursor = (m.cursor + 1) % len(m.sessions)
				m.loadRounds(m.sessions[m.cursor])
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevSession), key.Matches(msg, m.keys.Left):
			if len(m.sessions) > 0 {
				m.cursor--
				if m.cursor < 0 {
					m.cursor = len(m.sessions) - 1
				}
				m.loadRounds(m.sessions[m.cursor])
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// Session returns the selected session key.
func (m HistoryModel) Session() string {
	if len(m.sessions) == 0 {
		return ""
	}
	return m.sessions[m.cursor]
}

// View renders the round history.
func (m HistoryModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := "ROUND HISTORY"
	if s := m.Session(); s != "" {
		title = fmt.Sprintf("ROUND HISTORY - %s", s)
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	tableBox := boxStyle.Render(m.renderTableContent())
	if m.showSidebar && len(m.sessions) > 0 {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", tableBox))
	} else {
		if len(m.sessions) > 1 {
			b.WriteString(fmt.Sprintf("< %s >\n\n", m.Session()))
		}
		b.WriteString(tableBox)
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.err.Error()))
	}

	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderSidebar lists the sessions.
func (m HistoryModel) renderSidebar() string {
	sidebarStyle := boxStyle.Width(sidebarWidth)

	var sidebar strings.Builder
	sidebar.WriteString("Sessions\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, k := range m.sessions {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = selectedStyle
		}
		name := k
		maxLen := sidebarWidth - 6
		if len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		sidebar.WriteString(style.Render(cursor + name))
		sidebar.WriteString("\n")
	}

	return sidebarStyle.Render(sidebar.String())
}

// renderTableContent renders the table or empty message.
func (m HistoryModel) renderTableContent() string {
	if len(m.rounds) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No rounds recorded yet.\nFinish a round to start the log!")
	}
	return m.table.View()
}

// RunHistory runs the round history browser.
func RunHistory(store *storage.Store, current string, width, height int) error {
	p := tea.NewProgram(
		NewHistoryModel(store, current, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
