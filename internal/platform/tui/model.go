package tui

import (
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/rummi-companion/internal/session"
	"github.com/vovakirdan/rummi-companion/internal/vision"
)

// editMode says what the text input is collecting.
type editMode int

const (
	editNone editMode = iota
	editName
	editPenalty
	editScanPath
)

// Options configures a companion model.
type Options struct {
	Session *session.Session
	Scorer  vision.Scorer
	Logger  *log.Logger

	// ScanTimeout bounds a photo scan; zero uses vision.DefaultTimeout.
	ScanTimeout time.Duration

	// User is shown in the header when serving over SSH.
	User string

	Width  int
	Height int
}

// Model is the Bubble Tea model of one companion session.
type Model struct {
	sess   *session.Session
	scorer vision.Scorer
	logger *log.Logger
	user   string

	keys KeyMap
	help help.Model

	width  int
	height int

	// tickGen identifies the live one-second tick loop.
	tickGen uint64

	cursor  int
	editing editMode
	editID  string
	input   textinput.Model

	slot        vision.Slot
	scanCancel  context.CancelFunc
	scanTimeout time.Duration
	spinner     spinner.Model

	bar   progress.Model
	table table.Model

	confirmReset bool
	status       string
	statusErr    bool
	quitting     bool
}

// NewModel creates a model for the given session.
func NewModel(opts Options) Model {
	sess := opts.Session
	if sess == nil {
		sess = session.New(session.DefaultLimits())
	}
	if sess.Phase() == session.PhaseSetup {
		//nolint:errcheck // Phase checked above
		sess.PrepareSetup()
	}

	scorer := opts.Scorer
	if scorer == nil {
		scorer = vision.Disabled{}
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	timeout := opts.ScanTimeout
	if timeout <= 0 {
		timeout = vision.DefaultTimeout
	}

	ti := textinput.New()
	ti.CharLimit = 256

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	bar := progress.New(progress.WithSolidFill(string(colorGreen)), progress.WithoutPercentage())

	h := help.New()
	h.ShowAll = false

	m := Model{
		sess:        sess,
		scorer:      scorer,
		logger:      logger,
		user:        opts.User,
		keys:        DefaultKeyMap(),
		help:        h,
		width:       opts.Width,
		height:      opts.Height,
		tickGen:     1,
		input:       ti,
		spinner:     sp,
		bar:         bar,
		scanTimeout: timeout,
	}
	m.layout()
	if sess.Phase() == session.PhaseResults {
		m.table = m.resultsTable()
	}
	return m
}

// Init starts the tick loop when a restored session is mid-turn.
func (m Model) Init() tea.Cmd {
	if t := m.sess.Timer(); m.sess.Phase() == session.PhasePlaying && t != nil && !t.Paused() {
		return tickCmd(m.tickGen)
	}
	return nil
}

// Session returns the session driven by the model.
func (m Model) Session() *session.Session {
	return m.sess
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case TickMsg:
		return m.handleTick(msg)

	case scanDoneMsg:
		return m.handleScanDone(msg)

	case spinner.TickMsg:
		if !m.slot.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.editing != editNone {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleTick consumes one second of the running turn.
func (m Model) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.tickGen || m.sess.Phase() != session.PhasePlaying {
		return m, nil
	}
	if t := m.sess.Timer(); t == nil || t.Paused() {
		return m, nil
	}
	//nolint:errcheck // Phase checked above
	m.sess.Tick()
	return m, tickCmd(m.tickGen)
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	if m.editing != editNone {
		return m.updateInput(msg)
	}

	if !key.Matches(msg, m.keys.ResetAll) {
		m.confirmReset = false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		return m, nil
	}

	prev := m.sess.Phase()
	var cmd tea.Cmd
	switch prev {
	case session.PhaseSetup:
		m, cmd = m.updateSetup(msg)
	case session.PhasePlaying:
		m, cmd = m.updateTimer(msg)
	case session.PhaseScoring:
		m, cmd = m.updateScoring(msg)
	case session.PhaseResults:
		m, cmd = m.updateResults(msg)
	}

	return m, tea.Batch(cmd, m.transition(prev))
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.cancelScan()
	m.quitting = true
	return m, tea.Quit
}

// transition reacts to a phase change made by the last action.
func (m *Model) transition(prev session.Phase) tea.Cmd {
	next := m.sess.Phase()
	if next == prev {
		return nil
	}

	// A new loop per turn phase; the old one dies on its next tick.
	m.tickGen++
	var cmd tea.Cmd
	if next == session.PhasePlaying {
		cmd = tickCmd(m.tickGen)
	}

	m.cursor = 0
	if prev == session.PhaseScoring {
		m.cancelScan()
	}
	if next == session.PhaseResults {
		m.table = m.resultsTable()
	}
	if next == session.PhaseSetup {
		//nolint:errcheck // Phase checked above
		m.sess.PrepareSetup()
	}
	m.logger.Debug("phase changed", "from", prev, "to", next)
	return cmd
}

// startEdit focuses the text input.
func (m *Model) startEdit(mode editMode, id, value, placeholder string) tea.Cmd {
	m.editing = mode
	m.editID = id
	m.input.SetValue(value)
	m.input.Placeholder = placeholder
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) stopEdit() {
	m.editing = editNone
	m.editID = ""
	m.input.Blur()
	m.input.SetValue("")
}

// updateInput routes keys to the active text input.
func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.stopEdit()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		mode, id, value := m.editing, m.editID, m.input.Value()
		m.stopEdit()
		switch mode {
		case editName:
			m.setStatus(m.sess.RenamePlayer(id, value), "")
		case editPenalty:
			m.setStatus(m.sess.SetPenaltyText(id, value), "")
		case editScanPath:
			return m.startScan(id, strings.TrimSpace(value))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// setStatus shows err, or info when err is nil.
func (m *Model) setStatus(err error, info string) {
	if err != nil {
		m.status = err.Error()
		m.statusErr = true
		return
	}
	m.status = info
	m.statusErr = false
}

// moveCursor keeps the cursor within n rows.
func (m *Model) moveCursor(msg tea.KeyMsg, n int) bool {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return true
	case key.Matches(msg, m.keys.Down):
		if m.cursor < n-1 {
			m.cursor++
		}
		return true
	}
	return false
}

// selectedID returns the id of the player under the cursor.
func (m Model) selectedID() string {
	ps := m.sess.Players()
	if m.cursor < 0 || m.cursor >= len(ps) {
		return ""
	}
	return ps[m.cursor].ID
}

// layout sizes widgets to the window.
func (m *Model) layout() {
	if m.width > 0 {
		m.bar.Width = min(max(m.width-8, 10), 60)
		m.help.Width = m.width
	}
	if m.sess.Phase() == session.PhaseResults {
		m.table.SetHeight(m.tableHeight())
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.sess.Phase() {
	case session.PhaseSetup:
		body = m.viewSetup()
	case session.PhasePlaying:
		body = m.viewTimer()
	case session.PhaseScoring:
		body = m.viewScoring()
	case session.PhaseResults:
		body = m.viewResults()
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n")

	if m.status != "" {
		style := infoStyle
		if m.statusErr {
			style = errorStyle
		}
		b.WriteString("\n")
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(phaseKeys{keys: m.keys, phase: m.sess.Phase(), editing: m.editing != editNone}))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m Model) header() string {
	title := titleStyle.Render("RUMMIKUB")
	var sub string
	switch m.sess.Phase() {
	case session.PhaseSetup:
		sub = "Game Setup"
	case session.PhasePlaying:
		sub = "Turn Timer"
	case session.PhaseScoring:
		sub = "Round Scoring"
	case session.PhaseResults:
		sub = "Final Scores"
	}
	if r := m.sess.Round(); r > 0 && m.sess.Phase() != session.PhaseSetup {
		sub += subtleStyle.Render("  round " + strconv.Itoa(r))
	}
	if m.user != "" {
		sub += subtleStyle.Render("  @" + m.user)
	}
	return title + "  " + sub
}

// Run starts the Bubble Tea program with the given options.
func Run(opts Options) error {
	p := tea.NewProgram(
		NewModel(opts),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
