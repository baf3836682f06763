package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/rummi-companion/internal/config"
	"github.com/vovakirdan/rummi-companion/internal/vision"
)

// scanDoneMsg carries the answer of a photo scan.
type scanDoneMsg struct {
	seq     uint64
	result  vision.Result
	err     error
	elapsed time.Duration
}

// updateScoring handles the scoring screen.
func (m Model) updateScoring(msg tea.KeyMsg) (Model, tea.Cmd) {
	players := m.sess.Players()
	if m.moveCursor(msg, len(players)) {
		return m, nil
	}
	id := m.selectedID()

	switch {
	case key.Matches(msg, m.keys.Winner):
		err := m.sess.DeclareWinner(id)
		m.setStatus(err, "")
		if err == nil && m.slot.Target() == id {
			m.cancelScan()
			m.status = "Scan cancelled: the winner scores zero."
		}

	case key.Matches(msg, m.keys.Penalty):
		if id == "" {
			return m, nil
		}
		p := players[m.cursor]
		if p.IsWinner {
			m.status = "The winner scores zero."
			m.statusErr = false
			return m, nil
		}
		if m.slot.Busy() && m.slot.Target() == id {
			m.status = "A photo of this rack is being analyzed. Press esc to cancel it first."
			m.statusErr = true
			return m, nil
		}
		value := ""
		if p.HasPenalty() {
			value = fmt.Sprintf("%d", p.Penalty())
		}
		return m, m.startEdit(editPenalty, id, value, "tile total")

	case key.Matches(msg, m.keys.Scan):
		if id == "" {
			return m, nil
		}
		if players[m.cursor].IsWinner {
			m.status = "The winner scores zero."
			m.statusErr = false
			return m, nil
		}
		if m.slot.Busy() {
			m.status = vision.UserMessage(&vision.Error{Kind: vision.KindBusy, Err: vision.ErrBusy})
			m.statusErr = true
			return m, nil
		}
		return m, m.startEdit(editScanPath, id, "", "path to a photo of the rack")

	case key.Matches(msg, m.keys.Cancel):
		if m.slot.Busy() {
			m.cancelScan()
			m.status = "Scan cancelled."
			m.statusErr = false
		}

	case key.Matches(msg, m.keys.Finish):
		if !m.sess.CanFinish() {
			m.status = m.pendingMessage()
			m.statusErr = true
			return m, nil
		}
		outcome, err := m.sess.FinishRound()
		m.setStatus(err, "")
		if err == nil {
			m.logger.Info("round finalized",
				"game", m.sess.GameID(),
				"round", m.sess.Round(),
				"winner", outcome.WinnerName,
				"penalty", outcome.TotalPenalty,
			)
		}
	}
	return m, nil
}

// pendingMessage explains why the round cannot be finalized yet.
func (m Model) pendingMessage() string {
	engine := m.sess.Engine()
	if engine == nil || !engine.HasWinner() {
		return "Declare a winner first."
	}
	var names []string
	for _, p := range engine.Pending() {
		names = append(names, p.Name)
	}
	if len(names) == 0 {
		return "Round is not complete."
	}
	return "Waiting for scores: " + strings.Join(names, ", ")
}

// startScan reads the photo and sends it to the scorer in the background.
func (m Model) startScan(id, path string) (Model, tea.Cmd) {
	if path == "" {
		return m, nil
	}
	seq, err := m.slot.Acquire(id)
	if err != nil {
		m.status = vision.UserMessage(err)
		m.statusErr = true
		return m, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.scanTimeout)
	m.scanCancel = cancel
	m.status = ""
	m.logger.Info("scan started", "player", id, "file", path)

	scorer := m.scorer
	scan := func() tea.Msg {
		start := time.Now()
		data, err := os.ReadFile(config.ExpandHome(path))
		if err != nil {
			return scanDoneMsg{seq: seq, err: &vision.Error{Kind: vision.KindImage, Err: err}, elapsed: time.Since(start)}
		}
		res, err := scorer.Score(ctx, data)
		return scanDoneMsg{seq: seq, result: res, err: err, elapsed: time.Since(start)}
	}
	return m, tea.Batch(scan, m.spinner.Tick)
}

// handleScanDone applies a scan answer unless it was abandoned.
func (m Model) handleScanDone(msg scanDoneMsg) (tea.Model, tea.Cmd) {
	target, ok := m.slot.Release(msg.seq)
	if !ok {
		m.logger.Debug("dropping stale scan result", "seq", msg.seq)
		return m, nil
	}
	if m.scanCancel != nil {
		m.scanCancel()
		m.scanCancel = nil
	}

	if msg.err != nil {
		m.logger.Warn("scan failed", "player", target, "kind", vision.KindOf(msg.err), "error", msg.err, "elapsed", msg.elapsed)
		m.status = vision.UserMessage(msg.err)
		m.statusErr = true
		return m, nil
	}

	err := m.sess.ApplyScan(target, msg.result.Score, msg.result.Breakdown)
	if err != nil {
		m.logger.Warn("scan result rejected", "player", target, "error", err)
		m.setStatus(err, "")
		return m, nil
	}
	m.logger.Info("scan finished", "player", target, "score", msg.result.Score, "elapsed", msg.elapsed)
	m.status = fmt.Sprintf("Scanned %d points.", msg.result.Score)
	m.statusErr = false
	return m, nil
}

// cancelScan abandons the outstanding scan, if any.
func (m *Model) cancelScan() {
	if m.scanCancel != nil {
		m.scanCancel()
		m.scanCancel = nil
	}
	m.slot.Cancel()
}

func (m Model) viewScoring() string {
	var b strings.Builder

	engine := m.sess.Engine()
	if engine != nil && engine.HasWinner() {
		b.WriteString(fmt.Sprintf("Winner collects %s\n\n", infoStyle.Bold(true).Render(fmt.Sprintf("%d", engine.TotalPenalty()))))
	} else {
		b.WriteString(subtleStyle.Render("Who went out? Press w on the winner.") + "\n\n")
	}

	for i, p := range m.sess.Players() {
		cursor := "  "
		name := fmt.Sprintf("%-20s", p.Name)
		if i == m.cursor {
			cursor = "> "
			name = selectedStyle.Render(name)
		}

		var score string
		switch {
		case p.IsWinner:
			score = winnerStyle.Render("WINNER")
		case m.slot.Busy() && m.slot.Target() == p.ID:
			score = m.spinner.View() + " analyzing..."
		case i == m.cursor && m.editing == editPenalty:
			score = m.input.View()
		case p.HasPenalty():
			score = errorStyle.Render(fmt.Sprintf("-%d", p.Penalty()))
		default:
			score = subtleStyle.Render("--")
		}

		b.WriteString(fmt.Sprintf("%s%s %s\n", cursor, name, score))
		if p.ScoreBreakdown != "" && !p.IsWinner {
			b.WriteString("    " + subtleStyle.Render(p.ScoreBreakdown) + "\n")
		}
	}

	if m.editing == editScanPath {
		b.WriteString("\nPhoto: " + m.input.View() + "\n")
	}

	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}
