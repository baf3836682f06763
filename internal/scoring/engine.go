// Package scoring turns end-of-round penalty tallies into score changes.
//
// The round winner collects from the table: every other player loses their
// penalty and the winner gains the sum of those penalties, so each round is
// zero-sum across the roster.
package scoring

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vovakirdan/rummi-companion/internal/roster"
)

var (
	ErrRoundIncomplete = errors.New("scoring: round is not complete")
	ErrRoundFinalized  = errors.New("scoring: round already finalized")
	ErrWinnerPenalty   = errors.New("scoring: the winner's penalty is computed")
	ErrNoRoster        = errors.New("scoring: no roster")
)

// Delta is one player's score change for a finalized round.
type Delta struct {
	PlayerID string
	Name     string
	Penalty  int
	Delta    int
	Total    int
	IsWinner bool
}

// Outcome summarizes a finalized round.
type Outcome struct {
	WinnerID     string
	WinnerName   string
	TotalPenalty int
	Deltas       []Delta
}

// Sum returns the sum of all deltas. It is always zero.
func (o Outcome) Sum() int {
	sum := 0
	for _, d := range o.Deltas {
		sum += d.Delta
	}
	return sum
}

// Engine collects penalties for one round of a roster.
type Engine struct {
	roster    *roster.Roster
	finalized bool
}

// NewEngine starts scoring a round for r.
func NewEngine(r *roster.Roster) *Engine {
	return &Engine{roster: r}
}

// Resume attaches an engine to a roster whose round may already be final.
func Resume(r *roster.Roster, finalized bool) *Engine {
	return &Engine{roster: r, finalized: finalized}
}

// Finalized reports whether FinalizeRound succeeded for this round.
func (e *Engine) Finalized() bool {
	return e.finalized
}

// DeclareWinner marks id as the round winner and clears every other winner
// flag. The winner's penalty becomes 0 until the round is finalized.
// Declaring the current winner again changes nothing.
func (e *Engine) DeclareWinner(id string) error {
	if err := e.check(); err != nil {
		return err
	}
	if e.roster.Index(id) < 0 {
		return fmt.Errorf("%w: %q", roster.ErrUnknownPlayer, id)
	}
	if w, ok := e.Winner(); ok && w.ID == id {
		return nil
	}

	e.roster.Each(func(p *roster.Player) {
		switch {
		case p.ID == id:
			p.IsWinner = true
			p.PenaltyScore = roster.IntPtr(0)
			p.ScoreBreakdown = ""
		case p.IsWinner:
			// The previous winner has to be scored like everyone else.
			p.IsWinner = false
			p.PenaltyScore = nil
		}
	})
	return nil
}

// Winner returns the declared winner, if any.
func (e *Engine) Winner() (roster.Player, bool) {
	if e.roster == nil {
		return roster.Player{}, false
	}
	for _, p := range e.roster.Players() {
		if p.IsWinner {
			return p, true
		}
	}
	return roster.Player{}, false
}

// HasWinner reports whether a winner is declared.
func (e *Engine) HasWinner() bool {
	_, ok := e.Winner()
	return ok
}

// SetPenalty stores a manual penalty for a non-winner. A nil value marks the
// player as unscored. Any integer is accepted; range checks belong to callers.
func (e *Engine) SetPenalty(id string, value *int) error {
	if err := e.check(); err != nil {
		return err
	}
	p, ok := e.roster.Get(id)
	if !ok {
		return fmt.Errorf("%w: %q", roster.ErrUnknownPlayer, id)
	}
	if p.IsWinner {
		return ErrWinnerPenalty
	}

	return e.roster.Update(id, func(p *roster.Player) {
		if value == nil {
			p.PenaltyScore = nil
		} else {
			p.PenaltyScore = roster.IntPtr(*value)
		}
		p.ScoreBreakdown = ""
	})
}

// SetPenaltyText parses user input and stores it. Text that is not a number
// marks the player as unscored.
func (e *Engine) SetPenaltyText(id, text string) error {
	return e.SetPenalty(id, ParsePenalty(text))
}

// SetScanned stores a penalty produced by photo scanning with its breakdown.
func (e *Engine) SetScanned(id string, score int, breakdown string) error {
	if err := e.SetPenalty(id, &score); err != nil {
		return err
	}
	return e.roster.Update(id, func(p *roster.Player) {
		p.ScoreBreakdown = breakdown
	})
}

// Pending returns the non-winners that still need a penalty.
func (e *Engine) Pending() []roster.Player {
	if e.roster == nil {
		return nil
	}
	var pending []roster.Player
	for _, p := range e.roster.Players() {
		if !p.IsWinner && !p.HasPenalty() {
			pending = append(pending, p)
		}
	}
	return pending
}

// IsRoundComplete reports whether a winner is declared and every other
// player has a penalty.
func (e *Engine) IsRoundComplete() bool {
	if e.roster == nil {
		return false
	}
	winners := 0
	for _, p := range e.roster.Players() {
		if p.IsWinner {
			winners++
			continue
		}
		if !p.HasPenalty() {
			return false
		}
	}
	return winners == 1
}

// TotalPenalty returns the sum of the non-winners' penalties so far.
func (e *Engine) TotalPenalty() int {
	if e.roster == nil {
		return 0
	}
	total := 0
	for _, p := range e.roster.Players() {
		if !p.IsWinner {
			total += p.Penalty()
		}
	}
	return total
}

// FinalizeRound applies the round to every player's total. The roster is
// left untouched when the round is incomplete.
func (e *Engine) FinalizeRound() (Outcome, error) {
	if err := e.check(); err != nil {
		return Outcome{}, err
	}
	if !e.IsRoundComplete() {
		return Outcome{}, fmt.Errorf("%w: %d player(s) unscored", ErrRoundIncomplete, len(e.Pending()))
	}

	totalPenalty := e.TotalPenalty()
	outcome := Outcome{TotalPenalty: totalPenalty}

	e.roster.Each(func(p *roster.Player) {
		d := Delta{PlayerID: p.ID, Name: p.Name, IsWinner: p.IsWinner}
		if p.IsWinner {
			p.PenaltyScore = roster.IntPtr(totalPenalty)
			d.Penalty = totalPenalty
			d.Delta = totalPenalty
			outcome.WinnerID = p.ID
			outcome.WinnerName = p.Name
		} else {
			d.Penalty = p.Penalty()
			d.Delta = -p.Penalty()
		}
		p.TotalScore += d.Delta
		d.Total = p.TotalScore
		outcome.Deltas = append(outcome.Deltas, d)
	})

	e.finalized = true
	return outcome, nil
}

func (e *Engine) check() error {
	if e.roster == nil {
		return ErrNoRoster
	}
	if e.finalized {
		return ErrRoundFinalized
	}
	return nil
}

// ParsePenalty converts user text to a penalty. Anything that is not a whole
// number yields nil.
func ParsePenalty(text string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return nil
	}
	return &v
}
