// Package session owns the state of one companion session: the phase of the
// round flow, the roster, the turn timer and the scoring engine. A single
// driver (the TUI model) mutates it; observers are notified after every
// change.
package session

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vovakirdan/rummi-companion/internal/roster"
	"github.com/vovakirdan/rummi-companion/internal/scoring"
	"github.com/vovakirdan/rummi-companion/internal/turntimer"
)

// Phase is the step of the round flow the session is in.
type Phase string

const (
	PhaseSetup   Phase = "setup"
	PhasePlaying Phase = "playing"
	PhaseScoring Phase = "scoring"
	PhaseResults Phase = "results"
)

// Valid reports whether p is a known phase.
func (p Phase) Valid() bool {
	switch p {
	case PhaseSetup, PhasePlaying, PhaseScoring, PhaseResults:
		return true
	}
	return false
}

var (
	ErrWrongPhase       = errors.New("session: action not allowed in this phase")
	ErrTimeLimitRange   = errors.New("session: time limit out of range")
	ErrRosterNotReady   = errors.New("session: roster not set up")
	ErrNameLockedInPlay = errors.New("session: names can only change during setup")
)

// Limits bounds the setup choices.
type Limits struct {
	DefaultSeconds int
	MinSeconds     int
	MaxSeconds     int
	StepSeconds    int
	DefaultPlayers int
	NameFormat     string
	AutoAdvance    bool
}

// DefaultLimits returns the stock setup bounds.
func DefaultLimits() Limits {
	return Limits{
		DefaultSeconds: 60,
		MinSeconds:     30,
		MaxSeconds:     120,
		StepSeconds:    10,
		DefaultPlayers: roster.MinPlayers,
		NameFormat:     roster.DefaultNameFormat,
	}
}

func (l Limits) normalized() Limits {
	d := DefaultLimits()
	if l.MinSeconds <= 0 {
		l.MinSeconds = d.MinSeconds
	}
	if l.MaxSeconds < l.MinSeconds {
		l.MaxSeconds = max(d.MaxSeconds, l.MinSeconds)
	}
	if l.StepSeconds <= 0 {
		l.StepSeconds = d.StepSeconds
	}
	if l.DefaultSeconds <= 0 {
		l.DefaultSeconds = d.DefaultSeconds
	}
	if l.DefaultPlayers < roster.MinPlayers || l.DefaultPlayers > roster.MaxPlayers {
		l.DefaultPlayers = d.DefaultPlayers
	}
	if l.NameFormat == "" {
		l.NameFormat = d.NameFormat
	}
	return l
}

// Observer is called after every state change.
type Observer func(s *Session)

// RoundObserver is called once per finalized round.
type RoundObserver func(s *Session, outcome scoring.Outcome)

// Session is the explicit session object shared by the screens.
type Session struct {
	phase     Phase
	roster    *roster.Roster
	timeLimit int
	timer     *turntimer.Timer
	engine    *scoring.Engine
	limits    Limits

	gameID string
	round  int // rounds finalized in this game

	observers      []Observer
	roundObservers []RoundObserver
}

// New returns a fresh session in setup with an empty roster.
func New(limits Limits) *Session {
	limits = limits.normalized()
	return &Session{
		phase:     PhaseSetup,
		timeLimit: limits.DefaultSeconds,
		limits:    limits,
	}
}

// Observe registers fn to run after every change.
func (s *Session) Observe(fn Observer) {
	s.observers = append(s.observers, fn)
}

// OnRound registers fn to run after every finalized round.
func (s *Session) OnRound(fn RoundObserver) {
	s.roundObservers = append(s.roundObservers, fn)
}

func (s *Session) notify() {
	for _, fn := range s.observers {
		fn(s)
	}
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	return s.phase
}

// Limits returns the setup bounds.
func (s *Session) Limits() Limits {
	return s.limits
}

// TimeLimit returns the per-turn limit in seconds.
func (s *Session) TimeLimit() int {
	return s.timeLimit
}

// GameID identifies the game since the last full reset.
func (s *Session) GameID() string {
	return s.gameID
}

// Round returns the number of rounds finalized in this game.
func (s *Session) Round() int {
	return s.round
}

// Players returns a copy of the roster, or nil before setup.
func (s *Session) Players() []roster.Player {
	if s.roster == nil {
		return nil
	}
	return s.roster.Players()
}

// Timer returns the turn timer while playing, or nil.
func (s *Session) Timer() *turntimer.Timer {
	return s.timer
}

// Engine returns the scoring engine while scoring or showing results.
func (s *Session) Engine() *scoring.Engine {
	return s.engine
}

// CurrentPlayer returns the player whose turn it is.
func (s *Session) CurrentPlayer() (roster.Player, bool) {
	if s.timer == nil || s.roster == nil || s.roster.Len() == 0 {
		return roster.Player{}, false
	}
	return s.roster.At(s.timer.Current()), true
}

// Standings ranks the roster by total score.
func (s *Session) Standings() []scoring.Standing {
	return scoring.Rank(s.Players())
}

func (s *Session) require(p Phase) error {
	if s.phase != p {
		return fmt.Errorf("%w: in %s, need %s", ErrWrongPhase, s.phase, p)
	}
	return nil
}

// PrepareSetup makes sure a setup roster exists.
func (s *Session) PrepareSetup() error {
	if err := s.require(PhaseSetup); err != nil {
		return err
	}
	if s.roster != nil {
		return nil
	}
	r, err := roster.NewWithFormat(s.limits.DefaultPlayers, s.limits.NameFormat)
	if err != nil {
		return err
	}
	s.roster = r
	s.notify()
	return nil
}

// AddPlayer adds a player during setup.
func (s *Session) AddPlayer(name string) (roster.Player, error) {
	if err := s.PrepareSetup(); err != nil {
		return roster.Player{}, err
	}
	p, err := s.roster.Add(name)
	if err != nil {
		return roster.Player{}, err
	}
	s.notify()
	return p, nil
}

// RemovePlayer drops a player during setup.
func (s *Session) RemovePlayer(id string) error {
	if err := s.PrepareSetup(); err != nil {
		return err
	}
	if err := s.roster.Remove(id); err != nil {
		return err
	}
	s.notify()
	return nil
}

// RenamePlayer changes a name during setup.
func (s *Session) RenamePlayer(id, name string) error {
	if s.phase != PhaseSetup {
		return ErrNameLockedInPlay
	}
	if err := s.PrepareSetup(); err != nil {
		return err
	}
	if err := s.roster.Rename(id, name); err != nil {
		return err
	}
	s.notify()
	return nil
}

// SetTimeLimit sets the per-turn limit during setup.
func (s *Session) SetTimeLimit(seconds int) error {
	if err := s.require(PhaseSetup); err != nil {
		return err
	}
	if seconds < s.limits.MinSeconds || seconds > s.limits.MaxSeconds {
		return fmt.Errorf("%w: %ds not in [%d, %d]", ErrTimeLimitRange, seconds, s.limits.MinSeconds, s.limits.MaxSeconds)
	}
	s.timeLimit = seconds
	s.notify()
	return nil
}

// StepTimeLimit moves the limit by dir steps, staying inside the bounds.
func (s *Session) StepTimeLimit(dir int) error {
	next := s.timeLimit + dir*s.limits.StepSeconds
	next = min(max(next, s.limits.MinSeconds), s.limits.MaxSeconds)
	if next == s.timeLimit {
		return nil
	}
	return s.SetTimeLimit(next)
}

// Start leaves setup and starts the first turn.
func (s *Session) Start() error {
	if err := s.require(PhaseSetup); err != nil {
		return err
	}
	if s.roster == nil || s.roster.Len() < roster.MinPlayers {
		return ErrRosterNotReady
	}
	if err := s.startRound(); err != nil {
		return err
	}
	s.gameID = uuid.NewString()
	s.round = 0
	s.notify()
	return nil
}

func (s *Session) startRound() error {
	t, err := turntimer.New(s.timeLimit, s.roster.Len())
	if err != nil {
		return err
	}
	t.SetAutoAdvance(s.limits.AutoAdvance)
	s.timer = t
	s.engine = nil
	s.phase = PhasePlaying
	return nil
}

// Tick consumes one second of the current turn.
func (s *Session) Tick() error {
	if err := s.require(PhasePlaying); err != nil {
		return err
	}
	if s.timer.Tick() {
		s.notify()
	}
	return nil
}

// SetPaused pauses or resumes the turn timer.
func (s *Session) SetPaused(paused bool) error {
	if err := s.require(PhasePlaying); err != nil {
		return err
	}
	s.timer.SetPaused(paused)
	s.notify()
	return nil
}

// TogglePause flips the pause state and returns it.
func (s *Session) TogglePause() (bool, error) {
	if err := s.require(PhasePlaying); err != nil {
		return false, err
	}
	paused := s.timer.TogglePause()
	s.notify()
	return paused, nil
}

// EndTurn passes the turn to the next player.
func (s *Session) EndTurn() error {
	if err := s.require(PhasePlaying); err != nil {
		return err
	}
	if err := s.timer.Advance(); err != nil {
		return err
	}
	s.notify()
	return nil
}

// EndGame stops the timer and moves on to scoring.
func (s *Session) EndGame() error {
	if err := s.require(PhasePlaying); err != nil {
		return err
	}
	s.timer.Stop()
	s.timer = nil
	s.engine = scoring.NewEngine(s.roster)
	s.phase = PhaseScoring
	s.notify()
	return nil
}

// DeclareWinner marks the round winner.
func (s *Session) DeclareWinner(id string) error {
	if err := s.require(PhaseScoring); err != nil {
		return err
	}
	if err := s.engine.DeclareWinner(id); err != nil {
		return err
	}
	s.notify()
	return nil
}

// SetPenalty stores a penalty, nil meaning unscored.
func (s *Session) SetPenalty(id string, value *int) error {
	if err := s.require(PhaseScoring); err != nil {
		return err
	}
	if err := s.engine.SetPenalty(id, value); err != nil {
		return err
	}
	s.notify()
	return nil
}

// SetPenaltyText stores a penalty typed by the user.
func (s *Session) SetPenaltyText(id, text string) error {
	return s.SetPenalty(id, scoring.ParsePenalty(text))
}

// ApplyScan stores a penalty produced by the photo scanner.
func (s *Session) ApplyScan(id string, score int, breakdown string) error {
	if err := s.require(PhaseScoring); err != nil {
		return err
	}
	if err := s.engine.SetScanned(id, score, breakdown); err != nil {
		return err
	}
	s.notify()
	return nil
}

// CanFinish reports whether the round can be finalized.
func (s *Session) CanFinish() bool {
	return s.phase == PhaseScoring && s.engine.IsRoundComplete()
}

// FinishRound folds the round into the totals and shows the results.
func (s *Session) FinishRound() (scoring.Outcome, error) {
	if err := s.require(PhaseScoring); err != nil {
		return scoring.Outcome{}, err
	}
	outcome, err := s.engine.FinalizeRound()
	if err != nil {
		return scoring.Outcome{}, err
	}
	s.round++
	s.phase = PhaseResults
	for _, fn := range s.roundObservers {
		fn(s, outcome)
	}
	s.notify()
	return outcome, nil
}

// NextRound clears the round fields and starts a new round. Totals are kept.
func (s *Session) NextRound() error {
	if err := s.require(PhaseResults); err != nil {
		return err
	}
	s.roster.ResetRound()
	if err := s.startRound(); err != nil {
		return err
	}
	s.notify()
	return nil
}

// Reset returns to setup. Names carry over, totals start from zero.
func (s *Session) Reset() error {
	var names []string
	if s.roster != nil {
		names = s.roster.Names()
	}

	s.roster = nil
	if len(names) >= roster.MinPlayers {
		r, err := roster.FromNames(names)
		if err != nil {
			return err
		}
		r.SetNameFormat(s.limits.NameFormat)
		s.roster = r
	}

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = nil
	s.engine = nil
	s.gameID = ""
	s.round = 0
	s.phase = PhaseSetup
	s.notify()
	return nil
}
