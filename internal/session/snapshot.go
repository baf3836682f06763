package session

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/rummi-companion/internal/roster"
	"github.com/vovakirdan/rummi-companion/internal/scoring"
	"github.com/vovakirdan/rummi-companion/internal/turntimer"
)

var (
	ErrNoSnapshot      = errors.New("session: no snapshot")
	ErrInvalidSnapshot = errors.New("session: invalid snapshot")
)

// Snapshot is the persisted form of a session.
type Snapshot struct {
	GameState        Phase          `yaml:"gameState"`
	Players          []PlayerRecord `yaml:"players"`
	TimeLimitSeconds int            `yaml:"timeLimitSeconds"`
	TimerState       *TimerState    `yaml:"timerState,omitempty"`
	GameID           string         `yaml:"gameId,omitempty"`
	Round            int            `yaml:"round,omitempty"`
}

// PlayerRecord is the persisted form of a player.
type PlayerRecord struct {
	ID             string `yaml:"id"`
	Name           string `yaml:"name"`
	PenaltyScore   *int   `yaml:"penaltyScore"`
	ScoreBreakdown string `yaml:"scoreBreakdown,omitempty"`
	IsWinner       bool   `yaml:"isWinner"`
	TotalScore     int    `yaml:"totalScore"`
}

// TimerState is the persisted form of the turn timer.
type TimerState struct {
	CurrentPlayerIndex int  `yaml:"currentPlayerIndex"`
	TimeLeft           int  `yaml:"timeLeft"`
	Paused             bool `yaml:"paused,omitempty"`
}

// Snapshot captures the current session.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		GameState:        s.phase,
		Players:          []PlayerRecord{},
		TimeLimitSeconds: s.timeLimit,
		GameID:           s.gameID,
		Round:            s.round,
	}
	for _, p := range s.Players() {
		snap.Players = append(snap.Players, PlayerRecord{
			ID:             p.ID,
			Name:           p.Name,
			PenaltyScore:   p.PenaltyScore,
			ScoreBreakdown: p.ScoreBreakdown,
			IsWinner:       p.IsWinner,
			TotalScore:     p.TotalScore,
		})
	}
	if s.timer != nil {
		ts := s.timer.Snapshot()
		snap.TimerState = &TimerState{
			CurrentPlayerIndex: ts.CurrentPlayerIndex,
			TimeLeft:           ts.TimeLeft,
			Paused:             s.timer.Paused(),
		}
	}
	return snap
}

// Encode serializes the snapshot as YAML.
func (snap Snapshot) Encode() ([]byte, error) {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("session: encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a stored snapshot.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	if len(data) == 0 {
		return Snapshot{}, ErrNoSnapshot
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if !snap.GameState.Valid() {
		return Snapshot{}, fmt.Errorf("%w: unknown game state %q", ErrInvalidSnapshot, snap.GameState)
	}
	return snap, nil
}

// Restore rebuilds a session from a snapshot.
func Restore(snap Snapshot, limits Limits) (*Session, error) {
	if !snap.GameState.Valid() {
		return nil, fmt.Errorf("%w: unknown game state %q", ErrInvalidSnapshot, snap.GameState)
	}
	if snap.TimeLimitSeconds <= 0 {
		return nil, fmt.Errorf("%w: time limit %d", ErrInvalidSnapshot, snap.TimeLimitSeconds)
	}

	s := New(limits)
	s.phase = snap.GameState
	s.timeLimit = snap.TimeLimitSeconds
	s.gameID = snap.GameID
	s.round = snap.Round

	if len(snap.Players) == 0 && snap.GameState == PhaseSetup {
		return s, nil
	}

	players := make([]roster.Player, len(snap.Players))
	winners := 0
	for i, rec := range snap.Players {
		players[i] = roster.Player{
			ID:             rec.ID,
			Name:           rec.Name,
			PenaltyScore:   rec.PenaltyScore,
			ScoreBreakdown: rec.ScoreBreakdown,
			IsWinner:       rec.IsWinner,
			TotalScore:     rec.TotalScore,
		}
		if rec.IsWinner {
			winners++
		}
	}
	if winners > 1 {
		return nil, fmt.Errorf("%w: %d winners", ErrInvalidSnapshot, winners)
	}

	r, err := roster.FromPlayers(players)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	r.SetNameFormat(s.limits.NameFormat)
	s.roster = r

	switch snap.GameState {
	case PhasePlaying:
		var ts turntimer.Snapshot
		if snap.TimerState != nil {
			ts = turntimer.Snapshot{
				CurrentPlayerIndex: snap.TimerState.CurrentPlayerIndex,
				TimeLeft:           snap.TimerState.TimeLeft,
			}
		} else {
			ts = turntimer.Snapshot{TimeLeft: snap.TimeLimitSeconds}
		}
		t, err := turntimer.Restore(snap.TimeLimitSeconds, r.Len(), ts)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
		}
		t.SetAutoAdvance(s.limits.AutoAdvance)
		if snap.TimerState != nil && snap.TimerState.Paused {
			t.SetPaused(true)
		}
		s.timer = t

	case PhaseScoring:
		s.engine = scoring.Resume(r, false)

	case PhaseResults:
		if !scoring.Resume(r, false).IsRoundComplete() {
			return nil, fmt.Errorf("%w: results without a complete round", ErrInvalidSnapshot)
		}
		s.engine = scoring.Resume(r, true)
	}

	return s, nil
}

// Resume restores a session from stored bytes. It always returns a usable
// session: when the data is missing or broken the session is fresh and the
// error says why the stored state was discarded.
func Resume(data []byte, limits Limits) (*Session, error) {
	snap, err := DecodeSnapshot(data)
	if err != nil {
		return New(limits), err
	}
	s, err := Restore(snap, limits)
	if err != nil {
		return New(limits), err
	}
	return s, nil
}
