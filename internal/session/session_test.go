package session

import (
	"errors"
	"testing"

	"github.com/vovakirdan/rummi-companion/internal/roster"
	"github.com/vovakirdan/rummi-companion/internal/scoring"
)

// startedSession returns a session in play with the given names.
func startedSession(t *testing.T, names ...string) *Session {
	t.Helper()
	s := New(DefaultLimits())
	if err := s.PrepareSetup(); err != nil {
		t.Fatalf("PrepareSetup() failed: %v", err)
	}
	for len(s.Players()) < len(names) {
		if _, err := s.AddPlayer(""); err != nil {
			t.Fatalf("AddPlayer() failed: %v", err)
		}
	}
	for i, p := range s.Players() {
		if err := s.RenamePlayer(p.ID, names[i]); err != nil {
			t.Fatalf("RenamePlayer() failed: %v", err)
		}
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	return s
}

func playerID(s *Session, name string) string {
	for _, p := range s.Players() {
		if p.Name == name {
			return p.ID
		}
	}
	return ""
}

func TestNewSessionDefaults(t *testing.T) {
	s := New(DefaultLimits())

	if s.Phase() != PhaseSetup {
		t.Errorf("Phase() = %s, want setup", s.Phase())
	}
	if len(s.Players()) != 0 {
		t.Errorf("Players() = %d, want empty", len(s.Players()))
	}
	if s.TimeLimit() != 60 {
		t.Errorf("TimeLimit() = %d, want 60", s.TimeLimit())
	}
}

func TestPrepareSetupDefaultRoster(t *testing.T) {
	s := New(DefaultLimits())
	if err := s.PrepareSetup(); err != nil {
		t.Fatalf("PrepareSetup() failed: %v", err)
	}
	ps := s.Players()
	if len(ps) != 2 {
		t.Fatalf("default roster size = %d, want 2", len(ps))
	}
	if ps[0].Name != "Player 1" || ps[1].Name != "Player 2" {
		t.Errorf("default names = %q, %q", ps[0].Name, ps[1].Name)
	}
}

func TestTimeLimitBounds(t *testing.T) {
	s := New(DefaultLimits())

	if err := s.SetTimeLimit(20); !errors.Is(err, ErrTimeLimitRange) {
		t.Errorf("SetTimeLimit(20): got %v, want ErrTimeLimitRange", err)
	}
	if err := s.SetTimeLimit(90); err != nil {
		t.Fatalf("SetTimeLimit(90) failed: %v", err)
	}

	for i := 0; i < 10; i++ {
		s.StepTimeLimit(1)
	}
	if s.TimeLimit() != 120 {
		t.Errorf("TimeLimit() after stepping up = %d, want 120", s.TimeLimit())
	}
	for i := 0; i < 20; i++ {
		s.StepTimeLimit(-1)
	}
	if s.TimeLimit() != 30 {
		t.Errorf("TimeLimit() after stepping down = %d, want 30", s.TimeLimit())
	}
}

func TestPhaseGuards(t *testing.T) {
	s := New(DefaultLimits())

	if err := s.Tick(); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("Tick in setup: got %v, want ErrWrongPhase", err)
	}
	if _, err := s.FinishRound(); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("FinishRound in setup: got %v, want ErrWrongPhase", err)
	}
	if err := s.Start(); !errors.Is(err, ErrRosterNotReady) {
		t.Errorf("Start without roster: got %v, want ErrRosterNotReady", err)
	}

	s = startedSession(t, "Alice", "Bob")
	if err := s.RenamePlayer(playerID(s, "Alice"), "Al"); !errors.Is(err, ErrNameLockedInPlay) {
		t.Errorf("rename in play: got %v, want ErrNameLockedInPlay", err)
	}
	if err := s.DeclareWinner(playerID(s, "Alice")); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("DeclareWinner in play: got %v, want ErrWrongPhase", err)
	}
}

func TestFullRoundFlow(t *testing.T) {
	s := startedSession(t, "Alice", "Bob")

	var rounds []scoring.Outcome
	s.OnRound(func(_ *Session, o scoring.Outcome) { rounds = append(rounds, o) })

	notified := 0
	s.Observe(func(*Session) { notified++ })

	s.Tick()
	s.EndTurn()
	if cur, _ := s.CurrentPlayer(); cur.Name != "Bob" {
		t.Errorf("current player = %s, want Bob", cur.Name)
	}

	if err := s.EndGame(); err != nil {
		t.Fatalf("EndGame() failed: %v", err)
	}
	if s.Timer() != nil {
		t.Error("timer should be released after the game ends")
	}
	if s.CanFinish() {
		t.Error("CanFinish() = true before scoring")
	}

	s.DeclareWinner(playerID(s, "Alice"))
	s.SetPenaltyText(playerID(s, "Bob"), "25")
	if !s.CanFinish() {
		t.Fatal("CanFinish() = false with a complete round")
	}

	if _, err := s.FinishRound(); err != nil {
		t.Fatalf("FinishRound() failed: %v", err)
	}
	if s.Phase() != PhaseResults {
		t.Errorf("Phase() = %s, want results", s.Phase())
	}
	if len(rounds) != 1 || s.Round() != 1 {
		t.Errorf("round observers = %d, Round() = %d; want 1, 1", len(rounds), s.Round())
	}
	if notified == 0 {
		t.Error("observers were not notified")
	}

	standings := s.Standings()
	if standings[0].Name != "Alice" || standings[0].Total != 25 || standings[1].Total != -25 {
		t.Errorf("standings = %+v", standings)
	}

	if err := s.NextRound(); err != nil {
		t.Fatalf("NextRound() failed: %v", err)
	}
	for _, p := range s.Players() {
		if p.IsWinner || p.HasPenalty() {
			t.Errorf("round fields not cleared for %s", p.Name)
		}
	}
	if cur, _ := s.CurrentPlayer(); cur.Name != "Alice" {
		t.Errorf("new round should start with the first seat, got %s", cur.Name)
	}
	if got := s.Standings()[0].Total; got != 25 {
		t.Errorf("totals lost across rounds: %d", got)
	}
}

func TestFinishIncompleteRoundKeepsPhase(t *testing.T) {
	s := startedSession(t, "A", "B", "C")
	s.EndGame()
	s.DeclareWinner(playerID(s, "A"))
	s.SetPenalty(playerID(s, "B"), roster.IntPtr(9))

	if _, err := s.FinishRound(); !errors.Is(err, scoring.ErrRoundIncomplete) {
		t.Fatalf("FinishRound() error = %v, want ErrRoundIncomplete", err)
	}
	if s.Phase() != PhaseScoring {
		t.Errorf("Phase() = %s, want scoring", s.Phase())
	}
	for _, p := range s.Players() {
		if p.TotalScore != 0 {
			t.Errorf("%s total = %d, want 0", p.Name, p.TotalScore)
		}
	}
}

func TestResetKeepsNamesDropsTotals(t *testing.T) {
	s := startedSession(t, "Alice", "Bob", "Cleo")
	s.EndGame()
	s.DeclareWinner(playerID(s, "Cleo"))
	s.SetPenaltyText(playerID(s, "Alice"), "4")
	s.SetPenaltyText(playerID(s, "Bob"), "6")
	s.FinishRound()
	oldID := playerID(s, "Alice")

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}

	if s.Phase() != PhaseSetup {
		t.Errorf("Phase() = %s, want setup", s.Phase())
	}
	ps := s.Players()
	if len(ps) != 3 {
		t.Fatalf("players after reset = %d, want 3", len(ps))
	}
	for _, p := range ps {
		if p.TotalScore != 0 {
			t.Errorf("%s total = %d after reset", p.Name, p.TotalScore)
		}
	}
	if playerID(s, "Alice") == oldID {
		t.Error("reset should create new player records")
	}
	if s.GameID() != "" || s.Round() != 0 {
		t.Error("game id and round counter should clear on reset")
	}
}
