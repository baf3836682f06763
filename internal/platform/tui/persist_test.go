package tui

import (
	"path/filepath"
	"testing"

	"github.com/vovakirdan/rummi-companion/internal/session"
	"github.com/vovakirdan/rummi-companion/internal/storage"
)

func TestPersisterRoundTrip(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	p := NewPersister(store, storage.DefaultKey, nil)
	s := p.Load(session.DefaultLimits())
	if s.Phase() != session.PhaseSetup || len(s.Players()) != 0 {
		t.Fatalf("empty store should give a fresh session")
	}
	p.Attach(s)

	s.PrepareSetup()
	s.SetTimeLimit(90)
	s.Start()
	s.EndGame()
	winner := s.Players()[0].ID
	loser := s.Players()[1].ID
	s.DeclareWinner(winner)
	s.ApplyScan(loser, 14, "7 + 7")

	restored := NewPersister(store, storage.DefaultKey, nil).Load(session.DefaultLimits())
	if restored.Phase() != session.PhaseScoring || restored.TimeLimit() != 90 {
		t.Errorf("restored %s with %ds", restored.Phase(), restored.TimeLimit())
	}

	if _, err := s.FinishRound(); err != nil {
		t.Fatalf("FinishRound() failed: %v", err)
	}
	rounds, err := store.RecentRounds(storage.DefaultKey, 5)
	if err != nil {
		t.Fatalf("RecentRounds() failed: %v", err)
	}
	if len(rounds) != 1 || rounds[0].TotalPenalty != 14 || rounds[0].RoundNo != 1 {
		t.Fatalf("round log = %+v", rounds)
	}
	for _, pl := range rounds[0].Players {
		if pl.PlayerID == loser && pl.Breakdown != "7 + 7" {
			t.Errorf("breakdown = %q, want 7 + 7", pl.Breakdown)
		}
	}
}

func TestPersisterDiscardsBrokenSnapshot(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	store.SaveSnapshot("ssh:alice", []byte("gameState: nonsense\n"))

	s := NewPersister(store, sessionKey("alice"), nil).Load(session.DefaultLimits())
	if s.Phase() != session.PhaseSetup || len(s.Players()) != 0 {
		t.Errorf("broken snapshot should fall back to a fresh session")
	}
}

func TestPersisterWithoutStore(t *testing.T) {
	p := NewPersister(nil, storage.DefaultKey, nil)
	s := p.Load(session.DefaultLimits())
	p.Attach(s)
	if err := s.PrepareSetup(); err != nil {
		t.Fatalf("PrepareSetup() failed: %v", err)
	}
}
