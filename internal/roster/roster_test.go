package roster

import (
	"errors"
	"testing"
)

func TestNewDefaultNames(t *testing.T) {
	r, err := New(3)
	if err != nil {
		t.Fatalf("New(3) failed: %v", err)
	}

	if r.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", r.Len())
	}

	want := []string{"Player 1", "Player 2", "Player 3"}
	for i, name := range r.Names() {
		if name != want[i] {
			t.Errorf("name[%d] = %q, want %q", i, name, want[i])
		}
	}

	seen := make(map[string]bool)
	for _, p := range r.Players() {
		if p.ID == "" {
			t.Error("player id should not be empty")
		}
		if seen[p.ID] {
			t.Errorf("duplicate id %q", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestNewBounds(t *testing.T) {
	tests := []struct {
		count int
		err   error
	}{
		{0, ErrRosterMinimum},
		{1, ErrRosterMinimum},
		{2, nil},
		{4, nil},
		{5, ErrRosterFull},
	}

	for _, tt := range tests {
		_, err := New(tt.count)
		if !errors.Is(err, tt.err) {
			t.Errorf("New(%d) error = %v, want %v", tt.count, err, tt.err)
		}
	}
}

func TestAddRemoveBounded(t *testing.T) {
	r, _ := New(2)

	if err := r.Remove(r.At(0).ID); !errors.Is(err, ErrRosterMinimum) {
		t.Errorf("Remove at minimum: got %v, want ErrRosterMinimum", err)
	}

	p3, err := r.Add("")
	if err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	if p3.Name != "Player 3" {
		t.Errorf("default name = %q, want Player 3", p3.Name)
	}

	if _, err := r.Add("Dana"); err != nil {
		t.Fatalf("Add(Dana) failed: %v", err)
	}
	if _, err := r.Add("Eve"); !errors.Is(err, ErrRosterFull) {
		t.Errorf("Add beyond max: got %v, want ErrRosterFull", err)
	}

	if err := r.Remove(p3.ID); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}
	if r.Len() != 3 {
		t.Errorf("Len() after remove = %d, want 3", r.Len())
	}
	if r.Index(p3.ID) != -1 {
		t.Error("removed player still present")
	}
}

func TestRename(t *testing.T) {
	r, _ := New(2)
	id := r.At(1).ID

	if err := r.Rename(id, "  Bob "); err != nil {
		t.Fatalf("Rename() failed: %v", err)
	}
	if got := r.At(1).Name; got != "Bob" {
		t.Errorf("name = %q, want Bob", got)
	}

	if err := r.Rename(id, "   "); !errors.Is(err, ErrEmptyName) {
		t.Errorf("blank rename: got %v, want ErrEmptyName", err)
	}
	if err := r.Rename("nope", "X"); !errors.Is(err, ErrUnknownPlayer) {
		t.Errorf("unknown rename: got %v, want ErrUnknownPlayer", err)
	}
}

func TestResetRoundKeepsTotals(t *testing.T) {
	r, _ := New(2)
	r.Each(func(p *Player) {
		p.PenaltyScore = IntPtr(7)
		p.ScoreBreakdown = "3 + 4"
		p.IsWinner = true
		p.TotalScore = 12
	})

	r.ResetRound()

	for _, p := range r.Players() {
		if p.HasPenalty() || p.ScoreBreakdown != "" || p.IsWinner {
			t.Errorf("round fields not cleared: %+v", p)
		}
		if p.TotalScore != 12 {
			t.Errorf("TotalScore = %d, want 12", p.TotalScore)
		}
	}
}

func TestPlayersReturnsCopies(t *testing.T) {
	r, _ := New(2)
	r.Each(func(p *Player) { p.PenaltyScore = IntPtr(5) })

	ps := r.Players()
	*ps[0].PenaltyScore = 99
	ps[0].Name = "changed"

	if r.At(0).Penalty() != 5 {
		t.Error("mutating a copy changed the roster penalty")
	}
	if r.At(0).Name == "changed" {
		t.Error("mutating a copy changed the roster name")
	}
}

func TestFromPlayersRejectsDuplicates(t *testing.T) {
	_, err := FromPlayers([]Player{{ID: "a", Name: "A"}, {ID: "a", Name: "B"}})
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("got %v, want ErrDuplicateID", err)
	}

	r, err := FromPlayers([]Player{{ID: "a", Name: "A", TotalScore: 3}, {ID: "b", Name: "B"}})
	if err != nil {
		t.Fatalf("FromPlayers() failed: %v", err)
	}
	if r.At(0).TotalScore != 3 {
		t.Errorf("TotalScore = %d, want 3", r.At(0).TotalScore)
	}
}

func TestFromNamesFillsBlanks(t *testing.T) {
	r, err := FromNames([]string{"Alice", ""})
	if err != nil {
		t.Fatalf("FromNames() failed: %v", err)
	}
	if got := r.At(1).Name; got != "Player 2" {
		t.Errorf("blank name = %q, want Player 2", got)
	}
}
