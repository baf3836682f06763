package session

import (
	"errors"
	"reflect"
	"testing"
)

func TestSnapshotRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		build func(t *testing.T) *Session
	}{
		{
			name: "fresh",
			build: func(t *testing.T) *Session {
				return New(DefaultLimits())
			},
		},
		{
			name: "playing",
			build: func(t *testing.T) *Session {
				s := startedSession(t, "Alice", "Bob", "Cleo")
				s.EndTurn()
				for i := 0; i < 12; i++ {
					s.Tick()
				}
				s.SetPaused(true)
				return s
			},
		},
		{
			name: "scoring",
			build: func(t *testing.T) *Session {
				s := startedSession(t, "Alice", "Bob", "Cleo")
				s.EndGame()
				s.DeclareWinner(playerID(s, "Bob"))
				s.ApplyScan(playerID(s, "Alice"), 17, "4 + 13")
				return s
			},
		},
		{
			name: "results",
			build: func(t *testing.T) *Session {
				s := startedSession(t, "Alice", "Bob")
				s.EndGame()
				s.DeclareWinner(playerID(s, "Alice"))
				s.SetPenaltyText(playerID(s, "Bob"), "25")
				s.FinishRound()
				return s
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := tt.build(t)
			want := orig.Snapshot()

			data, err := want.Encode()
			if err != nil {
				t.Fatalf("Encode() failed: %v", err)
			}

			restored, err := Resume(data, DefaultLimits())
			if err != nil {
				t.Fatalf("Resume() failed: %v\n%s", err, data)
			}

			got := restored.Snapshot()
			if !reflect.DeepEqual(got, want) {
				t.Errorf("round trip mismatch\ngot:  %+v\nwant: %+v", got, want)
			}
			if restored.Phase() != orig.Phase() {
				t.Errorf("Phase() = %s, want %s", restored.Phase(), orig.Phase())
			}
		})
	}
}

func TestRestoredSessionKeepsWorking(t *testing.T) {
	s := startedSession(t, "Alice", "Bob")
	s.EndGame()
	s.DeclareWinner(playerID(s, "Alice"))

	data, _ := s.Snapshot().Encode()
	restored, err := Resume(data, DefaultLimits())
	if err != nil {
		t.Fatalf("Resume() failed: %v", err)
	}

	if err := restored.SetPenaltyText(playerID(restored, "Bob"), "25"); err != nil {
		t.Fatalf("SetPenaltyText() failed: %v", err)
	}
	if _, err := restored.FinishRound(); err != nil {
		t.Fatalf("FinishRound() failed: %v", err)
	}
	if got := restored.Standings()[0].Total; got != 25 {
		t.Errorf("winner total = %d, want 25", got)
	}
}

func TestResumeMalformedFallsBack(t *testing.T) {
	tests := []struct {
		name string
		data string
		err  error
	}{
		{"empty", "", ErrNoSnapshot},
		{"not yaml", "{{{ not: [valid", ErrInvalidSnapshot},
		{"scalar", "hello", ErrInvalidSnapshot},
		{"unknown state", "gameState: lobby\ntimeLimitSeconds: 60\n", ErrInvalidSnapshot},
		{"bad limit", "gameState: setup\ntimeLimitSeconds: 0\n", ErrInvalidSnapshot},
		{
			"one player",
			"gameState: playing\ntimeLimitSeconds: 60\nplayers:\n  - id: a\n    name: A\n",
			ErrInvalidSnapshot,
		},
		{
			"two winners",
			"gameState: scoring\ntimeLimitSeconds: 60\nplayers:\n  - {id: a, name: A, isWinner: true}\n  - {id: b, name: B, isWinner: true}\n",
			ErrInvalidSnapshot,
		},
		{
			"results incomplete",
			"gameState: results\ntimeLimitSeconds: 60\nplayers:\n  - {id: a, name: A, isWinner: true}\n  - {id: b, name: B}\n",
			ErrInvalidSnapshot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Resume([]byte(tt.data), DefaultLimits())
			if !errors.Is(err, tt.err) {
				t.Errorf("Resume() error = %v, want %v", err, tt.err)
			}
			if s == nil {
				t.Fatal("Resume() must always return a session")
			}
			if s.Phase() != PhaseSetup || len(s.Players()) != 0 || s.TimeLimit() != 60 {
				t.Errorf("fallback session = %s, %d players, %ds", s.Phase(), len(s.Players()), s.TimeLimit())
			}
		})
	}
}

func TestDecodeSnapshotFields(t *testing.T) {
	data := []byte(`
gameState: playing
timeLimitSeconds: 90
players:
  - id: a
    name: Alice
    penaltyScore: null
    isWinner: false
    totalScore: 12
  - id: b
    name: Bob
    penaltyScore: 3
    isWinner: false
    totalScore: -12
timerState:
  currentPlayerIndex: 1
  timeLeft: 42
`)

	s, err := Resume(data, DefaultLimits())
	if err != nil {
		t.Fatalf("Resume() failed: %v", err)
	}
	if s.TimeLimit() != 90 {
		t.Errorf("TimeLimit() = %d, want 90", s.TimeLimit())
	}
	cur, ok := s.CurrentPlayer()
	if !ok || cur.Name != "Bob" {
		t.Errorf("CurrentPlayer() = %+v, want Bob", cur)
	}
	if s.Timer().TimeLeft() != 42 {
		t.Errorf("TimeLeft() = %d, want 42", s.Timer().TimeLeft())
	}
	if s.Players()[0].HasPenalty() {
		t.Error("null penalty should decode as unscored")
	}
}
