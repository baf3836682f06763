package turntimer

import (
	"errors"
	"testing"
)

func TestNewValidation(t *testing.T) {
	if _, err := New(60, 0); !errors.Is(err, ErrEmptyRoster) {
		t.Errorf("New with no players: got %v, want ErrEmptyRoster", err)
	}
	if _, err := New(0, 2); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("New with zero limit: got %v, want ErrInvalidLimit", err)
	}
}

func TestAdvanceCyclesBack(t *testing.T) {
	for n := 2; n <= 4; n++ {
		timer, err := New(60, n)
		if err != nil {
			t.Fatalf("New(60, %d) failed: %v", n, err)
		}
		start := timer.Current()
		for i := 0; i < n; i++ {
			if err := timer.Advance(); err != nil {
				t.Fatalf("Advance() failed: %v", err)
			}
		}
		if timer.Current() != start {
			t.Errorf("n=%d: Current() = %d after %d advances, want %d", n, timer.Current(), n, start)
		}
	}
}

func TestAdvanceResetsTurn(t *testing.T) {
	timer, _ := New(45, 3)
	for i := 0; i < 10; i++ {
		timer.Tick()
	}
	timer.SetPaused(true)

	before := timer.Turn()
	if err := timer.Advance(); err != nil {
		t.Fatalf("Advance() failed: %v", err)
	}

	if timer.Current() != 1 {
		t.Errorf("Current() = %d, want 1", timer.Current())
	}
	if timer.TimeLeft() != 45 {
		t.Errorf("TimeLeft() = %d, want 45", timer.TimeLeft())
	}
	if timer.Paused() {
		t.Error("Advance should clear pause")
	}
	if timer.Turn() == before {
		t.Error("Turn() should change on advance")
	}
}

func TestAdvanceZeroValueTimer(t *testing.T) {
	var timer Timer
	if err := timer.Advance(); !errors.Is(err, ErrEmptyRoster) {
		t.Errorf("Advance on zero timer: got %v, want ErrEmptyRoster", err)
	}
}

func TestTickNoUnderflow(t *testing.T) {
	timer, _ := New(30, 2)
	for i := 0; i < 30; i++ {
		timer.Tick()
	}
	if timer.TimeLeft() != 0 {
		t.Fatalf("TimeLeft() after 30 ticks = %d, want 0", timer.TimeLeft())
	}
	if timer.State() != StateExpired {
		t.Errorf("State() = %v, want Expired", timer.State())
	}

	if changed := timer.Tick(); changed {
		t.Error("31st tick should not change state")
	}
	if timer.TimeLeft() != 0 {
		t.Errorf("TimeLeft() after 31 ticks = %d, want 0", timer.TimeLeft())
	}
	if timer.Current() != 0 {
		t.Error("expired turn must not auto-advance by default")
	}
}

func TestPauseConsumesNoTime(t *testing.T) {
	timer, _ := New(60, 2)
	for i := 0; i < 5; i++ {
		timer.Tick()
	}

	timer.SetPaused(true)
	if timer.State() != StatePaused {
		t.Errorf("State() = %v, want Paused", timer.State())
	}
	for i := 0; i < 10; i++ {
		timer.Tick()
	}
	if timer.TimeLeft() != 55 {
		t.Errorf("TimeLeft() while paused = %d, want 55", timer.TimeLeft())
	}

	timer.SetPaused(false)
	for i := 0; i < 3; i++ {
		timer.Tick()
	}
	if timer.TimeLeft() != 60-8 {
		t.Errorf("TimeLeft() = %d, want %d", timer.TimeLeft(), 60-8)
	}
}

func TestAutoAdvance(t *testing.T) {
	timer, _ := New(2, 3)
	timer.SetAutoAdvance(true)

	timer.Tick()
	timer.Tick()
	if timer.State() != StateExpired {
		t.Fatalf("State() = %v, want Expired", timer.State())
	}

	timer.Tick()
	if timer.Current() != 1 || timer.TimeLeft() != 2 {
		t.Errorf("after expiry tick: seat %d, left %d; want seat 1, left 2", timer.Current(), timer.TimeLeft())
	}
}

func TestStopIgnoresInput(t *testing.T) {
	timer, _ := New(10, 2)
	timer.Stop()
	timer.Tick()
	timer.SetPaused(true)

	if timer.State() != StateStopped {
		t.Errorf("State() = %v, want Stopped", timer.State())
	}
	if timer.TimeLeft() != 10 {
		t.Errorf("TimeLeft() = %d, want 10", timer.TimeLeft())
	}
}

func TestBands(t *testing.T) {
	tests := []struct {
		ticks int
		want  Band
	}{
		{0, BandCalm},
		{50, BandCalm},
		{51, BandWarning},
		{75, BandWarning},
		{76, BandCritical},
		{100, BandCritical},
	}

	for _, tt := range tests {
		timer, _ := New(100, 2)
		for i := 0; i < tt.ticks; i++ {
			timer.Tick()
		}
		if got := timer.Band(); got != tt.want {
			t.Errorf("after %d ticks: Band() = %v, want %v", tt.ticks, got, tt.want)
		}
	}
}

func TestRestoreClamps(t *testing.T) {
	timer, err := Restore(60, 3, Snapshot{CurrentPlayerIndex: 7, TimeLeft: 500})
	if err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}
	if timer.Current() != 0 {
		t.Errorf("Current() = %d, want 0 for out of range seat", timer.Current())
	}
	if timer.TimeLeft() != 60 {
		t.Errorf("TimeLeft() = %d, want 60", timer.TimeLeft())
	}

	timer, _ = Restore(60, 3, Snapshot{CurrentPlayerIndex: 2, TimeLeft: 17})
	if got := timer.Snapshot(); got != (Snapshot{CurrentPlayerIndex: 2, TimeLeft: 17}) {
		t.Errorf("Snapshot() = %+v", got)
	}
}

func TestUpcoming(t *testing.T) {
	timer, _ := New(60, 4)
	timer.Advance()
	timer.Advance()

	got := timer.Upcoming()
	want := []int{3, 0, 1}
	if len(got) != len(want) {
		t.Fatalf("Upcoming() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Upcoming()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
