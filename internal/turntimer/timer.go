// Package turntimer implements the per-turn countdown that cycles through
// the players of a round. The timer has no clock of its own: the platform
// layer calls Tick once per elapsed second.
package turntimer

import "errors"

var (
	ErrEmptyRoster  = errors.New("turntimer: roster is empty")
	ErrInvalidLimit = errors.New("turntimer: time limit must be positive")
)

// State is the visible state of the current turn.
type State int

const (
	StateRunning State = iota
	StatePaused
	StateExpired
	StateStopped
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "Running"
	case StatePaused:
		return "Paused"
	case StateExpired:
		return "Expired"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// Band classifies the remaining time for display.
type Band int

const (
	BandCalm     Band = iota // at least half the limit left
	BandWarning              // between a quarter and a half
	BandCritical             // under a quarter
)

// Snapshot is the recoverable part of the timer.
type Snapshot struct {
	CurrentPlayerIndex int
	TimeLeft           int
}

// Timer counts down one turn at a time.
type Timer struct {
	limit       int
	players     int
	current     int
	timeLeft    int
	paused      bool
	stopped     bool
	autoAdvance bool

	// turn increases on every advance so callers can drop stale ticks.
	turn uint64
}

// New creates a timer for players seats, starting with seat 0.
func New(limitSeconds, players int) (*Timer, error) {
	if players <= 0 {
		return nil, ErrEmptyRoster
	}
	if limitSeconds <= 0 {
		return nil, ErrInvalidLimit
	}
	return &Timer{
		limit:    limitSeconds,
		players:  players,
		timeLeft: limitSeconds,
	}, nil
}

// Restore rebuilds a timer from a snapshot. Out of range values are clamped.
func Restore(limitSeconds, players int, snap Snapshot) (*Timer, error) {
	t, err := New(limitSeconds, players)
	if err != nil {
		return nil, err
	}
	if snap.CurrentPlayerIndex >= 0 && snap.CurrentPlayerIndex < players {
		t.current = snap.CurrentPlayerIndex
	}
	t.timeLeft = clamp(snap.TimeLeft, 0, limitSeconds)
	return t, nil
}

// SetAutoAdvance makes an expired turn pass to the next player on the
// following tick instead of waiting for an explicit end of turn.
func (t *Timer) SetAutoAdvance(enabled bool) {
	t.autoAdvance = enabled
}

// Tick consumes one second of the current turn.
// It returns true when the timer state changed.
func (t *Timer) Tick() bool {
	if t.stopped || t.paused {
		return false
	}
	if t.timeLeft <= 0 {
		if t.autoAdvance && t.players > 0 {
			t.advance()
			return true
		}
		return false
	}
	t.timeLeft--
	return true
}

// Advance passes the turn to the next player with a full time limit.
func (t *Timer) Advance() error {
	if t.players <= 0 {
		return ErrEmptyRoster
	}
	t.advance()
	return nil
}

func (t *Timer) advance() {
	t.current = (t.current + 1) % t.players
	t.timeLeft = t.limit
	t.paused = false
	t.turn++
}

// SetPaused pauses or resumes the countdown. Remaining time is unchanged.
func (t *Timer) SetPaused(paused bool) {
	if t.stopped {
		return
	}
	t.paused = paused
}

// TogglePause flips the paused flag and returns the new value.
func (t *Timer) TogglePause() bool {
	t.SetPaused(!t.paused)
	return t.paused
}

// Stop ends the timer for good. Used when the round is over.
func (t *Timer) Stop() {
	t.stopped = true
	t.paused = false
}

// State returns the current state.
func (t *Timer) State() State {
	switch {
	case t.stopped:
		return StateStopped
	case t.paused:
		return StatePaused
	case t.timeLeft <= 0:
		return StateExpired
	default:
		return StateRunning
	}
}

// Running reports whether ticks currently consume time.
func (t *Timer) Running() bool {
	return t.State() == StateRunning
}

// TimeLeft returns the seconds remaining in the current turn.
func (t *Timer) TimeLeft() int {
	return t.timeLeft
}

// Limit returns the full turn length in seconds.
func (t *Timer) Limit() int {
	return t.limit
}

// Current returns the seat index of the player whose turn it is.
func (t *Timer) Current() int {
	return t.current
}

// Players returns the number of seats.
func (t *Timer) Players() int {
	return t.players
}

// Paused reports whether the countdown is paused.
func (t *Timer) Paused() bool {
	return t.paused
}

// Turn returns a counter that changes on every advance.
func (t *Timer) Turn() uint64 {
	return t.turn
}

// Fraction returns the remaining share of the limit in [0, 1].
func (t *Timer) Fraction() float64 {
	if t.limit <= 0 {
		return 0
	}
	return float64(t.timeLeft) / float64(t.limit)
}

// Band returns the display band for the remaining time.
func (t *Timer) Band() Band {
	f := t.Fraction()
	switch {
	case f < 0.25:
		return BandCritical
	case f < 0.5:
		return BandWarning
	default:
		return BandCalm
	}
}

// Upcoming returns the seats after the current one, in turn order.
func (t *Timer) Upcoming() []int {
	if t.players <= 1 {
		return nil
	}
	seats := make([]int, 0, t.players-1)
	for i := 1; i < t.players; i++ {
		seats = append(seats, (t.current+i)%t.players)
	}
	return seats
}

// Snapshot returns the recoverable timer state.
func (t *Timer) Snapshot() Snapshot {
	return Snapshot{
		CurrentPlayerIndex: t.current,
		TimeLeft:           t.timeLeft,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
