// Package roster holds the players taking part in a companion session.
// A roster always contains between MinPlayers and MaxPlayers entries.
package roster

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Roster size bounds.
const (
	MinPlayers = 2
	MaxPlayers = 4
)

var (
	ErrRosterFull    = errors.New("roster: at most 4 players")
	ErrRosterMinimum = errors.New("roster: at least 2 players")
	ErrUnknownPlayer = errors.New("roster: unknown player")
	ErrDuplicateID   = errors.New("roster: duplicate player id")
	ErrEmptyName     = errors.New("roster: empty player name")
)

// DefaultNameFormat is used for players that are added without a name.
const DefaultNameFormat = "Player %d"

// Player is one participant and their scores.
type Player struct {
	ID   string
	Name string

	// PenaltyScore is nil until the player is scored for the current round.
	PenaltyScore *int

	// ScoreBreakdown explains a PenaltyScore produced by photo scanning.
	ScoreBreakdown string

	IsWinner   bool
	TotalScore int
}

// HasPenalty reports whether the player was scored this round.
func (p Player) HasPenalty() bool {
	return p.PenaltyScore != nil
}

// Penalty returns the round penalty, or 0 when unscored.
func (p Player) Penalty() int {
	if p.PenaltyScore == nil {
		return 0
	}
	return *p.PenaltyScore
}

// Roster is an ordered list of players. Order is turn order.
type Roster struct {
	players    []Player
	nameFormat string
}

// New creates a roster of count players with default names.
func New(count int) (*Roster, error) {
	return NewWithFormat(count, DefaultNameFormat)
}

// NewWithFormat is New with a custom fmt pattern for default names.
// The pattern receives the 1-based seat number.
func NewWithFormat(count int, nameFormat string) (*Roster, error) {
	if count < MinPlayers {
		return nil, ErrRosterMinimum
	}
	if count > MaxPlayers {
		return nil, ErrRosterFull
	}
	if nameFormat == "" {
		nameFormat = DefaultNameFormat
	}

	r := &Roster{nameFormat: nameFormat}
	for i := 0; i < count; i++ {
		r.players = append(r.players, Player{
			ID:   newID(),
			Name: r.defaultName(i + 1),
		})
	}
	return r, nil
}

// FromNames creates a roster with fresh ids and zero totals.
func FromNames(names []string) (*Roster, error) {
	if len(names) < MinPlayers {
		return nil, ErrRosterMinimum
	}
	if len(names) > MaxPlayers {
		return nil, ErrRosterFull
	}

	r := &Roster{nameFormat: DefaultNameFormat}
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			name = r.defaultName(i + 1)
		}
		r.players = append(r.players, Player{ID: newID(), Name: name})
	}
	return r, nil
}

// FromPlayers rebuilds a roster from stored players.
// Ids must be unique and non-empty.
func FromPlayers(players []Player) (*Roster, error) {
	if len(players) < MinPlayers {
		return nil, ErrRosterMinimum
	}
	if len(players) > MaxPlayers {
		return nil, ErrRosterFull
	}

	seen := make(map[string]bool, len(players))
	r := &Roster{nameFormat: DefaultNameFormat}
	for _, p := range players {
		if p.ID == "" || seen[p.ID] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, p.ID)
		}
		seen[p.ID] = true
		r.players = append(r.players, clonePlayer(p))
	}
	return r, nil
}

// SetNameFormat changes the pattern used for players added later.
func (r *Roster) SetNameFormat(format string) {
	if format != "" {
		r.nameFormat = format
	}
}

// Len returns the number of players.
func (r *Roster) Len() int {
	return len(r.players)
}

// Players returns a copy of all players in turn order.
func (r *Roster) Players() []Player {
	out := make([]Player, len(r.players))
	for i, p := range r.players {
		out[i] = clonePlayer(p)
	}
	return out
}

// At returns the player at seat i.
func (r *Roster) At(i int) Player {
	return clonePlayer(r.players[i])
}

// Index returns the seat of the given player, or -1.
func (r *Roster) Index(id string) int {
	for i := range r.players {
		if r.players[i].ID == id {
			return i
		}
	}
	return -1
}

// Get returns the player with the given id.
func (r *Roster) Get(id string) (Player, bool) {
	i := r.Index(id)
	if i < 0 {
		return Player{}, false
	}
	return clonePlayer(r.players[i]), true
}

// Update applies fn to the stored player with the given id.
func (r *Roster) Update(id string, fn func(p *Player)) error {
	i := r.Index(id)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownPlayer, id)
	}
	fn(&r.players[i])
	return nil
}

// Each calls fn for every stored player in turn order.
func (r *Roster) Each(fn func(p *Player)) {
	for i := range r.players {
		fn(&r.players[i])
	}
}

// CanAdd reports whether another player fits.
func (r *Roster) CanAdd() bool {
	return len(r.players) < MaxPlayers
}

// CanRemove reports whether a player can be dropped.
func (r *Roster) CanRemove() bool {
	return len(r.players) > MinPlayers
}

// Add appends a player. An empty name gets the next default name.
func (r *Roster) Add(name string) (Player, error) {
	if !r.CanAdd() {
		return Player{}, ErrRosterFull
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = r.defaultName(len(r.players) + 1)
	}
	p := Player{ID: newID(), Name: name}
	r.players = append(r.players, p)
	return p, nil
}

// Remove drops the player with the given id.
func (r *Roster) Remove(id string) error {
	if !r.CanRemove() {
		return ErrRosterMinimum
	}
	i := r.Index(id)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownPlayer, id)
	}
	r.players = append(r.players[:i], r.players[i+1:]...)
	return nil
}

// Rename changes a player's display name.
func (r *Roster) Rename(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	return r.Update(id, func(p *Player) {
		p.Name = name
	})
}

// Names returns the display names in turn order.
func (r *Roster) Names() []string {
	names := make([]string, len(r.players))
	for i, p := range r.players {
		names[i] = p.Name
	}
	return names
}

// ResetRound clears per-round fields and keeps totals.
func (r *Roster) ResetRound() {
	for i := range r.players {
		r.players[i].PenaltyScore = nil
		r.players[i].ScoreBreakdown = ""
		r.players[i].IsWinner = false
	}
}

func (r *Roster) defaultName(seat int) string {
	return fmt.Sprintf(r.nameFormat, seat)
}

func clonePlayer(p Player) Player {
	if p.PenaltyScore != nil {
		v := *p.PenaltyScore
		p.PenaltyScore = &v
	}
	return p
}

func newID() string {
	return uuid.NewString()
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
