package scoring

import (
	"sort"

	"github.com/vovakirdan/rummi-companion/internal/roster"
)

// Standing is one row of the results table.
type Standing struct {
	Rank       int
	PlayerID   string
	Name       string
	Total      int
	RoundDelta int
	IsWinner   bool
}

// RoundDelta returns what the current round is worth for p, given the
// whole roster: the table's penalties for the winner, minus the own
// penalty for everybody else.
func RoundDelta(p roster.Player, players []roster.Player) int {
	if !p.IsWinner {
		return -p.Penalty()
	}
	total := 0
	for _, other := range players {
		if !other.IsWinner {
			total += other.Penalty()
		}
	}
	return total
}

// Rank orders players by total score, highest first. Equal totals keep
// roster order.
func Rank(players []roster.Player) []Standing {
	standings := make([]Standing, len(players))
	for i, p := range players {
		standings[i] = Standing{
			PlayerID:   p.ID,
			Name:       p.Name,
			Total:      p.TotalScore,
			RoundDelta: RoundDelta(p, players),
			IsWinner:   p.IsWinner,
		}
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Total > standings[j].Total
	})

	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings
}
