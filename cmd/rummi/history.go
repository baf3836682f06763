package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/rummi-companion/internal/platform/tui"
	"github.com/vovakirdan/rummi-companion/internal/storage"
)

var (
	flagPlain bool
	flagLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse finished rounds",
	Long: `Show the round log. Interactive by default: tab or left/right
switches between sessions, up/down scrolls, q quits.

Examples:
  rummi history
  rummi history --key ssh:alice
  rummi history --plain --limit 5`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&flagKey, "key", storage.DefaultKey, "Session key (local or ssh:<user>)")
	historyCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print instead of opening the browser")
	historyCmd.Flags().IntVar(&flagLimit, "limit", 20, "Rounds to print with --plain")
}

func runHistory(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("cannot open session database: %w", err)
	}
	defer store.Close()

	if !flagPlain {
		width, height := 80, 24 // Defaults
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		return tui.RunHistory(store, flagKey, width, height)
	}

	rounds, err := store.RecentRounds(flagKey, flagLimit)
	if err != nil {
		return err
	}

	fmt.Printf("Round history - %s\n\n", flagKey)
	if len(rounds) == 0 {
		fmt.Println("No rounds recorded yet.")
		fmt.Println()
		fmt.Println("Finish a round in 'rummi play' to start the log.")
		return nil
	}

	for _, r := range rounds {
		fmt.Printf("Round %d  %s  won by %s (+%d)\n",
			r.RoundNo, r.CreatedAt.Format("2006-01-02 15:04"), r.WinnerName, r.TotalPenalty)
		for _, p := range r.Players {
			line := fmt.Sprintf("    %-20s %+5d  total %+d", p.Name, p.Delta, p.Total)
			if p.Breakdown != "" {
				line += "  (" + p.Breakdown + ")"
			}
			fmt.Println(strings.TrimRight(line, " "))
		}
	}
	return nil
}
