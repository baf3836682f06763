package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rummi-companion/internal/session"
	"github.com/vovakirdan/rummi-companion/internal/storage"
)

var (
	flagKey     string
	flagOverall bool
)

var standingsCmd = &cobra.Command{
	Use:   "standings",
	Short: "Print the ranking of a saved session",
	Long: `Print the running totals of a saved session, highest first.
With --overall, print per-name results summed over the round log.

Examples:
  rummi standings
  rummi standings --key ssh:alice
  rummi standings --overall`,
	Args: cobra.NoArgs,
	RunE: runStandings,
}

func init() {
	standingsCmd.Flags().StringVar(&flagKey, "key", storage.DefaultKey, "Session key (local or ssh:<user>)")
	standingsCmd.Flags().BoolVar(&flagOverall, "overall", false, "Sum every logged round of the session")
}

func runStandings(cmd *cobra.Command, _ []string) error {
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("cannot open session database: %w", err)
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	if flagOverall {
		return printOverall(out, store)
	}

	data, err := store.LoadSnapshot(flagKey)
	if err != nil {
		return err
	}
	sess, err := session.Resume(data, cfg.Limits())
	if errors.Is(err, session.ErrNoSnapshot) {
		fmt.Fprintf(out, "No saved session under %q.\n", flagKey)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Standings - %s (round %d, %s)\n\n", flagKey, sess.Round(), sess.Phase())
	fmt.Fprintf(out, "  %-4s  %-20s  %s\n", "Rank", "Player", "Total")
	fmt.Fprintf(out, "  %-4s  %-20s  %s\n", "----", "------", "-----")
	for _, st := range sess.Standings() {
		fmt.Fprintf(out, "  %-4d  %-20s  %+d\n", st.Rank, st.Name, st.Total)
	}
	return nil
}

// printOverall sums the round log; --key all covers every session.
func printOverall(out io.Writer, store *storage.Store) error {
	key := flagKey
	if key == "all" {
		key = ""
	}
	standings, err := store.PlayerStandings(key)
	if err != nil {
		return err
	}

	if len(standings) == 0 {
		fmt.Fprintln(out, "No rounds recorded yet.")
		return nil
	}

	fmt.Fprintf(out, "Overall - %s\n\n", flagKey)
	fmt.Fprintf(out, "  %-20s  %6s  %4s  %6s  %s\n", "Player", "Rounds", "Wins", "Net", "Last played")
	fmt.Fprintf(out, "  %-20s  %6s  %4s  %6s  %s\n", "------", "------", "----", "---", "-----------")
	for _, ps := range standings {
		fmt.Fprintf(out, "  %-20s  %6d  %4d  %+6d  %s\n",
			ps.Name, ps.Rounds, ps.Wins, ps.Net, ps.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}
