package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/rummi-companion/internal/platform/tui"
	"github.com/vovakirdan/rummi-companion/internal/storage"
)

var flagFresh bool

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Run the companion in this terminal",
	Long: `Start the companion. The last session is restored, so a closed
terminal picks up where it stopped.

Controls:
  Setup    - enter rename, a/x add or drop a player, left/right time, s start
  Timer    - space pause, enter/n next turn, e end game
  Scoring  - w winner, enter type penalty, c scan photo, f finish round
  Results  - n next round, r r reset totals
  Anywhere - ? help, q/Ctrl+C quit

Examples:
  rummi play
  rummi play --fresh
  rummi play --config ./rummi.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagFresh, "fresh", false, "Discard the saved session and start over")
}

func runPlay(_ *cobra.Command, _ []string) error {
	logger, closeLog := fileLogger("rummi")
	defer closeLog()

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
		if flagFresh {
			if err := store.DeleteSnapshot(storage.DefaultKey); err != nil {
				return fmt.Errorf("cannot discard saved session: %w", err)
			}
		}
	}

	persister := tui.NewPersister(store, storage.DefaultKey, logger)
	sess := persister.Load(cfg.Limits())
	persister.Attach(sess)

	return tui.Run(tui.Options{
		Session:     sess,
		Scorer:      newScorer(logger),
		Logger:      logger,
		ScanTimeout: cfg.Vision.Timeout,
		Width:       width,
		Height:      height,
	})
}
