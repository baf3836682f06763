package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rummi-companion/internal/config"
	"github.com/vovakirdan/rummi-companion/internal/vision"
)

var flagProvider string

var scanCmd = &cobra.Command{
	Use:   "scan <image>",
	Short: "Estimate a rack penalty from a photo",
	Long: `Send a photo of the tiles left in a rack to the configured vision
provider and print the penalty it counted. Numbered tiles count their
face value and a joker counts 30.

The API key is read from the variable named by vision.api_key_env
(GEMINI_API_KEY by default), which may also be set in a .env file.

Examples:
  rummi scan ./rack.jpg
  rummi scan ~/photos/rack.png --provider gemini`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&flagProvider, "provider", "", "Vision provider, overrides config")
}

func runScan(cmd *cobra.Command, args []string) error {
	logger := newLogger(os.Stderr, "rummi")

	vc := cfg.Vision
	if flagProvider != "" {
		vc.Provider = flagProvider
	}
	scorer, err := vc.Scorer()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(config.ExpandHome(args[0]))
	if err != nil {
		return fmt.Errorf("cannot read image: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	logger.Debug("scan started", "provider", vc.Provider, "file", args[0], "bytes", len(data))
	res, err := scorer.Score(ctx, data)
	if err != nil {
		logger.Debug("scan failed", "kind", vision.KindOf(err), "error", err)
		return errors.New(vision.UserMessage(err))
	}
	logger.Debug("scan finished", "score", res.Score, "elapsed", time.Since(start))

	fmt.Fprintf(cmd.OutOrStdout(), "Penalty: %d\n", res.Score)
	if res.Breakdown != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Tiles:   %s\n", res.Breakdown)
	}
	return nil
}
