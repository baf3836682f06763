// rummi is a terminal companion for Rummikub tables: a per-turn timer,
// end-of-round scoring with optional photo scanning, and persistent totals.
//
// Usage:
//
//	rummi play               - Run the companion in this terminal
//	rummi serve              - Start SSH server, one session per user
//	rummi scan <image>       - Estimate a rack penalty from a photo
//	rummi standings          - Print the ranking of a saved session
//	rummi history            - Browse finished rounds
//	rummi providers          - List photo scanning providers
//
// Global flags:
//
//	--config <path>  - Config file (default: search ~/.rummi, ./configs)
//	--db <path>      - Database path (default from config: ~/.rummi/rummi.db)
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/rummi-companion/internal/config"
	"github.com/vovakirdan/rummi-companion/internal/storage"
	"github.com/vovakirdan/rummi-companion/internal/vision"
)

var (
	// Global flags
	flagConfig string
	flagDBPath string

	// cfg is loaded before any subcommand runs.
	cfg config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rummi",
	Short: "Rummikub companion - turn timer and scorekeeper",
	Long: `rummi keeps the clock and the score for a Rummikub table.

Available commands:
  play       - Run the companion in this terminal
  serve      - Start SSH server for remote tables
  scan       - Estimate a penalty from a photo of a rack
  standings  - Print the ranking of a saved session
  history    - Browse finished rounds
  providers  - List photo scanning providers

Examples:
  rummi play
  rummi serve --ssh :2222
  rummi scan ./rack.jpg
  rummi history --plain`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to session database")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(standingsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(providersCmd)
}

// loadConfig reads .env files and the YAML config; flags win over both.
func loadConfig(_ *cobra.Command, _ []string) error {
	if err := config.LoadEnv(); err != nil {
		return err
	}

	loaded, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagDBPath != "" {
		loaded.Storage.Path = flagDBPath
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	cfg = loaded
	return nil
}

// newLogger returns a logger writing to w at the configured level.
func newLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	}
	return logger
}

// fileLogger opens the configured log file. The TUI owns the terminal, so
// interactive commands never log to stderr.
func fileLogger(prefix string) (*log.Logger, func()) {
	path := config.ExpandHome(cfg.Log.Path)
	if path == "" {
		return newLogger(io.Discard, prefix), func() {}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot create log directory: %v\n", err)
		return newLogger(io.Discard, prefix), func() {}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot open log file: %v\n", err)
		return newLogger(io.Discard, prefix), func() {}
	}
	return newLogger(f, prefix), func() { f.Close() }
}

// openStore opens the database, or returns nil so play can go on without it.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open session database: %v\n", err)
		logger.Warn("could not open session database", "path", cfg.Storage.Path, "error", err)
		return nil
	}
	return store
}

// newScorer builds the configured provider. A broken provider setup turns
// scanning off instead of blocking play.
func newScorer(logger *log.Logger) vision.Scorer {
	scorer, err := cfg.Vision.Scorer()
	if err != nil {
		logger.Warn("photo scanning disabled", "provider", cfg.Vision.Provider, "error", err)
		return vision.Disabled{}
	}
	return scorer
}
