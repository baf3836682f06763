package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rummi-companion/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the companion SSH server",
	Long: `Start an SSH server so a table can run the companion from any
terminal. Every SSH user gets their own session, saved under their
user name, so reconnecting resumes the game.

Host key handling:
  - --host-key if given
  - otherwise ssh.host_key_path from the config (default .ssh/rummi_ed25519,
    relative to the working directory); the key is generated if missing
  - with ssh.host_key_path set to "" a key is kept at ~/.rummi/host_key

Examples:
  rummi serve
  rummi serve --ssh :2222
  rummi serve --host-key ./host_key --idle-timeout 10m

Connect with:
  ssh localhost -p 23235`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH listen address (host:port), overrides config")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Disconnect idle sessions after this long")
}

func runServe(_ *cobra.Command, _ []string) error {
	logger := newLogger(os.Stderr, "rummi-ssh")

	srvCfg := tui.SSHServerConfig{
		Address:     cfg.SSH.Addr(),
		HostKeyPath: cfg.SSH.HostKeyPath,
		DBPath:      cfg.Storage.Path,
		IdleTimeout: cfg.SSH.IdleTimeout,
		MaxTimeout:  cfg.SSH.MaxTimeout,
		Limits:      cfg.Limits(),
		Scorer:      newScorer(logger),
		ScanTimeout: cfg.Vision.Timeout,
		Logger:      logger,
	}
	if flagSSHAddr != "" {
		srvCfg.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		srvCfg.HostKeyPath = flagHostKey
	}
	if flagIdleTimeout > 0 {
		srvCfg.IdleTimeout = flagIdleTimeout
	}

	server, err := tui.NewSSHServer(srvCfg)
	if err != nil {
		return fmt.Errorf("cannot create server: %w", err)
	}

	fmt.Printf("Starting rummi SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}
