package config

import (
	_ "embed"
	"time"

	"github.com/vovakirdan/rummi-companion/internal/vision"
)

//go:embed defaults/rummi.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Timer: TimerConfig{
			DefaultSeconds: 60,
			MinSeconds:     30,
			MaxSeconds:     120,
			StepSeconds:    10,
		},
		Roster: RosterConfig{
			DefaultPlayers: 2,
			NameFormat:     "Player %d",
		},
		Vision: VisionConfig{
			Provider:    "gemini",
			Model:       vision.DefaultModel,
			APIKeyEnv:   "GEMINI_API_KEY",
			MaxEdge:     vision.DefaultMaxEdge,
			JPEGQuality: vision.DefaultJPEGQuality,
			Timeout:     vision.DefaultTimeout,
		},
		Storage: StorageConfig{
			Path: "~/.rummi/rummi.db",
		},
		SSH: SSHConfig{
			Host:        "0.0.0.0",
			Port:        23235,
			HostKeyPath: ".ssh/rummi_ed25519",
			IdleTimeout: 30 * time.Minute,
			MaxTimeout:  4 * time.Hour,
		},
		Log: LogConfig{
			Path:  "~/.rummi/rummi.log",
			Level: "info",
		},
	}
}
