// Package config provides YAML-based configuration loading for the
// companion: turn timer bounds, roster defaults, photo scanning, storage,
// the SSH server and logging.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/vovakirdan/rummi-companion/internal/session"
	"github.com/vovakirdan/rummi-companion/internal/vision"
)

// Config is the full companion configuration.
type Config struct {
	Timer   TimerConfig   `yaml:"timer"`
	Roster  RosterConfig  `yaml:"roster"`
	Vision  VisionConfig  `yaml:"vision"`
	Storage StorageConfig `yaml:"storage"`
	SSH     SSHConfig     `yaml:"ssh"`
	Log     LogConfig     `yaml:"log"`
}

// TimerConfig bounds the per-turn time limit.
type TimerConfig struct {
	DefaultSeconds int  `yaml:"default_seconds"`
	MinSeconds     int  `yaml:"min_seconds"`
	MaxSeconds     int  `yaml:"max_seconds"`
	StepSeconds    int  `yaml:"step_seconds"`
	AutoAdvance    bool `yaml:"auto_advance"` // pass the turn when time runs out
}

// RosterConfig sets up the initial roster.
type RosterConfig struct {
	DefaultPlayers int    `yaml:"default_players"`
	NameFormat     string `yaml:"name_format"` // fmt verb receives the seat number
}

// VisionConfig configures photo scanning.
type VisionConfig struct {
	Provider    string        `yaml:"provider"` // "gemini" or "off"
	Model       string        `yaml:"model"`
	APIKeyEnv   string        `yaml:"api_key_env"`
	MaxEdge     int           `yaml:"max_edge"`
	JPEGQuality int           `yaml:"jpeg_quality"`
	Timeout     time.Duration `yaml:"timeout"`
	Prompt      string        `yaml:"prompt"`
}

// StorageConfig locates the database.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// SSHConfig configures `rummi serve`.
type SSHConfig struct {
	Host        string        `yaml:"host"`
	Port        int           `yaml:"port"`
	HostKeyPath string        `yaml:"host_key_path"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	MaxTimeout  time.Duration `yaml:"max_timeout"`
}

// LogConfig configures the log file.
type LogConfig struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// Limits converts the timer and roster sections into session limits.
func (c Config) Limits() session.Limits {
	return session.Limits{
		DefaultSeconds: c.Timer.DefaultSeconds,
		MinSeconds:     c.Timer.MinSeconds,
		MaxSeconds:     c.Timer.MaxSeconds,
		StepSeconds:    c.Timer.StepSeconds,
		DefaultPlayers: c.Roster.DefaultPlayers,
		NameFormat:     c.Roster.NameFormat,
		AutoAdvance:    c.Timer.AutoAdvance,
	}
}

// APIKey reads the vision API key from the configured variable.
func (v VisionConfig) APIKey() string {
	if v.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(v.APIKeyEnv)
}

// ProviderConfig converts the section into a vision provider config.
func (v VisionConfig) ProviderConfig() vision.ProviderConfig {
	return vision.ProviderConfig{
		APIKey:  v.APIKey(),
		Model:   v.Model,
		Prompt:  v.Prompt,
		MaxEdge: v.MaxEdge,
		Quality: v.JPEGQuality,
		Timeout: v.Timeout,
	}
}

// Scorer builds the configured vision provider.
func (v VisionConfig) Scorer() (vision.Scorer, error) {
	return vision.Create(v.Provider, v.ProviderConfig())
}

// Addr returns the SSH listen address.
func (s SSHConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Validate checks the configuration for contradictions.
func (c Config) Validate() error {
	var errs []error

	t := c.Timer
	if t.MinSeconds <= 0 || t.MaxSeconds < t.MinSeconds {
		errs = append(errs, fmt.Errorf("timer: bad range %d..%d", t.MinSeconds, t.MaxSeconds))
	}
	if t.DefaultSeconds < t.MinSeconds || t.DefaultSeconds > t.MaxSeconds {
		errs = append(errs, fmt.Errorf("timer: default %d outside %d..%d", t.DefaultSeconds, t.MinSeconds, t.MaxSeconds))
	}
	if t.StepSeconds <= 0 {
		errs = append(errs, fmt.Errorf("timer: step must be positive, got %d", t.StepSeconds))
	}

	if c.Roster.DefaultPlayers < 2 || c.Roster.DefaultPlayers > 4 {
		errs = append(errs, fmt.Errorf("roster: default_players must be 2..4, got %d", c.Roster.DefaultPlayers))
	}

	if !vision.Exists(c.Vision.Provider) {
		errs = append(errs, fmt.Errorf("vision: unknown provider %q", c.Vision.Provider))
	}
	if q := c.Vision.JPEGQuality; q < 1 || q > 100 {
		errs = append(errs, fmt.Errorf("vision: jpeg_quality must be 1..100, got %d", q))
	}

	if c.Storage.Path == "" {
		errs = append(errs, errors.New("storage: path is empty"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
