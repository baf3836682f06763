package tui

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/rummi-companion/internal/scoring"
	"github.com/vovakirdan/rummi-companion/internal/session"
	"github.com/vovakirdan/rummi-companion/internal/storage"
)

// Persister writes a session to the store after every change and appends
// finished rounds to the round log. Write failures are logged; play goes on.
type Persister struct {
	store  *storage.Store
	key    string
	logger *log.Logger
}

// NewPersister creates a persister for the session stored under key.
func NewPersister(store *storage.Store, key string, logger *log.Logger) *Persister {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Persister{store: store, key: key, logger: logger}
}

// Attach hooks the persister into s.
func (p *Persister) Attach(s *session.Session) {
	s.Observe(p.save)
	s.OnRound(p.logRound)
}

// Load restores the stored session, or returns a fresh one when nothing
// usable was stored.
func (p *Persister) Load(limits session.Limits) *session.Session {
	if p.store == nil {
		return session.New(limits)
	}

	data, err := p.store.LoadSnapshot(p.key)
	if err != nil {
		p.logger.Warn("could not read saved session", "key", p.key, "error", err)
		return session.New(limits)
	}

	s, err := session.Resume(data, limits)
	switch {
	case errors.Is(err, session.ErrNoSnapshot):
		p.logger.Debug("no saved session", "key", p.key)
	case err != nil:
		p.logger.Warn("discarding saved session", "key", p.key, "error", err)
	default:
		p.logger.Info("session restored", "key", p.key, "phase", s.Phase(), "players", len(s.Players()))
	}
	return s
}

func (p *Persister) save(s *session.Session) {
	if p.store == nil {
		return
	}
	data, err := s.Snapshot().Encode()
	if err != nil {
		p.logger.Error("could not encode session", "key", p.key, "error", err)
		return
	}
	if err := p.store.SaveSnapshot(p.key, data); err != nil {
		p.logger.Error("could not save session", "key", p.key, "error", err)
	}
}

func (p *Persister) logRound(s *session.Session, o scoring.Outcome) {
	if p.store == nil {
		return
	}
	breakdowns := make(map[string]string)
	for _, pl := range s.Players() {
		if pl.ScoreBreakdown != "" {
			breakdowns[pl.ID] = pl.ScoreBreakdown
		}
	}
	if _, err := p.store.SaveOutcome(p.key, s.GameID(), s.Round(), o, breakdowns); err != nil {
		p.logger.Error("could not log round", "key", p.key, "round", s.Round(), "error", err)
	}
}
