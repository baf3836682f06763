package vision

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// ProviderConfig configures a scoring provider.
type ProviderConfig struct {
	APIKey  string
	Model   string
	Prompt  string
	MaxEdge int
	Quality int
	Timeout time.Duration
}

// ProviderInfo describes a registered provider.
type ProviderInfo struct {
	Name        string
	Description string
}

// Factory creates a Scorer from a config.
type Factory func(cfg ProviderConfig) (Scorer, error)

type provider struct {
	factory     Factory
	description string
}

var (
	providers = make(map[string]provider)
	mu        sync.RWMutex
)

func init() {
	Register("gemini", "Google Gemini multimodal model", func(cfg ProviderConfig) (Scorer, error) {
		if cfg.Timeout == 0 {
			cfg.Timeout = DefaultTimeout
		}
		return NewGemini(cfg), nil
	})
	Register("off", "Photo scanning disabled; scores are typed in", func(ProviderConfig) (Scorer, error) {
		return Disabled{}, nil
	})
}

// Register adds a provider. Panics if the name is taken.
func Register(name, description string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := providers[name]; exists {
		panic(fmt.Sprintf("vision: provider %q already registered", name))
	}
	providers[name] = provider{factory: f, description: description}
}

// List returns the registered providers sorted by name.
func List() []ProviderInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]ProviderInfo, 0, len(providers))
	for name, p := range providers {
		result = append(result, ProviderInfo{Name: name, Description: p.description})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Create builds the named provider.
func Create(name string, cfg ProviderConfig) (Scorer, error) {
	mu.RLock()
	p, ok := providers[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("vision: unknown provider %q", name)
	}
	return p.factory(cfg)
}

// Exists reports whether a provider is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := providers[name]
	return ok
}

// Disabled is a Scorer that always fails as unconfigured.
type Disabled struct{}

// Score implements Scorer.
func (Disabled) Score(context.Context, []byte) (Result, error) {
	return Result{}, &Error{Kind: KindUnconfigured, Err: ErrDisabled}
}
