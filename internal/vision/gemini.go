package vision

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"
)

const (
	// DefaultModel is the Gemini model used when none is configured.
	DefaultModel = "gemini-3-flash-preview"

	// DefaultTimeout bounds a single scan request.
	DefaultTimeout = 60 * time.Second
)

// Generator is the part of the genai client the scorer needs.
// *genai.Models satisfies it.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiScorer scores photos with the Gemini API.
type GeminiScorer struct {
	cfg ProviderConfig

	mu  sync.Mutex
	gen Generator
}

// NewGemini returns a scorer for cfg. The API client is created lazily on
// the first scan so a missing key only matters when a photo is submitted.
func NewGemini(cfg ProviderConfig) *GeminiScorer {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &GeminiScorer{cfg: cfg}
}

// NewGeminiWithGenerator returns a scorer backed by gen.
func NewGeminiWithGenerator(cfg ProviderConfig, gen Generator) *GeminiScorer {
	g := NewGemini(cfg)
	g.gen = gen
	return g
}

// Model returns the configured model name.
func (g *GeminiScorer) Model() string {
	return g.cfg.Model
}

func (g *GeminiScorer) generator(ctx context.Context) (Generator, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.gen != nil {
		return g.gen, nil
	}
	if g.cfg.APIKey == "" {
		return nil, &Error{Kind: KindUnconfigured, Err: ErrNoAPIKey}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &Error{Kind: KindUnconfigured, Err: fmt.Errorf("create client: %w", err)}
	}
	g.gen = client.Models
	return g.gen, nil
}

// Score implements Scorer.
func (g *GeminiScorer) Score(ctx context.Context, img []byte) (Result, error) {
	gen, err := g.generator(ctx)
	if err != nil {
		return Result{}, err
	}

	prepared, err := PrepareImage(img, g.cfg.MaxEdge, g.cfg.Quality)
	if err != nil {
		return Result{}, err
	}

	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	prompt := g.cfg.Prompt
	if prompt == "" {
		prompt = Prompt
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(prepared, "image/jpeg"),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}

	resp, err := gen.GenerateContent(ctx, g.cfg.Model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema(),
	})
	if err != nil {
		return Result{}, classify(err)
	}

	text := responseText(resp)
	if text == "" {
		return Result{}, &Error{Kind: KindParse, Err: errors.New("empty response")}
	}
	return ParseResult(text)
}

func responseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"score": {
				Type:        genai.TypeInteger,
				Description: "Total penalty of all visible tiles",
			},
			"breakdown": {
				Type:        genai.TypeString,
				Description: "The sum written out tile by tile",
			},
		},
		Required: []string{"score", "breakdown"},
	}
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	c := resp.Candidates[0]
	if c == nil || c.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range c.Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		sb.WriteString(p.Text)
	}
	return strings.TrimSpace(sb.String())
}

// classify maps a transport or API error onto a Kind.
func classify(err error) error {
	var ve *Error
	if errors.As(err, &ve) {
		return err
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED" {
			return &Error{Kind: KindQuota, Err: err}
		}
		return &Error{Kind: KindNetwork, Err: err}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindNetwork, Err: fmt.Errorf("request timed out: %w", err)}
	}

	msg := err.Error()
	if strings.Contains(msg, "429") || strings.Contains(strings.ToLower(msg), "quota") {
		return &Error{Kind: KindQuota, Err: err}
	}
	return &Error{Kind: KindNetwork, Err: err}
}
