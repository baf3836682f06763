package vision

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"google.golang.org/genai"
)

type fakeGenerator struct {
	text  string
	err   error
	calls int

	model    string
	config   *genai.GenerateContentConfig
	contents []*genai.Content
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.model = model
	f.contents = contents
	f.config = config
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: f.text}}},
		}},
	}, nil
}

func TestGeminiScore(t *testing.T) {
	gen := &fakeGenerator{text: `{"score": 36, "breakdown": "30 + 6"}`}
	g := NewGeminiWithGenerator(ProviderConfig{MaxEdge: 64}, gen)

	got, err := g.Score(context.Background(), pngBytes(t, 200, 100))
	if err != nil {
		t.Fatalf("Score() failed: %v", err)
	}
	if got.Score != 36 || got.Breakdown != "30 + 6" {
		t.Errorf("Score() = %+v", got)
	}

	if gen.model != DefaultModel {
		t.Errorf("model = %q, want %q", gen.model, DefaultModel)
	}
	if gen.config == nil || gen.config.ResponseMIMEType != "application/json" {
		t.Error("request should ask for a JSON response")
	}
	if gen.config.ResponseSchema == nil || len(gen.config.ResponseSchema.Required) != 2 {
		t.Error("request should carry the score schema")
	}
	parts := gen.contents[0].Parts
	if len(parts) != 2 || parts[0].InlineData == nil || parts[0].InlineData.MIMEType != "image/jpeg" {
		t.Errorf("first part should be the JPEG photo, got %+v", parts[0])
	}
	if parts[1].Text != Prompt {
		t.Error("second part should be the prompt")
	}
}

func TestGeminiScoreErrors(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
		img  []byte
		want Kind
	}{
		{"quota api error", &fakeGenerator{err: genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED"}}, nil, KindQuota},
		{"quota text", &fakeGenerator{err: errors.New("Quota exceeded for metric")}, nil, KindQuota},
		{"server error", &fakeGenerator{err: genai.APIError{Code: 500, Message: "internal"}}, nil, KindNetwork},
		{"timeout", &fakeGenerator{err: fmt.Errorf("post: %w", context.DeadlineExceeded)}, nil, KindNetwork},
		{"bad json", &fakeGenerator{text: "no idea"}, nil, KindParse},
		{"empty", &fakeGenerator{text: ""}, nil, KindParse},
		{"bad image", &fakeGenerator{text: `{"score": 1}`}, []byte("nope"), KindImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := tt.img
			if img == nil {
				img = pngBytes(t, 20, 20)
			}
			g := NewGeminiWithGenerator(ProviderConfig{}, tt.gen)
			_, err := g.Score(context.Background(), img)
			if got := KindOf(err); got != tt.want {
				t.Errorf("Score() error kind = %s (%v), want %s", got, err, tt.want)
			}
		})
	}
}

func TestGeminiWithoutKey(t *testing.T) {
	g := NewGemini(ProviderConfig{})
	_, err := g.Score(context.Background(), pngBytes(t, 10, 10))
	if !errors.Is(err, ErrNoAPIKey) || KindOf(err) != KindUnconfigured {
		t.Errorf("Score() error = %v, want unconfigured", err)
	}
}

func TestResponseTextSkipsThoughts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "thinking...", Thought: true},
				{Text: `{"score": 3}`},
			}},
		}},
	}
	if got := responseText(resp); got != `{"score": 3}` {
		t.Errorf("responseText() = %q", got)
	}
	if got := responseText(nil); got != "" {
		t.Errorf("responseText(nil) = %q", got)
	}
}
