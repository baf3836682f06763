package vision

import (
	"errors"
	"strings"
	"testing"
)

func TestParseResult(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		want      Result
		wantError bool
	}{
		{"plain", `{"score": 20, "breakdown": "6 + 6 + 8"}`, Result{20, "6 + 6 + 8"}, false},
		{"fenced", "```json\n{\"score\": 35, \"breakdown\": \"30 + 5\"}\n```", Result{35, "30 + 5"}, false},
		{"zero", `{"score": 0, "breakdown": ""}`, Result{0, ""}, false},
		{"missing score", `{"breakdown": "6"}`, Result{}, true},
		{"negative", `{"score": -4}`, Result{}, true},
		{"garbage", "I see some tiles", Result{}, true},
		{"float score", `{"score": 12.5}`, Result{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResult(tt.text)
			if tt.wantError {
				if KindOf(err) != KindParse {
					t.Fatalf("ParseResult() error = %v, want parse error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseResult() failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseResult() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	const prefix = "Failed to analyze image: "

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			"quota",
			&Error{Kind: KindQuota, Err: errors.New("429 Too Many Requests")},
			prefix + "API quota exceeded. Please wait a moment and try again, or use a different API key.",
		},
		{
			"short network",
			&Error{Kind: KindNetwork, Err: errors.New("connection refused")},
			prefix + "connection refused",
		},
		{
			"long network",
			&Error{Kind: KindNetwork, Err: errors.New(strings.Repeat("x", 101))},
			prefix + "An error occurred while analyzing the image.",
		},
		{
			"plain error",
			errors.New("boom"),
			prefix + "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	err := error(&Error{Kind: KindUnconfigured, Err: ErrNoAPIKey})
	if !errors.Is(err, ErrNoAPIKey) {
		t.Error("errors.Is should see the wrapped sentinel")
	}
	if KindOf(err) != KindUnconfigured {
		t.Errorf("KindOf() = %s, want unconfigured", KindOf(err))
	}
}
