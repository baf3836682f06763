// Package vision estimates a Rummikub penalty score from a photo of the
// tiles left in a player's rack. The actual recognition is delegated to a
// remote multimodal model; this package prepares the image, asks for a
// structured answer and turns every failure into a recoverable *Error.
package vision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Result is a scanned penalty.
type Result struct {
	Score     int    `json:"score"`
	Breakdown string `json:"breakdown"`
}

// Scorer turns image bytes into a penalty score.
type Scorer interface {
	Score(ctx context.Context, image []byte) (Result, error)
}

// Kind categorizes scan failures.
type Kind int

const (
	KindNetwork Kind = iota
	KindQuota
	KindParse
	KindImage
	KindUnconfigured
	KindBusy
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindQuota:
		return "quota"
	case KindParse:
		return "parse"
	case KindImage:
		return "image"
	case KindUnconfigured:
		return "unconfigured"
	case KindBusy:
		return "busy"
	default:
		return "unknown"
	}
}

var (
	ErrNoAPIKey = errors.New("vision: no API key configured")
	ErrDisabled = errors.New("vision: photo scanning is turned off")
	ErrBusy     = errors.New("vision: a scan is already running")
)

// maxMessageLen caps error text shown to users.
const maxMessageLen = 100

// Error is a categorized, recoverable scan failure.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("vision: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage returns a short message suitable for the status line.
func (e *Error) UserMessage() string {
	var msg string
	switch e.Kind {
	case KindQuota:
		msg = "API quota exceeded. Please wait a moment and try again, or use a different API key."
	case KindUnconfigured:
		msg = "photo scanning is not configured. Enter the score manually."
	case KindBusy:
		msg = "another photo is still being analyzed."
	case KindImage:
		msg = "the file is not a readable image."
	default:
		msg = "Unknown error"
		if e.Err != nil {
			msg = e.Err.Error()
		}
		if len(msg) > maxMessageLen {
			msg = "An error occurred while analyzing the image."
		}
	}
	return "Failed to analyze image: " + msg
}

// UserMessage returns the status line text for any error.
func UserMessage(err error) string {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.UserMessage()
	}
	return (&Error{Kind: KindNetwork, Err: err}).UserMessage()
}

// KindOf returns the kind of err, defaulting to KindNetwork.
func KindOf(err error) Kind {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Kind
	}
	return KindNetwork
}

// ParseResult decodes the model's JSON answer.
func ParseResult(text string) (Result, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var raw struct {
		Score     *int   `json:"score"`
		Breakdown string `json:"breakdown"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return Result{}, &Error{Kind: KindParse, Err: fmt.Errorf("malformed response: %w", err)}
	}
	if raw.Score == nil {
		return Result{}, &Error{Kind: KindParse, Err: errors.New("response has no score")}
	}
	if *raw.Score < 0 {
		return Result{}, &Error{Kind: KindParse, Err: fmt.Errorf("negative score %d", *raw.Score)}
	}
	return Result{Score: *raw.Score, Breakdown: strings.TrimSpace(raw.Breakdown)}, nil
}

// Prompt is the instruction sent along with every photo.
const Prompt = "This photo shows Rummikub tiles left in a player's rack. " +
	"Add up the penalty: every numbered tile counts its face value (1 to 13) and " +
	"every joker (the tile with a face on it) counts 30. Count each visible tile once. " +
	"Answer with a JSON object holding 'score' (integer) and 'breakdown' " +
	"(the sum written out, for example '6 + 6 + 6 + 8')."
