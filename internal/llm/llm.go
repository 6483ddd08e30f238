// Package llm provides single-turn text completion clients for the
// judgment model. All output is untrusted text; callers own parsing.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Completer is a single-turn text completion call against the judgment model.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrEmptyResponse is returned when the provider answers with no text.
var ErrEmptyResponse = errors.New("llm: empty completion response")

// Options configures a completion client.
type Options struct {
	APIKey      string
	BaseURL     string // optional; OpenAI-compatible endpoints (e.g. Groq)
	Model       string
	MaxTokens   int64
	Temperature float64
	Retry       RetryConfig
}

func (o Options) withDefaults() Options {
	if o.MaxTokens == 0 {
		o.MaxTokens = 2048
	}
	if o.Temperature == 0 {
		o.Temperature = 0.1
	}
	if o.Retry == (RetryConfig{}) {
		o.Retry = DefaultRetryConfig()
	}
	return o
}

// New creates a Completer for the named provider ("openai" or "anthropic").
// "openai" covers any OpenAI-compatible endpoint via Options.BaseURL.
func New(provider string, opts Options) (Completer, error) {
	switch provider {
	case "openai":
		return NewOpenAI(opts), nil
	case "anthropic":
		return NewAnthropic(opts), nil
	default:
		return nil, fmt.Errorf("llm.New: unknown provider %q", provider)
	}
}
