package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Anthropic is a Completer backed by the Anthropic Messages API.
type Anthropic struct {
	client      anthropic.Client
	model       string
	maxTokens   int64
	temperature float64
	retry       RetryConfig
}

func NewAnthropic(opts Options) *Anthropic {
	opts = opts.withDefaults()

	reqOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}

	return &Anthropic{
		client:      anthropic.NewClient(reqOpts...),
		model:       opts.Model,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
		retry:       opts.Retry,
	}
}

// Complete sends a single user turn and returns the concatenated text blocks.
func (c *Anthropic) Complete(ctx context.Context, prompt string) (string, error) {
	return withRetry(ctx, c.retry, isRetryableAnthropic, func(ctx context.Context) (string, error) {
		resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:       anthropic.Model(c.model),
			MaxTokens:   c.maxTokens,
			Temperature: anthropic.Float(c.temperature),
			Messages: []anthropic.MessageParam{{
				Role: anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{
					anthropic.NewTextBlock(prompt),
				},
			}},
		})
		if err != nil {
			return "", fmt.Errorf("llm.Anthropic.Complete: %w", err)
		}

		var sb strings.Builder
		for _, block := range resp.Content {
			if block.Type == "text" {
				sb.WriteString(block.Text)
			}
		}

		if sb.Len() == 0 {
			return "", fmt.Errorf("llm.Anthropic.Complete: %w", ErrEmptyResponse)
		}

		return sb.String(), nil
	})
}

func isRetryableAnthropic(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode == 529 || apiErr.StatusCode >= 500
	}
	return false
}
