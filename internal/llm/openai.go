package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAI is a Completer backed by the OpenAI chat-completions protocol.
// With a custom BaseURL it also covers compatible providers such as Groq.
type OpenAI struct {
	client      openai.Client
	model       string
	maxTokens   int64
	temperature float64
	retry       RetryConfig
}

func NewOpenAI(opts Options) *OpenAI {
	opts = opts.withDefaults()

	reqOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}

	return &OpenAI{
		client:      openai.NewClient(reqOpts...),
		model:       opts.Model,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
		retry:       opts.Retry,
	}
}

// Complete sends a single user turn and returns the raw completion text.
func (c *OpenAI) Complete(ctx context.Context, prompt string) (string, error) {
	return withRetry(ctx, c.retry, isRetryableOpenAI, func(ctx context.Context) (string, error) {
		resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model: openai.ChatModel(c.model),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.UserMessage(prompt),
			},
			MaxTokens:   openai.Int(c.maxTokens),
			Temperature: openai.Float(c.temperature),
		})
		if err != nil {
			return "", fmt.Errorf("llm.OpenAI.Complete: %w", err)
		}

		if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
			return "", fmt.Errorf("llm.OpenAI.Complete: %w", ErrEmptyResponse)
		}

		return resp.Choices[0].Message.Content, nil
	})
}

func isRetryableOpenAI(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}
	return false
}
