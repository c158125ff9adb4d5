package analysis

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spiffcs/ghlens/internal/constants"
)

// AnthropicCompleter is a Completer backed by the Anthropic Messages API.
type AnthropicCompleter struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewAnthropicCompleter creates a completer. An empty apiKey yields
// ErrNotConfigured.
func NewAnthropicCompleter(apiKey, model string, maxTokens int64, opts ...option.RequestOption) (*AnthropicCompleter, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	if model == "" {
		model = constants.DefaultModel
	}
	if maxTokens <= 0 {
		maxTokens = constants.DefaultMaxTokens
	}

	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)

	return &AnthropicCompleter{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

// Complete returns the first text block of the model's reply.
func (c *AnthropicCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to call model API: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("model reply contained no text")
}
