package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicProvider wraps the anthropic-sdk-go Messages client. It exists
// as an alternate Provider so LLM_PROVIDER=anthropic can be selected
// without touching any caller — mission and evidence only ever see the
// Provider interface.
type AnthropicProvider struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

func NewAnthropicProvider(apiKey, model string) *AnthropicProvider {
	return &AnthropicProvider{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     anthropic.Model(model),
		maxTokens: 1024,
	}
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

func (p *AnthropicProvider) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: p.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("llm: anthropic message: %w", err)
	}
	for _, block := range resp.Content {
		if text := block.Text; text != "" {
			return text, nil
		}
	}
	return "", fmt.Errorf("llm: anthropic returned no text content")
}

func (p *AnthropicProvider) ParseQuery(ctx context.Context, systemPrompt, query string) (string, error) {
	return p.complete(ctx, systemPrompt, fmt.Sprintf("Parse this recruitment query:\n\n%s", query))
}

func (p *AnthropicProvider) GenerateHighlights(ctx context.Context, prompt string) (string, error) {
	return p.complete(ctx, prompt, "Return exactly 3 highlight lines:")
}
