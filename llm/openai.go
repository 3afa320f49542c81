package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIProvider wraps the openai-go chat completions client.
type OpenAIProvider struct {
	client      openai.Client
	model       string
	temperature float64
}

// NewOpenAIProvider builds a Provider backed by the OpenAI chat
// completions API. apiKey must be non-empty; callers should fall back to
// a nil Provider otherwise rather than constructing one.
func NewOpenAIProvider(apiKey, model string, temperature float64) *OpenAIProvider {
	return &OpenAIProvider{
		client:      openai.NewClient(option.WithAPIKey(apiKey)),
		model:       model,
		temperature: temperature,
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: p.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(p.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("llm: openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm: openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) ParseQuery(ctx context.Context, systemPrompt, query string) (string, error) {
	return p.complete(ctx, systemPrompt, fmt.Sprintf("Parse this recruitment query:\n\n%s", query))
}

func (p *OpenAIProvider) GenerateHighlights(ctx context.Context, prompt string) (string, error) {
	return p.complete(ctx, prompt, "Return exactly 3 highlight lines:")
}
