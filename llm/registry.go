package llm

import (
	"sync"

	"github.com/resonantlabs/shortlist/internal/config"
)

// New selects and constructs a Provider from cfg. It returns (nil, err)
// when unconfigured rather than panicking — mission and evidence both
// treat a nil Provider as "fall back to the deterministic path."
func New(cfg *config.Config) (Provider, error) {
	switch cfg.LLMProvider {
	case "anthropic":
		if cfg.AnthropicKey == "" {
			return nil, &Unconfigured{Reason: "ANTHROPIC_API_KEY not set"}
		}
		return NewAnthropicProvider(cfg.AnthropicKey, cfg.AnthropicModel), nil
	case "openai", "":
		if cfg.OpenAIKey == "" {
			return nil, &Unconfigured{Reason: "OPENAI_API_KEY not set"}
		}
		return NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIModel, 0.3), nil
	default:
		return nil, &Unconfigured{Reason: "unknown LLM_PROVIDER: " + cfg.LLMProvider}
	}
}

var (
	singletonOnce     sync.Once
	singletonProvider Provider
	singletonErr      error
)

// Singleton lazily builds the process-wide Provider handle the first time
// it's needed, guarded against duplicate init under concurrent first-use
// (spec.md §5/§9: "shared singletons with idempotent lazy init").
func Singleton(cfg *config.Config) (Provider, error) {
	singletonOnce.Do(func() {
		singletonProvider, singletonErr = New(cfg)
	})
	return singletonProvider, singletonErr
}
