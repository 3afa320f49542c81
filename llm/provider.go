// Package llm defines the pluggable query-parsing and highlight-synthesis
// strategy spec.md §9 requires: "treat the LLM as a pluggable strategy
// with a typed interface." Two concrete Providers are offered (OpenAI,
// Anthropic); both are optional — every caller in mission and evidence
// has a deterministic fallback and must not block on this package being
// configured.
//
// Modeled on the Model interface shape in
// Tangerg-lynx/ai/model/chat/model.go (a narrow typed interface wrapping
// a provider SDK) and embedding/model.go, simplified: this pipeline only
// ever needs two fixed call shapes, not a general chat/streaming surface,
// so the fluent ClientRequest/middleware machinery in that package is not
// reproduced here (see DESIGN.md).
package llm

import "context"

// Provider is the typed LLM strategy spec.md §9 names.
type Provider interface {
	// ParseQuery asks the LLM to extract a MissionSpec-shaped JSON object
	// from free text. Returns the raw response content; the caller
	// (mission.Parser) owns JSON extraction and validation so that a
	// malformed response degrades to the deterministic fallback without
	// this package needing to know MissionSpec's shape.
	ParseQuery(ctx context.Context, systemPrompt, query string) (string, error)

	// GenerateHighlights asks the LLM for highlight lines given a
	// pre-built prompt (assembled by the evidence package from
	// must_have/nice_to_have/snippets). Returns the raw response content.
	GenerateHighlights(ctx context.Context, prompt string) (string, error)

	// Name identifies the provider for logging/event messages ("openai",
	// "anthropic").
	Name() string
}

// Unconfigured is returned by New when no provider could be built from
// the supplied configuration (no API key set). Callers treat a nil
// Provider the same as any other ParseQuery/GenerateHighlights failure —
// it routes straight to the deterministic fallback.
type Unconfigured struct {
	Reason string
}

func (e *Unconfigured) Error() string { return "llm: unconfigured: " + e.Reason }
