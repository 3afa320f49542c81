package mission

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resonantlabs/shortlist/shortlist"
)

type fakeProvider struct {
	response string
	err      error
}

func (f *fakeProvider) ParseQuery(ctx context.Context, systemPrompt, query string) (string, error) {
	return f.response, f.err
}

func (f *fakeProvider) GenerateHighlights(ctx context.Context, prompt string) (string, error) {
	return "", errors.New("not used in this test")
}

func (f *fakeProvider) Name() string { return "fake" }

func TestParseEmptyQueryReturnsEmptyMissionSpec(t *testing.T) {
	p := NewParser(nil)
	spec := p.Parse(context.Background(), "", shortlist.NullEventSink{})
	assert.Empty(t, spec.RawQuery)
	assert.Empty(t, spec.MustHave)
}

func TestParseNilProviderUsesFallback(t *testing.T) {
	p := NewParser(nil)
	spec := p.Parse(context.Background(), "Python, Django, 5 years experience", shortlist.NullEventSink{})
	require.NotNil(t, spec.MinYears)
	assert.Equal(t, 5, *spec.MinYears)
	assert.NotEmpty(t, spec.Clarifications)
}

func TestParseLLMHappyPath(t *testing.T) {
	p := NewParser(&fakeProvider{response: `{"must_have": ["Python", "Django"], "nice_to_have": ["Docker"], "negative_constraints": [], "min_years": 3, "location": "Remote", "core_domain": "backend development", "clarifications": []}`})
	spec := p.Parse(context.Background(), "Need a backend engineer", shortlist.NullEventSink{})

	require.Len(t, spec.MustHave, 2)
	assert.Equal(t, "python", spec.MustHave[0])
	require.NotNil(t, spec.MinYears)
	assert.Equal(t, 3, *spec.MinYears)
	assert.Equal(t, "backend development", spec.CoreDomain)
}

func TestParseLLMResponseStripsCodeFences(t *testing.T) {
	raw := "```json\n{\"must_have\": [\"go\"]}\n```"
	parsed, ok := parseLLMResponse(raw)
	require.True(t, ok, "expected successful parse")
	require.Len(t, parsed.MustHave, 1)
	assert.Equal(t, "go", parsed.MustHave[0])
}

func TestParseLLMErrorFallsBack(t *testing.T) {
	p := NewParser(&fakeProvider{err: errors.New("rate limited")})
	spec := p.Parse(context.Background(), "Go, Kubernetes", shortlist.NullEventSink{})
	assert.NotEmpty(t, spec.Clarifications, "expected fallback path on LLM error")
}

func TestParseLLMInvalidJSONFallsBack(t *testing.T) {
	p := NewParser(&fakeProvider{response: "not json at all"})
	spec := p.Parse(context.Background(), "Go, Kubernetes", shortlist.NullEventSink{})
	assert.NotEmpty(t, spec.Clarifications, "expected fallback path on invalid JSON")
}

func TestFallbackParseExtractsYears(t *testing.T) {
	spec := fallbackParse("Senior engineer with 7 years of experience in Go")
	require.NotNil(t, spec.MinYears)
	assert.Equal(t, 7, *spec.MinYears)
}

func TestFallbackParseDropsStopwordsAndShortTokens(t *testing.T) {
	spec := fallbackParse("a, go, experience in testing")
	assert.NotContains(t, spec.MustHave, "a")
}
