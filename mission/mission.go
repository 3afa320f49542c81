// Package mission implements §4.1 Query Understanding: turning free text
// into a structured shortlist.MissionSpec, primarily via an LLM with a
// deterministic keyword-extraction fallback.
//
// Grounded on original_source/agents/jd_agent.py (system prompt shape,
// code-fence stripping, fallback tokenization) and samber/lo for the
// slice utilities the teacher pack leans on elsewhere.
package mission

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/resonantlabs/shortlist/llm"
	"github.com/resonantlabs/shortlist/shortlist"
	"github.com/resonantlabs/shortlist/skills"
)

const systemPrompt = `You are a recruitment query analyst. Your job is to parse a recruiter's search query or job description into structured requirements.

Given the user's query, you MUST extract:
1. must_have: Skills, technologies, or qualifications that are explicitly required.
2. nice_to_have: Skills mentioned as preferred, bonus, or optional.
3. negative_constraints: Technologies, roles, or domains explicitly excluded.
4. min_years: Minimum years of experience if mentioned (number only).
5. location: Preferred location if mentioned.
6. clarifications: Anything ambiguous or missing the recruiter might want to specify.

Normalize technology names to lowercase canonical forms. Return a JSON object with exactly these keys:
{"must_have": [], "nice_to_have": [], "negative_constraints": [], "min_years": null, "location": null, "core_domain": null, "clarifications": []}`

var stopwords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields("with and or experience in of the a an for to is are we need looking senior junior mid level developer engineer specialist") {
		stopwords[w] = struct{}{}
	}
}

var yearsPattern = regexp.MustCompile(`(?i)(\d+)\s*(?:years?|yrs?|yoe)`)
var splitCommaPattern = regexp.MustCompile(`[,;.\n]+`)

// Parser produces a MissionSpec from free text.
type Parser struct {
	provider llm.Provider
}

func NewParser(provider llm.Provider) *Parser {
	return &Parser{provider: provider}
}

type llmMissionSpec struct {
	MustHave            []string `json:"must_have"`
	NiceToHave          []string `json:"nice_to_have"`
	NegativeConstraints []string `json:"negative_constraints"`
	MinYears            *int     `json:"min_years"`
	Location            string   `json:"location"`
	CoreDomain          string   `json:"core_domain"`
	Clarifications      []string `json:"clarifications"`
}

// Parse implements §4.1's primary-then-fallback contract. sink receives
// the agent_thought progress narration; Parse never returns an error —
// degraded paths are represented in the returned MissionSpec's
// Clarifications, per spec.md §4.1 ("This stage never fails fatally").
func (p *Parser) Parse(ctx context.Context, queryText string, sink shortlist.EventSink) shortlist.MissionSpec {
	if queryText == "" {
		_ = sink.AgentThought("JD Understanding", "No query provided, using empty mission spec")
		return shortlist.MissionSpec{RawQuery: ""}
	}

	preview := queryText
	if len(preview) > 100 {
		preview = preview[:100] + "..."
	}
	_ = sink.AgentThought("JD Understanding", fmt.Sprintf("Reading query: %q", preview))

	if p.provider == nil {
		_ = sink.AgentThought("JD Understanding", "LLM unconfigured, using keyword extraction fallback")
		return fallbackParse(queryText)
	}

	_ = sink.ToolCall("JD Understanding", "llm_parse", "Calling LLM to parse requirements")
	raw, err := p.provider.ParseQuery(ctx, systemPrompt, queryText)
	if err != nil {
		_ = sink.AgentThought("JD Understanding", "LLM parse failed, using keyword extraction fallback")
		return fallbackParse(queryText)
	}

	parsed, ok := parseLLMResponse(raw)
	if !ok {
		_ = sink.AgentThought("JD Understanding", "LLM response was not valid JSON, using keyword extraction fallback")
		return fallbackParse(queryText)
	}

	return shortlist.MissionSpec{
		MustHave:            skills.NormalizeAll(parsed.MustHave),
		NiceToHave:          skills.NormalizeAll(parsed.NiceToHave),
		NegativeConstraints: skills.NormalizeAll(parsed.NegativeConstraints),
		MinYears:            parsed.MinYears,
		Location:            parsed.Location,
		CoreDomain:          parsed.CoreDomain,
		Clarifications:      parsed.Clarifications,
		RawQuery:            queryText,
	}
}

// parseLLMResponse strips optional markdown code fences and decodes the
// JSON mission spec, matching jd_agent.py's ```json / ``` stripping.
func parseLLMResponse(content string) (llmMissionSpec, bool) {
	content = strings.TrimSpace(content)
	if strings.Contains(content, "```json") {
		parts := strings.SplitN(content, "```json", 2)
		if len(parts) == 2 {
			content = strings.SplitN(parts[1], "```", 2)[0]
		}
	} else if strings.Contains(content, "```") {
		parts := strings.SplitN(content, "```", 3)
		if len(parts) >= 2 {
			content = parts[1]
		}
	}

	var parsed llmMissionSpec
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &parsed); err != nil {
		return llmMissionSpec{}, false
	}
	return parsed, true
}

// fallbackParse deterministically extracts skills per §4.1's fallback
// path, grounded on jd_agent.py:_fallback_parse.
func fallbackParse(query string) shortlist.MissionSpec {
	var minYears *int
	if m := yearsPattern.FindStringSubmatch(query); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			minYears = &n
		}
	}

	tokens := splitCommaPattern.Split(query, -1)
	candidates := lo.FilterMap(tokens, func(tok string, _ int) (string, bool) {
		cleaned := cleanFallbackToken(tok)
		if len(cleaned) <= 1 || len(cleaned) >= 50 {
			return "", false
		}
		return cleaned, true
	})

	return shortlist.MissionSpec{
		MustHave: skills.NormalizeAll(candidates),
		MinYears: minYears,
		RawQuery: query,
		Clarifications: []string{
			"Query was parsed using keyword extraction. Provide a more detailed JD for better results.",
		},
	}
}

func cleanFallbackToken(tok string) string {
	cleaned := strings.ToLower(strings.TrimSpace(tok))
	words := strings.Fields(cleaned)
	kept := lo.Filter(words, func(w string, _ int) bool {
		_, isStop := stopwords[w]
		return !isStop
	})
	return strings.TrimSpace(strings.Join(kept, " "))
}
