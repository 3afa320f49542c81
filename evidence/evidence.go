// Package evidence implements §4.4: bounded per-candidate evidence
// selection and LLM-synthesized highlights.
//
// Grounded on original_source/agents/evidence_agent.go for selection
// order and truncation rules, and internal/xsync for the bounded
// highlight fan-out (gammazero/workerpool, recommended concurrency 10).
package evidence

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/resonantlabs/shortlist/internal/xsync"
	"github.com/resonantlabs/shortlist/llm"
	"github.com/resonantlabs/shortlist/shortlist"
)

// maxHighlightCandidates is fixed at 20 regardless of MAX_RESULTS, per
// DESIGN.md's Open Question 3 decision (matches
// evidence_agent.py's literal top_for_highlights[:20]).
const maxHighlightCandidates = 20

const highlightPromptTemplate = `You are an evidence analyst for a recruitment platform.
Given a candidate's resume chunks and the job requirements, generate 3 concise highlight sentences (each under 100 characters).

Each highlight should explain WHY this candidate matches a specific requirement.
Format: one highlight per line, no bullets or numbers.

Requirements (must-have): %s
Requirements (nice-to-have): %s

Candidate evidence:
%s

Return exactly 3 highlight lines:`

// Stage is the §4.4 Evidence Building stage handler.
type Stage struct {
	Provider llm.Provider

	MaxChunksPerCandidate     int
	MaxCharsPerChunk          int
	MaxTotalCharsPerCandidate int
	HighlightConcurrency      int
}

func groupByCandidate(hits []shortlist.RetrievalHit) map[string][]shortlist.RetrievalHit {
	grouped := make(map[string][]shortlist.RetrievalHit)
	for _, h := range hits {
		grouped[h.CandidateID] = append(grouped[h.CandidateID], h)
	}
	return grouped
}

var matchOrder = map[shortlist.WhyMatched]int{
	shortlist.WhyBoth:    0,
	shortlist.WhyLexical: 1,
	shortlist.WhyVector:  2,
}

// buildForCandidate implements the per-candidate selection algorithm:
// merge + dedup by chunk_id (marking "both" on overlap), sort by match
// precedence then snippet length descending, then fill under the two
// hard bounds with visible-ellipsis truncation.
func (s *Stage) buildForCandidate(candidateID string, lexicalHits, vectorHits []shortlist.RetrievalHit) shortlist.EvidencePack {
	seen := make(map[string]int) // chunk_id -> index into items
	var items []shortlist.EvidenceItem

	appendOrMark := func(h shortlist.RetrievalHit, source shortlist.WhyMatched) {
		if idx, ok := seen[h.ChunkID]; ok {
			items[idx].WhyMatched = shortlist.WhyBoth
			return
		}
		snippet := h.ChunkText
		if len(snippet) > s.MaxCharsPerChunk {
			snippet = snippet[:s.MaxCharsPerChunk]
		}
		seen[h.ChunkID] = len(items)
		items = append(items, shortlist.EvidenceItem{
			ChunkID:     h.ChunkID,
			Section:     h.SectionType,
			TextSnippet: snippet,
			WhyMatched:  source,
		})
	}

	for _, h := range lexicalHits {
		appendOrMark(h, shortlist.WhyLexical)
	}
	for _, h := range vectorHits {
		appendOrMark(h, shortlist.WhyVector)
	}

	sort.SliceStable(items, func(i, j int) bool {
		oi, oj := matchOrder[items[i].WhyMatched], matchOrder[items[j].WhyMatched]
		if oi != oj {
			return oi < oj
		}
		return len(items[i].TextSnippet) > len(items[j].TextSnippet)
	})

	bounded := make([]shortlist.EvidenceItem, 0, s.MaxChunksPerCandidate)
	totalChars := 0
	for _, it := range items {
		if len(bounded) >= s.MaxChunksPerCandidate {
			break
		}
		if totalChars+len(it.TextSnippet) > s.MaxTotalCharsPerCandidate {
			remaining := s.MaxTotalCharsPerCandidate - totalChars
			if remaining > 50 {
				it.TextSnippet = it.TextSnippet[:remaining-3] + "..."
				bounded = append(bounded, it)
			}
			break
		}
		totalChars += len(it.TextSnippet)
		bounded = append(bounded, it)
	}

	return shortlist.EvidencePack{
		CandidateID: candidateID,
		Evidence:    bounded,
		Highlights:  fallbackHighlights(bounded),
	}
}

// fallbackHighlights takes the first-100-chars prefix of each of the
// first three evidence snippets, used both as the initial value (for
// candidates outside the highlight cap) and as the LLM failure fallback.
func fallbackHighlights(items []shortlist.EvidenceItem) []string {
	n := len(items)
	if n > 3 {
		n = 3
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		snippet := items[i].TextSnippet
		if len(snippet) > 100 {
			snippet = snippet[:100]
		}
		out[i] = snippet
	}
	return out
}

// Run builds evidence packs for the top kRerank fused candidates and
// synthesizes highlights for the first 20 of them via a bounded worker
// pool.
func (s *Stage) Run(ctx context.Context, fused []shortlist.FusedCandidate, sparseResults, denseResults []shortlist.RetrievalHit, mission shortlist.MissionSpec, kRerank int, sink shortlist.EventSink) map[string]shortlist.EvidencePack {
	top := fused
	if kRerank > 0 && len(top) > kRerank {
		top = top[:kRerank]
	}
	_ = sink.AgentStart("Evidence Builder", shortlist.StageEvidence, fmt.Sprintf("Building evidence packs for top %d candidates", len(top)))

	sparseByCandidate := groupByCandidate(sparseResults)
	denseByCandidate := groupByCandidate(denseResults)

	packs := make(map[string]shortlist.EvidencePack, len(top))
	order := make([]string, len(top))
	for i, c := range top {
		order[i] = c.CandidateID
		packs[c.CandidateID] = s.buildForCandidate(c.CandidateID, sparseByCandidate[c.CandidateID], denseByCandidate[c.CandidateID])
	}

	_ = sink.AgentThought("Evidence Builder", fmt.Sprintf("Built evidence packs for %d candidates. Generating highlights with AI", len(packs)))

	if s.Provider != nil {
		s.generateHighlights(ctx, order, packs, mission, sink)
	}

	return packs
}

func (s *Stage) generateHighlights(ctx context.Context, order []string, packs map[string]shortlist.EvidencePack, mission shortlist.MissionSpec, sink shortlist.EventSink) {
	limit := len(order)
	if limit > maxHighlightCandidates {
		limit = maxHighlightCandidates
	}
	candidates := order[:limit]

	mustHaveStr := strings.Join(mission.MustHave, ", ")
	if mustHaveStr == "" {
		mustHaveStr = "general match"
	}
	niceToHaveStr := strings.Join(mission.NiceToHave, ", ")
	if niceToHaveStr == "" {
		niceToHaveStr = "none specified"
	}

	concurrency := s.HighlightConcurrency
	if concurrency <= 0 {
		concurrency = 10
	}
	group := xsync.NewBoundedGroup(concurrency)

	type update struct {
		candidateID string
		highlights  []string
	}
	results := make(chan update, len(candidates))

	for _, cid := range candidates {
		cid := cid
		pack := packs[cid]
		evidenceText := buildEvidenceText(pack)
		if evidenceText == "" {
			continue
		}

		group.Go(func() error {
			prompt := fmt.Sprintf(highlightPromptTemplate, mustHaveStr, niceToHaveStr, truncate(evidenceText, 2000))
			content, err := s.Provider.GenerateHighlights(ctx, prompt)
			if err != nil {
				results <- update{candidateID: cid, highlights: fallbackHighlights(pack.Evidence)}
				return nil
			}
			lines := parseHighlightLines(content)
			if len(lines) == 0 {
				lines = fallbackHighlights(pack.Evidence)
			}
			results <- update{candidateID: cid, highlights: lines}
			return nil
		})
	}

	_ = group.Wait()
	close(results)

	for u := range results {
		pack := packs[u.candidateID]
		pack.Highlights = u.highlights
		packs[u.candidateID] = pack
	}
}

func buildEvidenceText(pack shortlist.EvidencePack) string {
	lines := make([]string, len(pack.Evidence))
	for i, e := range pack.Evidence {
		lines[i] = fmt.Sprintf("[%s] %s", e.Section, e.TextSnippet)
	}
	return strings.Join(lines, "\n")
}

func parseHighlightLines(content string) []string {
	var out []string
	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) > 5 {
			out = append(out, trimmed)
		}
		if len(out) == 3 {
			break
		}
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
