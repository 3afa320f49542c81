// Package ranking implements §4.5: cross-encoder reranking plus
// normalized weighted score combination.
//
// Grounded on original_source/agents/ranker_agent.go for the
// normalization formulas and event narration.
package ranking

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/resonantlabs/shortlist/reranker"
	"github.com/resonantlabs/shortlist/shortlist"
)

// Stage is the §4.5 Ranking stage handler.
type Stage struct {
	Client reranker.Client

	WRRF, WCE float64
}

const rerankerInputCharLimit = 512

func buildRerankerText(pack shortlist.EvidencePack, matchedSkills []string) string {
	snippets := make([]string, len(pack.Evidence))
	for i, e := range pack.Evidence {
		snippets[i] = e.TextSnippet
	}
	text := strings.Join(snippets, " | ")
	if text == "" {
		text = "Skills: " + strings.Join(matchedSkills, ", ")
	}
	if len(text) > rerankerInputCharLimit {
		text = text[:rerankerInputCharLimit]
	}
	return text
}

// Run reranks the top kRerank fused candidates and produces the sorted
// FinalResult list.
func (s *Stage) Run(ctx context.Context, fused []shortlist.FusedCandidate, evidencePacks map[string]shortlist.EvidencePack, mission shortlist.MissionSpec, kRerank int, sink shortlist.EventSink) []shortlist.FinalResult {
	top := fused
	if kRerank > 0 && len(top) > kRerank {
		top = top[:kRerank]
	}
	_ = sink.AgentStart("Ranker", shortlist.StageRanking, fmt.Sprintf("Reranking top %d candidates using cross-encoder AI model", len(top)))

	queryText := mission.RawQuery
	if queryText == "" {
		all := append(append([]string{}, mission.MustHave...), mission.NiceToHave...)
		queryText = "Skills: " + strings.Join(all, "; ") + "."
	}

	docs := make([]reranker.Document, len(top))
	for i, c := range top {
		pack := evidencePacks[c.CandidateID]
		docs[i] = reranker.Document{
			CandidateID: c.CandidateID,
			Text:        buildRerankerText(pack, c.MatchedSkills),
		}
	}

	rerankScores := make(map[string]float64, len(top))
	if len(docs) > 0 && s.Client != nil {
		_ = sink.ToolCall("Ranker", "cross_encoder_rerank", fmt.Sprintf("Running cross-encoder model on %d candidates", len(docs)))
		scored, err := s.Client.Rerank(ctx, queryText, docs)
		if err != nil {
			_ = sink.AgentThought("Ranker", fmt.Sprintf("Cross-encoder failed (%v), using RRF scores only", err))
			for _, c := range top {
				rerankScores[c.CandidateID] = 0
			}
		} else {
			for _, r := range scored {
				rerankScores[r.CandidateID] = r.Score
			}
			_ = sink.ToolResult("Ranker", "cross_encoder_rerank", fmt.Sprintf("Cross-encoder scored %d candidates", len(scored)))
		}
	} else {
		for _, c := range top {
			rerankScores[c.CandidateID] = 0
		}
	}

	_ = sink.AgentThought("Ranker", fmt.Sprintf("Computing final scores (RRF weight: %.2f, CE weight: %.2f)", s.WRRF, s.WCE))

	rrfMax := 0.0
	for _, c := range top {
		if c.RRFScore > rrfMax {
			rrfMax = c.RRFScore
		}
	}

	ceMin, ceMax := math.MaxFloat64, -math.MaxFloat64
	anyNonZero := false
	for _, v := range rerankScores {
		if v == 0 {
			continue
		}
		anyNonZero = true
		if v < ceMin {
			ceMin = v
		}
		if v > ceMax {
			ceMax = v
		}
	}
	if !anyNonZero {
		ceMin, ceMax = 0, 0
	}
	const epsilon = 1e-9
	ceRange := ceMax - ceMin
	if ceRange < epsilon {
		ceRange = epsilon
	}

	results := make([]shortlist.FinalResult, len(top))
	for i, c := range top {
		var rrfNorm float64
		if rrfMax > 0 {
			rrfNorm = c.RRFScore / rrfMax
		}

		ceRaw := rerankScores[c.CandidateID]
		var ceNorm float64
		if anyNonZero {
			ceNorm = (ceRaw - ceMin) / ceRange
			ceNorm = math.Max(0, math.Min(1, ceNorm))
		}

		finalScore := math.Round((s.WRRF*rrfNorm+s.WCE*ceNorm)*100*10) / 10

		results[i] = shortlist.FinalResult{
			CandidateID:   c.CandidateID,
			FinalScore:    finalScore,
			RRFScore:      c.RRFScore,
			RerankScore:   ceRaw,
			DenseRank:     c.DenseRank,
			SparseRank:    c.SparseRank,
			MatchedSkills: c.MatchedSkills,
			MatchedCount:  c.MatchedCount,
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].FinalScore != results[j].FinalScore {
			return results[i].FinalScore > results[j].FinalScore
		}
		if results[i].RRFScore != results[j].RRFScore {
			return results[i].RRFScore > results[j].RRFScore
		}
		return results[i].CandidateID < results[j].CandidateID
	})

	return results
}
