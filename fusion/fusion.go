// Package fusion implements §4.3: deterministic Reciprocal Rank Fusion of
// the lexical and vector hit lists into resume-level FusedCandidates.
//
// Grounded on original_source/agents/fusion.go — this package is pure: no
// I/O, no randomness, matching the spec's explicit requirement and the
// teacher's separation of the deterministic fusion.go node from the
// LLM-backed agent nodes.
package fusion

import (
	"sort"

	"github.com/resonantlabs/shortlist/shortlist"
)

// DefaultK is the RRF constant used when callers don't override it via
// configuration.
const DefaultK = 60

func aggregateToResumeRanks(hits []shortlist.RetrievalHit) map[string]int {
	ranks := make(map[string]int, len(hits))
	for _, h := range hits {
		if existing, ok := ranks[h.CandidateID]; !ok || h.Rank < existing {
			ranks[h.CandidateID] = h.Rank
		}
	}
	return ranks
}

func firstMatchedSkills(hits []shortlist.RetrievalHit, candidateID string) []string {
	for _, h := range hits {
		if h.CandidateID == candidateID {
			return h.MatchedSkills
		}
	}
	return nil
}

// Fuse merges sparseResults (lexical) and denseResults (vector) per
// §4.3's algorithm: best-rank aggregation, RRF scoring with constant k,
// deterministic sort (rrf_score desc, candidate id asc), truncated to
// kPool.
func Fuse(sparseResults, denseResults []shortlist.RetrievalHit, k, kPool int) []shortlist.FusedCandidate {
	if k <= 0 {
		k = DefaultK
	}

	sparseRanks := aggregateToResumeRanks(sparseResults)
	denseRanks := aggregateToResumeRanks(denseResults)

	seen := make(map[string]struct{}, len(sparseRanks)+len(denseRanks))
	for id := range sparseRanks {
		seen[id] = struct{}{}
	}
	for id := range denseRanks {
		seen[id] = struct{}{}
	}

	fused := make([]shortlist.FusedCandidate, 0, len(seen))
	for id := range seen {
		var rrfScore float64
		var sparseRank, denseRank *int

		if r, ok := sparseRanks[id]; ok {
			rrfScore += 1.0 / float64(k+r)
			rCopy := r
			sparseRank = &rCopy
		}
		if r, ok := denseRanks[id]; ok {
			rrfScore += 1.0 / float64(k+r)
			rCopy := r
			denseRank = &rCopy
		}

		matchedSkills := firstMatchedSkills(sparseResults, id)

		fused = append(fused, shortlist.FusedCandidate{
			CandidateID:   id,
			RRFScore:      rrfScore,
			DenseRank:     denseRank,
			SparseRank:    sparseRank,
			MatchedSkills: matchedSkills,
			MatchedCount:  len(matchedSkills),
		})
	}

	sort.Slice(fused, func(i, j int) bool {
		if fused[i].RRFScore != fused[j].RRFScore {
			return fused[i].RRFScore > fused[j].RRFScore
		}
		return fused[i].CandidateID < fused[j].CandidateID
	})

	if kPool > 0 && len(fused) > kPool {
		fused = fused[:kPool]
	}
	return fused
}
