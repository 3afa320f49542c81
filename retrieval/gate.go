// Package retrieval implements §4.2: skill-gated lexical + vector
// candidate retrieval. Grounded on original_source/agents/retriever_agent.go
// (stage sequencing, tool-call narration) and tools.py (gate/search
// semantics).
package retrieval

import (
	"context"
	"fmt"

	"github.com/resonantlabs/shortlist/shortlist"
	"github.com/resonantlabs/shortlist/skills"
	"github.com/resonantlabs/shortlist/store"
)

// GateSkills runs §4.2 stage 1. It returns the ordered gate set
// (candidate ids) and a map of candidate id to the skills that matched,
// used later to populate RetrievalHit.MatchedSkills on lexical hits.
//
// Per DESIGN.md's Open Question 1 decision, min_match is computed once
// (max(1, len(mustHave)/2)) and never adaptively relaxed; an empty result
// here is handled by the caller falling through to an unbounded gate, as
// spec.md §4.2's Failure clause already specifies.
func GateSkills(ctx context.Context, idx store.SkillIndex, mustHave []string, kPool int) ([]string, map[string][]string, error) {
	if len(mustHave) == 0 {
		return nil, nil, nil
	}

	normalized := skills.NormalizeAll(mustHave)
	minMatch := len(normalized) / 2
	if minMatch < 1 {
		minMatch = 1
	}

	matches, err := idx.MatchAny(ctx, normalized, minMatch, kPool)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieval: skill gate: %w", err)
	}

	ids := make([]string, len(matches))
	bySkill := make(map[string][]string, len(matches))
	for i, m := range matches {
		ids[i] = m.CandidateID
		bySkill[m.CandidateID] = m.MatchedSkills
	}
	return ids, bySkill, nil
}

// CombinedQueryText builds the query text used by both sub-searches and
// the reranker, per §4.2/§4.5: raw_query if present, else a synthesized
// "Skills: a; b; c." string from the must-have/nice-to-have union.
func CombinedQueryText(mission shortlist.MissionSpec) string {
	if mission.RawQuery != "" {
		return mission.RawQuery
	}
	all := append(append([]string{}, mission.MustHave...), mission.NiceToHave...)
	if len(all) == 0 {
		return ""
	}
	return "Skills: " + joinSemicolon(all) + "."
}

func joinSemicolon(items []string) string {
	out := ""
	for i, s := range items {
		if i > 0 {
			out += "; "
		}
		out += s
	}
	return out
}
