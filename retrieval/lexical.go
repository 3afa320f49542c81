package retrieval

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/resonantlabs/shortlist/shortlist"
	"github.com/resonantlabs/shortlist/store"
)

var lexicalSplitPattern = regexp.MustCompile(`[,;\s]+`)

// Lexical runs §4.2's keyword sub-search: split the query on
// [,;\s]+, discard single-character terms, case-insensitively count term
// occurrences per chunk, and rank by total occurrence count.
//
// Per DESIGN.md's Open Question 2 decision, the score is the raw,
// unscaled occurrence count — no BM25-style length normalization —
// matching original_source/tools.py:lexical_search_chunks exactly.
func Lexical(ctx context.Context, chunks store.ChunkStore, queryText string, candidateIDs []string, limit int, matchedSkillsByCandidate map[string][]string) ([]shortlist.RetrievalHit, error) {
	terms := splitTerms(queryText)
	if len(terms) == 0 {
		return nil, nil
	}

	docs, err := chunks.LexicalSearch(ctx, terms, candidateIDs, limit)
	if err != nil {
		return nil, fmt.Errorf("retrieval: lexical search: %w", err)
	}

	type scoredChunk struct {
		chunk store.Chunk
		score float64
	}
	scored := make([]scoredChunk, 0, len(docs))
	for _, c := range docs {
		var score float64
		lower := strings.ToLower(c.ChunkText)
		for _, t := range terms {
			score += float64(strings.Count(lower, strings.ToLower(t)))
		}
		scored = append(scored, scoredChunk{chunk: c, score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	if len(scored) > limit {
		scored = scored[:limit]
	}

	hits := make([]shortlist.RetrievalHit, len(scored))
	for i, sc := range scored {
		hits[i] = shortlist.RetrievalHit{
			ChunkID:       sc.chunk.ChunkID,
			CandidateID:   sc.chunk.CandidateID,
			SectionType:   sc.chunk.SectionType,
			ChunkText:     sc.chunk.ChunkText,
			Score:         sc.score,
			Rank:          i + 1,
			Source:        shortlist.SourceLexical,
			MatchedSkills: matchedSkillsByCandidate[sc.chunk.CandidateID],
		}
	}
	return hits, nil
}

func splitTerms(queryText string) []string {
	raw := lexicalSplitPattern.Split(queryText, -1)
	terms := make([]string, 0, len(raw))
	for _, t := range raw {
		if len(t) > 1 {
			terms = append(terms, t)
		}
	}
	return terms
}
