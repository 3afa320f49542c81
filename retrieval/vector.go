package retrieval

import (
	"context"
	"fmt"

	"github.com/resonantlabs/shortlist/shortlist"
	"github.com/resonantlabs/shortlist/vectorsearch"
)

// Vector runs §4.2's semantic sub-search via the configured
// vectorsearch.Searcher (brute-force cosine or Qdrant), tagging and
// ranking the results.
func Vector(ctx context.Context, searcher vectorsearch.Searcher, queryText string, candidateIDs []string, limit int) ([]shortlist.RetrievalHit, error) {
	if searcher == nil {
		return nil, fmt.Errorf("retrieval: vector search: no searcher configured")
	}
	results, err := searcher.Search(ctx, queryText, candidateIDs, limit)
	if err != nil {
		return nil, fmt.Errorf("retrieval: vector search: %w", err)
	}

	hits := make([]shortlist.RetrievalHit, len(results))
	for i, r := range results {
		hits[i] = shortlist.RetrievalHit{
			ChunkID:     r.ChunkID,
			CandidateID: r.CandidateID,
			SectionType: r.SectionType,
			ChunkText:   r.ChunkText,
			Score:       r.Score,
			Rank:        i + 1,
			Source:      shortlist.SourceVector,
		}
	}
	return hits, nil
}
