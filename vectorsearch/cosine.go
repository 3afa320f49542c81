package vectorsearch

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/resonantlabs/shortlist/embedding"
	"github.com/resonantlabs/shortlist/store"
)

// CosineSearcher is the default, brute-force dense retrieval backend: it
// embeds the query, loads every candidate chunk's stored embedding from
// the document store, and ranks by cosine similarity. It matches
// original_source/agents/tools.py:vector_search_chunks exactly, including
// the "skip chunks with missing/empty embeddings" rule.
type CosineSearcher struct {
	chunks store.ChunkStore
	model  embedding.Model
}

func NewCosineSearcher(chunks store.ChunkStore, model embedding.Model) *CosineSearcher {
	return &CosineSearcher{chunks: chunks, model: model}
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	denom := math.Sqrt(magA) * math.Sqrt(magB)
	if denom <= 0 {
		return 0
	}
	return dot / denom
}

func (s *CosineSearcher) Search(ctx context.Context, queryText string, candidateIDs []string, limit int) ([]Hit, error) {
	vectors, err := s.model.Embed(ctx, []string{queryText})
	if err != nil {
		return nil, fmt.Errorf("vectorsearch: embedding query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("vectorsearch: embedding returned no vectors")
	}
	queryVec := vectors[0]
	if dims := s.model.Dimensions(); dims > 0 && len(queryVec) != dims {
		return nil, fmt.Errorf("vectorsearch: query embedding has %d dims, model reports %d", len(queryVec), dims)
	}

	chunks, err := s.chunks.FetchEmbeddings(ctx, candidateIDs)
	if err != nil {
		return nil, fmt.Errorf("vectorsearch: fetching chunk embeddings: %w", err)
	}

	hits := make([]Hit, 0, len(chunks))
	for _, c := range chunks {
		// Stored embeddings from a stale model version won't match the
		// current query vector's length; cosineSimilarity would silently
		// score them 0, so skip them the same way a missing embedding is
		// skipped rather than let them masquerade as a real non-match.
		if len(c.Embedding) == 0 || len(c.Embedding) != len(queryVec) {
			continue
		}
		hits = append(hits, Hit{
			ChunkID:     c.ChunkID,
			CandidateID: c.CandidateID,
			SectionType: c.SectionType,
			ChunkText:   c.ChunkText,
			Score:       cosineSimilarity(queryVec, c.Embedding),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}
