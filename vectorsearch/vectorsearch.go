// Package vectorsearch provides the dense-retrieval half of spec.md §4.2:
// embedding the combined query text and finding the nearest resume
// chunks. Two Searcher implementations share one interface (the shape
// retrieval.Vector calls), modeled on the
// Retriever/Creator/Deleter interface split in
// Tangerg-lynx/ai/vectorstore: a narrow capability interface per backend
// rather than one god-interface every vector store must implement in
// full.
package vectorsearch

import "context"

// Hit is one scored chunk returned by a Searcher, before rank assignment
// (retrieval assigns rank = 1..N in output order, per §4.2).
type Hit struct {
	ChunkID     string
	CandidateID string
	SectionType string
	ChunkText   string
	Score       float64
}

// Searcher finds the top-N chunks by similarity to queryText, optionally
// restricted to candidateIDs (the gate set). A chunk with a missing or
// empty embedding is silently skipped, per §4.2's boundary behavior.
type Searcher interface {
	Search(ctx context.Context, queryText string, candidateIDs []string, limit int) ([]Hit, error)
}
