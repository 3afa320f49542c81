package vectorsearch

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"

	"github.com/resonantlabs/shortlist/embedding"
)

// QdrantSearcher is the ANN-backed alternate dense retrieval backend,
// selected instead of CosineSearcher when a Qdrant collection is
// configured (VECTOR_BACKEND=qdrant). It embeds the query exactly like
// CosineSearcher and delegates the nearest-neighbor search itself to
// Qdrant rather than scanning every chunk in process.
type QdrantSearcher struct {
	client     *qdrant.Client
	collection string
	model      embedding.Model
}

func NewQdrantSearcher(addr, collection string, model embedding.Model) (*QdrantSearcher, error) {
	client, err := qdrant.NewClient(&qdrant.Config{Host: addr})
	if err != nil {
		return nil, fmt.Errorf("vectorsearch: connecting to qdrant: %w", err)
	}
	return &QdrantSearcher{client: client, collection: collection, model: model}, nil
}

func (s *QdrantSearcher) Search(ctx context.Context, queryText string, candidateIDs []string, limit int) ([]Hit, error) {
	vectors, err := s.model.Embed(ctx, []string{queryText})
	if err != nil {
		return nil, fmt.Errorf("vectorsearch: embedding query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("vectorsearch: embedding returned no vectors")
	}

	req := &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vectors[0]...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if len(candidateIDs) > 0 {
		req.Filter = &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatchKeywords("candidate_id", candidateIDs...),
			},
		}
	}

	points, err := s.client.Query(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("vectorsearch: qdrant query: %w", err)
	}

	hits := make([]Hit, 0, len(points))
	for _, p := range points {
		payload := p.GetPayload()
		hits = append(hits, Hit{
			ChunkID:     payload["chunk_id"].GetStringValue(),
			CandidateID: payload["candidate_id"].GetStringValue(),
			SectionType: payload["section_type"].GetStringValue(),
			ChunkText:   payload["chunk_text"].GetStringValue(),
			Score:       float64(p.GetScore()),
		})
	}
	return hits, nil
}
