package vectorsearch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resonantlabs/shortlist/store"
)

type fakeChunkStore struct {
	chunks []store.Chunk
}

func (f *fakeChunkStore) LexicalSearch(ctx context.Context, terms []string, candidateIDs []string, limit int) ([]store.Chunk, error) {
	return nil, nil
}
func (f *fakeChunkStore) FetchEmbeddings(ctx context.Context, candidateIDs []string) ([]store.Chunk, error) {
	return f.chunks, nil
}
func (f *fakeChunkStore) FetchByCandidate(ctx context.Context, candidateID string) ([]store.Chunk, error) {
	return nil, nil
}

type fakeEmbeddingModel struct {
	vector []float32
}

func (f *fakeEmbeddingModel) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return [][]float32{f.vector}, nil
}
func (f *fakeEmbeddingModel) Dimensions() int { return len(f.vector) }

func TestCosineSimilarityIdenticalVectors(t *testing.T) {
	a := []float32{1, 0, 0}
	b := []float32{1, 0, 0}
	assert.Equal(t, float64(1), cosineSimilarity(a, b))
}

func TestCosineSimilarityOrthogonalVectors(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	assert.Equal(t, float64(0), cosineSimilarity(a, b))
}

func TestCosineSimilarityMismatchedLengths(t *testing.T) {
	assert.Equal(t, float64(0), cosineSimilarity([]float32{1, 2}, []float32{1}))
}

func TestSearchSkipsMissingEmbeddingsAndRanksByScore(t *testing.T) {
	chunks := &fakeChunkStore{chunks: []store.Chunk{
		{ChunkID: "c1", CandidateID: "a", Embedding: []float32{1, 0}},
		{ChunkID: "c2", CandidateID: "b", Embedding: nil},
		{ChunkID: "c3", CandidateID: "c", Embedding: []float32{0.9, 0.1}},
	}}
	model := &fakeEmbeddingModel{vector: []float32{1, 0}}
	searcher := NewCosineSearcher(chunks, model)

	hits, err := searcher.Search(context.Background(), "query", nil, 10)
	require.NoError(t, err)
	require.Len(t, hits, 2, "missing embedding skipped")
	assert.Equal(t, "c1", hits[0].ChunkID, "exact match should rank first")
}

func TestSearchSkipsChunksWithMismatchedDimensions(t *testing.T) {
	chunks := &fakeChunkStore{chunks: []store.Chunk{
		{ChunkID: "c1", CandidateID: "a", Embedding: []float32{1, 0}},
		{ChunkID: "c2", CandidateID: "b", Embedding: []float32{1, 0, 0}},
	}}
	model := &fakeEmbeddingModel{vector: []float32{1, 0}}
	searcher := NewCosineSearcher(chunks, model)

	hits, err := searcher.Search(context.Background(), "query", nil, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1, "stale-dimension chunk should be skipped")
	assert.Equal(t, "c1", hits[0].ChunkID)
}

func TestSearchTruncatesToLimit(t *testing.T) {
	chunks := &fakeChunkStore{chunks: []store.Chunk{
		{ChunkID: "c1", CandidateID: "a", Embedding: []float32{1, 0}},
		{ChunkID: "c2", CandidateID: "b", Embedding: []float32{0.5, 0.5}},
		{ChunkID: "c3", CandidateID: "c", Embedding: []float32{0, 1}},
	}}
	model := &fakeEmbeddingModel{vector: []float32{1, 0}}
	searcher := NewCosineSearcher(chunks, model)

	hits, err := searcher.Search(context.Background(), "query", nil, 1)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}
