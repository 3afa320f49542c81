package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resonantlabs/shortlist/shortlist"
	"github.com/resonantlabs/shortlist/store"
	"github.com/resonantlabs/shortlist/vectorsearch"
)

type fakeSkillIndex struct {
	matches []store.SkillMatch
	err     error
}

func (f *fakeSkillIndex) MatchAny(ctx context.Context, canonicalSkills []string, minMatch, limit int) ([]store.SkillMatch, error) {
	return f.matches, f.err
}

type fakeChunkStore struct {
	lexical []store.Chunk
	err     error
}

func (f *fakeChunkStore) LexicalSearch(ctx context.Context, terms []string, candidateIDs []string, limit int) ([]store.Chunk, error) {
	return f.lexical, f.err
}
func (f *fakeChunkStore) FetchEmbeddings(ctx context.Context, candidateIDs []string) ([]store.Chunk, error) {
	return nil, nil
}
func (f *fakeChunkStore) FetchByCandidate(ctx context.Context, candidateID string) ([]store.Chunk, error) {
	return nil, nil
}

type fakeSearcher struct {
	hits []vectorsearch.Hit
	err  error
}

func (f *fakeSearcher) Search(ctx context.Context, queryText string, candidateIDs []string, limit int) ([]vectorsearch.Hit, error) {
	return f.hits, f.err
}

func TestCombinedQueryTextPrefersRawQuery(t *testing.T) {
	got := CombinedQueryText(shortlist.MissionSpec{RawQuery: "senior go engineer", MustHave: []string{"go"}})
	assert.Equal(t, "senior go engineer", got)
}

func TestCombinedQueryTextSynthesizesFromSkills(t *testing.T) {
	got := CombinedQueryText(shortlist.MissionSpec{MustHave: []string{"go", "kubernetes"}, NiceToHave: []string{"aws"}})
	assert.Equal(t, "Skills: go; kubernetes; aws.", got)
}

func TestCombinedQueryTextEmptyWhenNothingProvided(t *testing.T) {
	assert.Empty(t, CombinedQueryText(shortlist.MissionSpec{}))
}

func TestGateSkillsEmptyMustHaveSkipsGate(t *testing.T) {
	ids, matched, err := GateSkills(context.Background(), &fakeSkillIndex{}, nil, 100)
	require.NoError(t, err)
	assert.Nil(t, ids)
	assert.Nil(t, matched)
}

func TestGateSkillsReturnsMatchedCandidates(t *testing.T) {
	idx := &fakeSkillIndex{matches: []store.SkillMatch{
		{CandidateID: "a", MatchedSkills: []string{"go"}},
		{CandidateID: "b", MatchedSkills: []string{"go", "kubernetes"}},
	}}
	ids, matched, err := GateSkills(context.Background(), idx, []string{"go", "kubernetes"}, 100)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.Len(t, matched["b"], 2)
}

func TestGateSkillsPropagatesError(t *testing.T) {
	idx := &fakeSkillIndex{err: errors.New("db down")}
	_, _, err := GateSkills(context.Background(), idx, []string{"go"}, 100)
	assert.Error(t, err)
}

func TestLexicalScoresByTermOccurrence(t *testing.T) {
	chunks := &fakeChunkStore{lexical: []store.Chunk{
		{ChunkID: "c1", CandidateID: "a", ChunkText: "go go go backend"},
		{ChunkID: "c2", CandidateID: "b", ChunkText: "go backend"},
	}}
	hits, err := Lexical(context.Background(), chunks, "go backend", nil, 10, nil)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "c1", hits[0].ChunkID, "higher term count should rank first")
}

func TestLexicalEmptyQueryReturnsNoHits(t *testing.T) {
	hits, err := Lexical(context.Background(), &fakeChunkStore{}, "", nil, 10, nil)
	require.NoError(t, err)
	assert.Nil(t, hits)
}

func TestVectorNilSearcherReturnsError(t *testing.T) {
	_, err := Vector(context.Background(), nil, "query", nil, 10)
	assert.Error(t, err)
}

func TestVectorAssignsSequentialRanks(t *testing.T) {
	searcher := &fakeSearcher{hits: []vectorsearch.Hit{
		{ChunkID: "c1", CandidateID: "a", Score: 0.9},
		{ChunkID: "c2", CandidateID: "b", Score: 0.5},
	}}
	hits, err := Vector(context.Background(), searcher, "query", nil, 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, 1, hits[0].Rank)
	assert.Equal(t, 2, hits[1].Rank)
}

func TestStageRunDegradesOnSingleSourceFailure(t *testing.T) {
	stage := &Stage{
		Skills:            &fakeSkillIndex{},
		Chunks:            &fakeChunkStore{err: errors.New("lexical backend down")},
		Vectors:           &fakeSearcher{hits: []vectorsearch.Hit{{ChunkID: "c1", CandidateID: "a"}}},
		KPool:             100,
		KSparse:           50,
		KDense:            50,
		SearchConcurrency: 2,
	}

	sparse, dense, err := stage.Run(context.Background(), shortlist.MissionSpec{RawQuery: "go engineer"}, shortlist.NullEventSink{})
	require.NoError(t, err, "expected non-fatal degradation on single-source failure")
	assert.Empty(t, sparse, "sparse should be empty after lexical failure")
	assert.Len(t, dense, 1)
}

func TestStageRunFailsFatalWhenBothSourcesFail(t *testing.T) {
	stage := &Stage{
		Skills:            &fakeSkillIndex{},
		Chunks:            &fakeChunkStore{err: errors.New("lexical down")},
		Vectors:           &fakeSearcher{err: errors.New("vector down")},
		KPool:             100,
		KSparse:           50,
		KDense:            50,
		SearchConcurrency: 2,
	}

	_, _, err := stage.Run(context.Background(), shortlist.MissionSpec{RawQuery: "go engineer"}, shortlist.NullEventSink{})
	assert.Error(t, err, "expected fatal error when both sub-searches fail")
}
