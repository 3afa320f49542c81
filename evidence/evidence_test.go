package evidence

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resonantlabs/shortlist/shortlist"
)

func TestBuildForCandidateMarksOverlapAsBoth(t *testing.T) {
	stage := &Stage{MaxChunksPerCandidate: 5, MaxCharsPerChunk: 800, MaxTotalCharsPerCandidate: 2500}
	lexical := []shortlist.RetrievalHit{{ChunkID: "c1", ChunkText: "go backend"}}
	vector := []shortlist.RetrievalHit{{ChunkID: "c1", ChunkText: "go backend"}, {ChunkID: "c2", ChunkText: "python"}}

	pack := stage.buildForCandidate("cand-1", lexical, vector)
	require.Len(t, pack.Evidence, 2)

	var c1 shortlist.EvidenceItem
	for _, e := range pack.Evidence {
		if e.ChunkID == "c1" {
			c1 = e
		}
	}
	assert.Equal(t, shortlist.WhyBoth, c1.WhyMatched)
}

func TestBuildForCandidateRespectsChunkCountBound(t *testing.T) {
	stage := &Stage{MaxChunksPerCandidate: 2, MaxCharsPerChunk: 800, MaxTotalCharsPerCandidate: 10000}
	lexical := []shortlist.RetrievalHit{
		{ChunkID: "c1", ChunkText: "aaaaaaaaaa"},
		{ChunkID: "c2", ChunkText: "bbbbbbbbbb"},
		{ChunkID: "c3", ChunkText: "cccccccccc"},
	}

	pack := stage.buildForCandidate("cand-1", lexical, nil)
	assert.Len(t, pack.Evidence, 2)
}

func TestBuildForCandidateTruncatesChunkText(t *testing.T) {
	stage := &Stage{MaxChunksPerCandidate: 5, MaxCharsPerChunk: 5, MaxTotalCharsPerCandidate: 2500}
	lexical := []shortlist.RetrievalHit{{ChunkID: "c1", ChunkText: "abcdefghij"}}

	pack := stage.buildForCandidate("cand-1", lexical, nil)
	require.NotEmpty(t, pack.Evidence)
	assert.Equal(t, "abcde", pack.Evidence[0].TextSnippet)
}

func TestBuildForCandidateTotalCharBoundWithEllipsis(t *testing.T) {
	stage := &Stage{MaxChunksPerCandidate: 5, MaxCharsPerChunk: 800, MaxTotalCharsPerCandidate: 170}
	lexical := []shortlist.RetrievalHit{
		{ChunkID: "c1", ChunkText: strings.Repeat("a", 100)},
		{ChunkID: "c2", ChunkText: strings.Repeat("b", 100)},
	}

	pack := stage.buildForCandidate("cand-1", lexical, nil)
	require.Len(t, pack.Evidence, 2)
	second := pack.Evidence[1].TextSnippet
	assert.True(t, strings.HasSuffix(second, "..."), "second snippet = %q, want ellipsis-truncated", second)
	assert.Len(t, second, 70, "67 chars + ellipsis fill the 70 remaining")
}

func TestBuildForCandidateDropsItemWhenRemainderTooSmall(t *testing.T) {
	stage := &Stage{MaxChunksPerCandidate: 5, MaxCharsPerChunk: 800, MaxTotalCharsPerCandidate: 105}
	lexical := []shortlist.RetrievalHit{
		{ChunkID: "c1", ChunkText: strings.Repeat("a", 100)},
		{ChunkID: "c2", ChunkText: strings.Repeat("b", 100)},
	}

	pack := stage.buildForCandidate("cand-1", lexical, nil)
	assert.Len(t, pack.Evidence, 1, "remaining budget too small to keep second item")
}

func TestFallbackHighlightsCapsAtThreeAnd100Chars(t *testing.T) {
	items := []shortlist.EvidenceItem{
		{TextSnippet: strings.Repeat("x", 150)},
		{TextSnippet: "short"},
		{TextSnippet: "third"},
		{TextSnippet: "fourth, never used"},
	}
	highlights := fallbackHighlights(items)
	require.Len(t, highlights, 3)
	assert.Len(t, highlights[0], 100)
}

func TestRunSkipsHighlightGenerationWithoutProvider(t *testing.T) {
	stage := &Stage{MaxChunksPerCandidate: 5, MaxCharsPerChunk: 800, MaxTotalCharsPerCandidate: 2500}
	fused := []shortlist.FusedCandidate{{CandidateID: "a"}}
	sparse := []shortlist.RetrievalHit{{CandidateID: "a", ChunkID: "c1", ChunkText: "go backend engineer"}}

	packs := stage.Run(context.Background(), fused, sparse, nil, shortlist.MissionSpec{}, 10, shortlist.NullEventSink{})
	pack, ok := packs["a"]
	require.True(t, ok, "missing pack for candidate a")
	assert.NotEmpty(t, pack.Highlights, "expected fallback highlights to be populated even without a provider")
}

func TestParseHighlightLinesFiltersShortLinesAndCapsAtThree(t *testing.T) {
	content := "a\nThis is a real highlight line\nAnother decent highlight\nYet another one\nExtra line ignored"
	lines := parseHighlightLines(content)
	assert.Len(t, lines, 3)
}
