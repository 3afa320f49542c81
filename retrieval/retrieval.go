package retrieval

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/resonantlabs/shortlist/shortlist"
	"github.com/resonantlabs/shortlist/store"
	"github.com/resonantlabs/shortlist/vectorsearch"
)

// Stage is the §4.2 Retrieval stage handler. It is built with its
// external collaborators once at startup and invoked per request.
type Stage struct {
	Skills  store.SkillIndex
	Chunks  store.ChunkStore
	Vectors vectorsearch.Searcher

	KPool, KSparse, KDense, SearchConcurrency int
}

// Run executes §4.2 end to end: skill gating, then concurrent lexical +
// vector search bounded to SearchConcurrency (recommended: 2). Failure of
// one sub-search degrades to an empty list with a warning event rather
// than failing the stage; failure of both is returned as a fatal error
// per §7 ("a total failure of both lexical and vector retrieval is
// fatal").
func (s *Stage) Run(ctx context.Context, mission shortlist.MissionSpec, sink shortlist.EventSink) ([]shortlist.RetrievalHit, []shortlist.RetrievalHit, error) {
	_ = sink.AgentStart("Retriever", shortlist.StageRetrieval, "Starting multi-strategy candidate retrieval")

	gateSet, matchedSkills, err := GateSkills(ctx, s.Skills, mission.MustHave, s.KPool)
	if err != nil {
		_ = sink.AgentThought("Retriever", fmt.Sprintf("Skill gate failed (%v), proceeding with an unbounded gate", err))
		gateSet, matchedSkills = nil, nil
	} else if len(mission.MustHave) > 0 {
		_ = sink.ToolResult("Retriever", "search_skills_db", fmt.Sprintf("Found %d candidates matching skills", len(gateSet)))
	}

	queryText := CombinedQueryText(mission)

	limit := s.SearchConcurrency
	if limit <= 0 {
		limit = 2
	}

	var lexicalHits, vectorHits []shortlist.RetrievalHit
	var lexicalErr, vectorErr error

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	g.Go(func() error {
		_ = sink.ToolCall("Retriever", "lexical_search_chunks", "Running keyword/lexical search on resume chunks")
		lexicalHits, lexicalErr = Lexical(gctx, s.Chunks, queryText, gateSet, s.KSparse, matchedSkills)
		if lexicalErr != nil {
			_ = sink.AgentThought("Retriever", fmt.Sprintf("Lexical search failed: %v", lexicalErr))
			lexicalHits = nil
			return nil
		}
		_ = sink.ToolResult("Retriever", "lexical_search_chunks", fmt.Sprintf("Lexical search returned %d chunk hits", len(lexicalHits)))
		return nil
	})

	g.Go(func() error {
		_ = sink.ToolCall("Retriever", "vector_search_chunks", "Running semantic/vector search on resume chunks")
		vectorHits, vectorErr = Vector(gctx, s.Vectors, queryText, gateSet, s.KDense)
		if vectorErr != nil {
			_ = sink.AgentThought("Retriever", fmt.Sprintf("Vector search failed: %v", vectorErr))
			vectorHits = nil
			return nil
		}
		_ = sink.ToolResult("Retriever", "vector_search_chunks", fmt.Sprintf("Vector search returned %d chunk hits", len(vectorHits)))
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("retrieval: %w", err)
	}

	if lexicalErr != nil && vectorErr != nil {
		return nil, nil, fmt.Errorf("retrieval: both lexical and vector search failed: lexical=%v vector=%v", lexicalErr, vectorErr)
	}

	return lexicalHits, vectorHits, nil
}
