// Package pipeline sequences the six shortlisting stages over a single
// shortlist.RunState, in the order spec.md §2 defines.
//
// Grounded on Tangerg-lynx/ai/rag/pipeline.go for the orchestration
// idiom: a struct holding each stage's collaborators, a Run method that
// threads state through sequential steps and wraps each stage's error
// with its name.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/resonantlabs/shortlist/assembly"
	"github.com/resonantlabs/shortlist/evidence"
	"github.com/resonantlabs/shortlist/fusion"
	"github.com/resonantlabs/shortlist/mission"
	"github.com/resonantlabs/shortlist/ranking"
	"github.com/resonantlabs/shortlist/retrieval"
	"github.com/resonantlabs/shortlist/shortlist"
)

// Pipeline wires the six stage handlers plus the fusion/scoring
// configuration that isn't owned by any single external collaborator.
type Pipeline struct {
	Mission   *mission.Parser
	Retrieval *retrieval.Stage
	Evidence  *evidence.Stage
	Ranking   *ranking.Stage
	Assembly  *assembly.Stage

	RRFK, KPool, KRerank int
}

// Run executes the full pipeline against sink, emitting progress events
// at every point spec.md §4.7 requires, and returns the terminal
// ShortlistResponse. A fatal error aborts the pipeline and emits a
// terminal `error` event instead of `result`.
func (p *Pipeline) Run(ctx context.Context, queryText string, sink shortlist.EventSink) (shortlist.ShortlistResponse, error) {
	state := shortlist.NewRunState(uuid.NewString(), queryText)

	missionSpec, err := p.runQueryUnderstanding(ctx, state, sink)
	if err != nil {
		_ = sink.Error(shortlist.StageQueryUnderstanding, err.Error())
		return shortlist.ShortlistResponse{}, fmt.Errorf("pipeline stage 'query_understanding' failed: %w", err)
	}
	state.Apply(shortlist.Patch{MissionSpec: &missionSpec})

	sparse, dense, err := p.runRetrieval(ctx, state, sink)
	if err != nil {
		_ = sink.Error(shortlist.StageRetrieval, err.Error())
		return shortlist.ShortlistResponse{}, fmt.Errorf("pipeline stage 'retrieval' failed: %w", err)
	}
	state.Apply(shortlist.Patch{SparseResults: sparse, DenseResults: dense})

	fused := p.runFusion(state, sink)
	state.Apply(shortlist.Patch{FusedCandidates: fused})

	packs := p.runEvidence(ctx, state, sink)
	state.Apply(shortlist.Patch{EvidencePacks: packs})

	finalResults := p.runRanking(ctx, state, sink)
	state.Apply(shortlist.Patch{FinalResults: finalResults})

	response := p.runAssembly(ctx, state, sink)
	state.Apply(shortlist.Patch{Response: &response})

	_ = sink.Done("Pipeline complete")
	return response, nil
}

func timeStage(state *shortlist.RunState, stage shortlist.Stage, sink shortlist.EventSink, message string, fn func()) {
	start := time.Now()
	fn()
	elapsed := time.Since(start)
	state.RecordTiming(stage, elapsed)
	_ = sink.StageComplete(stage, float64(elapsed.Milliseconds()), message)
}

func (p *Pipeline) runQueryUnderstanding(ctx context.Context, state *shortlist.RunState, sink shortlist.EventSink) (shortlist.MissionSpec, error) {
	_ = sink.AgentStart("JD Understanding", shortlist.StageQueryUnderstanding, "Analyzing query requirements")

	var spec shortlist.MissionSpec
	timeStage(state, shortlist.StageQueryUnderstanding, sink, "Query understanding complete", func() {
		spec = p.Mission.Parse(ctx, state.QueryText, sink)
	})
	_ = sink.MissionSpecEvent("JD Understanding", spec, fmt.Sprintf(
		"Extracted %d must-have skills, %d nice-to-have", len(spec.MustHave), len(spec.NiceToHave)))
	return spec, nil
}

func (p *Pipeline) runRetrieval(ctx context.Context, state *shortlist.RunState, sink shortlist.EventSink) ([]shortlist.RetrievalHit, []shortlist.RetrievalHit, error) {
	var sparse, dense []shortlist.RetrievalHit
	var err error
	timeStage(state, shortlist.StageRetrieval, sink, "Retrieval complete", func() {
		sparse, dense, err = p.Retrieval.Run(ctx, state.MissionSpec, sink)
	})
	return sparse, dense, err
}

func (p *Pipeline) runFusion(state *shortlist.RunState, sink shortlist.EventSink) []shortlist.FusedCandidate {
	_ = sink.AgentStart("Fusion", shortlist.StageFusion, "Fusing lexical + vector results using Reciprocal Rank Fusion")

	var fused []shortlist.FusedCandidate
	timeStage(state, shortlist.StageFusion, sink, "Fusion complete", func() {
		fused = fusion.Fuse(state.SparseResults, state.DenseResults, p.RRFK, p.KPool)
	})

	_ = sink.AgentThought("Fusion", fmt.Sprintf("Fused into %d unique candidates", len(fused)))
	return fused
}

func (p *Pipeline) runEvidence(ctx context.Context, state *shortlist.RunState, sink shortlist.EventSink) map[string]shortlist.EvidencePack {
	var packs map[string]shortlist.EvidencePack
	timeStage(state, shortlist.StageEvidence, sink, "Evidence building complete", func() {
		packs = p.Evidence.Run(ctx, state.FusedCandidates, state.SparseResults, state.DenseResults, state.MissionSpec, p.KRerank, sink)
	})
	return packs
}

func (p *Pipeline) runRanking(ctx context.Context, state *shortlist.RunState, sink shortlist.EventSink) []shortlist.FinalResult {
	var results []shortlist.FinalResult
	timeStage(state, shortlist.StageRanking, sink, "Ranking complete", func() {
		results = p.Ranking.Run(ctx, state.FusedCandidates, state.EvidencePacks, state.MissionSpec, p.KRerank, sink)
	})
	return results
}

func (p *Pipeline) runAssembly(ctx context.Context, state *shortlist.RunState, sink shortlist.EventSink) shortlist.ShortlistResponse {
	var results []shortlist.ShortlistResult
	var quality shortlist.MatchQuality
	timeStage(state, shortlist.StageAssembly, sink, "Shortlist assembled", func() {
		results, quality = p.Assembly.Run(ctx, state.FinalResults, state.EvidencePacks, state.MissionSpec, sink)
	})

	timings := make(map[string]float64, len(state.StageTimings))
	for stage, d := range state.StageTimings {
		timings[string(stage)] = d.Seconds()
	}

	response := shortlist.ShortlistResponse{
		RequestID:            state.RequestID,
		MissionSpec:          state.MissionSpec,
		Results:              results,
		SuggestedRefinements: state.MissionSpec.Clarifications,
		StageTimings:         timings,
		TotalCandidatesFound: len(state.FinalResults),
		MatchQuality:         quality,
	}

	message := fmt.Sprintf("Pipeline complete! Returning %d ranked candidates.", len(results))
	if quality == shortlist.MatchWeak {
		message = fmt.Sprintf("Pipeline complete! Returning %d weak-match candidates.", len(results))
	}
	_ = sink.Result(response, message)

	return response
}

// RunSync drives the pipeline with events discarded, per spec.md §4.7
// ("the final response is also returned as a single object when
// streaming is disabled"), matching
// original_source/agents/streaming.py:shortlist_sync.
func (p *Pipeline) RunSync(ctx context.Context, queryText string) (shortlist.ShortlistResponse, error) {
	return p.Run(ctx, queryText, shortlist.NullEventSink{})
}
