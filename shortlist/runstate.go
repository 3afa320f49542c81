package shortlist

import "time"

// Stage names the six pipeline stages, used both as RunState bookkeeping
// keys and as the `stage` field of SSE events.
type Stage string

const (
	StageQueryUnderstanding Stage = "query_understanding"
	StageRetrieval          Stage = "retrieval"
	StageFusion             Stage = "fusion"
	StageEvidence           Stage = "evidence"
	StageRanking            Stage = "ranking"
	StageAssembly           Stage = "assembly"
)

// RunState is the single mutable context threaded through the six stages
// (spec.md §9: "model it as an explicit record whose fields are written
// monotonically, one stage at a time"). It is created once per request,
// never shared across requests, and discarded once the response is sent.
type RunState struct {
	RequestID string
	QueryText string

	MissionSpec MissionSpec

	SparseResults []RetrievalHit
	DenseResults  []RetrievalHit

	FusedCandidates []FusedCandidate

	EvidencePacks map[string]EvidencePack

	FinalResults []FinalResult

	Response ShortlistResponse

	StageTimings map[Stage]time.Duration
}

// NewRunState creates the initial state for a request. Every downstream
// field starts at its zero value; stage handlers populate them in order.
func NewRunState(requestID, queryText string) *RunState {
	return &RunState{
		RequestID:    requestID,
		QueryText:    queryText,
		EvidencePacks: make(map[string]EvidencePack),
		StageTimings: make(map[Stage]time.Duration),
	}
}

// Patch is the set of field writes a stage handler produces. A handler
// never mutates RunState directly; it returns a Patch that the pipeline
// orchestrator applies atomically once the stage's handler returns,
// matching spec.md §9's "returns a patch, applied atomically before the
// next stage begins."
type Patch struct {
	MissionSpec     *MissionSpec
	SparseResults   []RetrievalHit
	DenseResults    []RetrievalHit
	FusedCandidates []FusedCandidate
	EvidencePacks   map[string]EvidencePack
	FinalResults    []FinalResult
	Response        *ShortlistResponse
}

// Apply merges patch into state. Only non-nil fields of patch are written
// (a non-nil empty slice or map is written), so a stage that doesn't touch
// a field leaves it untouched.
func (s *RunState) Apply(patch Patch) {
	if patch.MissionSpec != nil {
		s.MissionSpec = *patch.MissionSpec
	}
	if patch.SparseResults != nil {
		s.SparseResults = patch.SparseResults
	}
	if patch.DenseResults != nil {
		s.DenseResults = patch.DenseResults
	}
	if patch.FusedCandidates != nil {
		s.FusedCandidates = patch.FusedCandidates
	}
	if patch.EvidencePacks != nil {
		s.EvidencePacks = patch.EvidencePacks
	}
	if patch.FinalResults != nil {
		s.FinalResults = patch.FinalResults
	}
	if patch.Response != nil {
		s.Response = *patch.Response
	}
}

// RecordTiming stores how long a stage took, surfaced later in
// ShortlistResponse.StageTimings.
func (s *RunState) RecordTiming(stage Stage, d time.Duration) {
	s.StageTimings[stage] = d
}
