// Package shortlist defines the domain types shared across every stage of
// the candidate shortlisting pipeline, and the RunState that threads them
// through it.
//
// Grounded on original_source/agents/state.py for the field inventory, and
// on spec.md §3's invariants for the zero-value/optionality rules encoded
// in the pointer fields below (DenseRank/SparseRank may be absent; MinYears
// may be unset).
package shortlist

// MissionSpec is the structured query produced by query understanding
// (§4.1). RawQuery is preserved verbatim for reuse as the retrieval and
// reranker query text.
type MissionSpec struct {
	MustHave            []string `json:"must_have"`
	NiceToHave          []string `json:"nice_to_have"`
	NegativeConstraints []string `json:"negative_constraints"`
	MinYears            *int     `json:"min_years,omitempty"`
	Location            string   `json:"location,omitempty"`
	CoreDomain          string   `json:"core_domain,omitempty"`
	Clarifications      []string `json:"clarifications"`
	RawQuery            string   `json:"raw_query"`
}

// HitSource identifies which retrieval path produced a RetrievalHit.
type HitSource string

const (
	SourceLexical HitSource = "lexical"
	SourceVector  HitSource = "vector"
)

// RetrievalHit is a single chunk-level search result from either the
// lexical or vector sub-search (§4.2).
type RetrievalHit struct {
	ChunkID       string
	CandidateID   string
	SectionType   string
	ChunkText     string
	Score         float64
	Rank          int
	Source        HitSource
	MatchedSkills []string // populated for lexical hits only
}

// FusedCandidate is a resume-level merge of the lexical and vector hit
// lists produced by fusion (§4.3). DenseRank and SparseRank are nil when
// the candidate did not appear in that source's list; spec.md §3 requires
// at least one of the two to be set.
type FusedCandidate struct {
	CandidateID   string
	RRFScore      float64
	DenseRank     *int
	SparseRank    *int
	MatchedSkills []string
	MatchedCount  int
}

// WhyMatched classifies which search source(s) surfaced an EvidenceItem.
type WhyMatched string

const (
	WhyLexical WhyMatched = "lexical"
	WhyVector  WhyMatched = "vector"
	WhyBoth    WhyMatched = "both"
)

// EvidenceItem is one supporting snippet attached to a candidate's
// evidence pack (§4.4).
type EvidenceItem struct {
	ChunkID     string     `json:"chunk_id"`
	Section     string     `json:"section"`
	TextSnippet string     `json:"text_snippet"`
	WhyMatched  WhyMatched `json:"why_matched"`
}

// EvidencePack is the bounded per-candidate evidence bundle produced by
// the evidence stage: at most MAX_CHUNKS_PER_CANDIDATE items, totalling at
// most MAX_TOTAL_CHARS_PER_CANDIDATE snippet characters, plus up to three
// synthesized highlight lines.
type EvidencePack struct {
	CandidateID string         `json:"candidate_id"`
	Evidence    []EvidenceItem `json:"evidence"`
	Highlights  []string       `json:"highlights"`
}

// ScoreBreakdown exposes the components that produced a result's
// final_score, for client-side transparency.
type ScoreBreakdown struct {
	RRFScore    float64 `json:"rrf_score"`
	RerankScore float64 `json:"rerank_score"`
	DenseRank   *int    `json:"dense_rank,omitempty"`
	SparseRank  *int    `json:"sparse_rank,omitempty"`
}

// FinalResult is the output of ranking (§4.5), before profile enrichment
// and hard filtering in assembly.
type FinalResult struct {
	CandidateID   string
	FinalScore    float64
	RRFScore      float64
	RerankScore   float64
	DenseRank     *int
	SparseRank    *int
	MatchedSkills []string
	MatchedCount  int
}

// ShortlistResult is one entry of the external response (§6).
type ShortlistResult struct {
	CandidateID     string         `json:"candidate_id"`
	Name            string         `json:"name"`
	FinalScore      float64        `json:"final_score"`
	ScoreBreakdown  ScoreBreakdown `json:"score_breakdown"`
	EvidencePack    EvidencePack   `json:"evidence_pack"`
	Highlights      []string       `json:"highlights"`
	Headline        string         `json:"headline"`
	TotalYOE        float64        `json:"total_yoe"`
	LocationCountry string         `json:"location_country"`
	LocationCity    string         `json:"location_city"`
	Summary         string         `json:"summary"`
	MatchedSkills   []string       `json:"matched_skills"`
}

// MatchQuality classifies how well the shortlist satisfied the query,
// per §4.6.
type MatchQuality string

const (
	MatchStrong MatchQuality = "strong"
	MatchWeak   MatchQuality = "weak"
	MatchNone   MatchQuality = "none"
)

// ShortlistResponse is the complete external response (§6).
type ShortlistResponse struct {
	RequestID            string             `json:"request_id"`
	MissionSpec          MissionSpec        `json:"mission_spec"`
	Results              []ShortlistResult  `json:"results"`
	SuggestedRefinements []string           `json:"suggested_refinements"`
	StageTimings         map[string]float64 `json:"stage_timings"`
	TotalCandidatesFound int                `json:"total_candidates_found"`
	MatchQuality         MatchQuality       `json:"match_quality"`
}

// CandidateProfile is the subset of resumes_core consumed by assembly's
// profile enrichment step (§4.6).
type CandidateProfile struct {
	CandidateID     string
	Name            string
	Summary         string
	TotalYOE        float64
	LocationCountry string
	LocationCity    string
	Headline        string
}
