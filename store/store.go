// Package store defines the persisted-collection contracts spec.md §6
// names as external collaborators the core consumes but does not own:
// resume_skills, resume_chunks, resumes_core. The default implementation
// in store/mongo talks to MongoDB, matching
// original_source/agents/tools.py's pymongo queries exactly.
package store

import "context"

// SkillMatch is one row of a skill-gate query result (§4.2 stage 1).
type SkillMatch struct {
	CandidateID   string
	MatchedSkills []string
	MatchedCount  int
	AvgConfidence float64
}

// Chunk is a resume_chunks document projected to the fields retrieval and
// evidence need.
type Chunk struct {
	ChunkID        string
	CandidateID    string
	SectionType    string
	SectionOrdinal int
	ChunkText      string
	Embedding      []float32
}

// Profile is a resumes_core document projected to the fields assembly
// needs for enrichment (§4.6).
type Profile struct {
	CandidateID     string
	Name            string
	Summary         string
	TotalYOE        float64
	LocationCountry string
	LocationCity    string
	Headline        string
}

// SkillIndex is the resume_skills collection contract.
type SkillIndex interface {
	// MatchAny returns candidates with at least minMatch of the given
	// canonical skills, sorted by matched_count desc then avg_confidence
	// desc, capped at limit.
	MatchAny(ctx context.Context, canonicalSkills []string, minMatch, limit int) ([]SkillMatch, error)
}

// ChunkStore is the resume_chunks collection contract.
type ChunkStore interface {
	// LexicalSearch finds chunks whose text matches any of the given
	// terms (case-insensitive), optionally restricted to candidateIDs,
	// capped at limit. Scoring/ranking is the caller's (retrieval
	// package's) responsibility; this returns unscored matches with
	// their raw text.
	LexicalSearch(ctx context.Context, terms []string, candidateIDs []string, limit int) ([]Chunk, error)

	// FetchEmbeddings returns chunks with their embeddings, optionally
	// restricted to candidateIDs. Used by the brute-force cosine vector
	// searcher.
	FetchEmbeddings(ctx context.Context, candidateIDs []string) ([]Chunk, error)

	// FetchByCandidate returns every chunk for one candidate, ordered by
	// section type then ordinal. Outside the shortlisting hot path; backs
	// cmd/shortlistd's GET /v1/candidates/{id}/chunks inspection endpoint.
	FetchByCandidate(ctx context.Context, candidateID string) ([]Chunk, error)
}

// ProfileStore is the resumes_core collection contract.
type ProfileStore interface {
	FetchProfiles(ctx context.Context, candidateIDs []string) ([]Profile, error)
}

// Store aggregates the three collection contracts behind one handle, the
// shape retrieval/assembly actually depend on.
type Store interface {
	SkillIndex
	ChunkStore
	ProfileStore
}
