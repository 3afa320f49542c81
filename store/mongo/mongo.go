// Package mongo implements store.Store against MongoDB, mirroring
// original_source/ml-service/app/agents/tools.py's pymongo queries
// (_get_db, search_skills_db, lexical_search_chunks, vector_search_chunks's
// fetch half, fetch_candidate_profiles) field-for-field so the aggregation
// pipelines and projections match the reference collections exactly.
package mongo

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/resonantlabs/shortlist/store"
)

// Store is the MongoDB-backed store.Store implementation. It holds a
// long-lived connection pool shared across requests, matching spec.md §5
// ("The document-store handle is a long-lived connection pool, shared
// across requests, thread-safe").
type Store struct {
	db *mongo.Database
}

// Connect dials MongoDB and returns a ready Store. Call once at process
// start; the returned Store is safe for concurrent use by many requests.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("store/mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("store/mongo: ping: %w", err)
	}
	return &Store{db: client.Database(dbName)}, nil
}

var _ store.Store = (*Store)(nil)

type skillGroupResult struct {
	ID            string   `bson:"_id"`
	MatchedSkills []string `bson:"matchedSkills"`
	MatchedCount  int      `bson:"matchedCount"`
	AvgConfidence float64  `bson:"avgConfidence"`
}

// MatchAny runs the same $match/$group/$match/$sort/$limit aggregation as
// tools.py:search_skills_db.
func (s *Store) MatchAny(ctx context.Context, canonicalSkills []string, minMatch, limit int) ([]store.SkillMatch, error) {
	if len(canonicalSkills) == 0 {
		return nil, nil
	}
	threshold := minMatch
	if threshold < 1 {
		threshold = 1
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "skillCanonical", Value: bson.D{{Key: "$in", Value: canonicalSkills}}}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$resumeId"},
			{Key: "matchedSkills", Value: bson.D{{Key: "$push", Value: "$skillCanonical"}}},
			{Key: "matchedCount", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "avgConfidence", Value: bson.D{{Key: "$avg", Value: "$confidence"}}},
		}}},
		{{Key: "$match", Value: bson.D{{Key: "matchedCount", Value: bson.D{{Key: "$gte", Value: threshold}}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "matchedCount", Value: -1}, {Key: "avgConfidence", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
	}

	cur, err := s.db.Collection("resume_skills").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("store/mongo: search_skills_db aggregate: %w", err)
	}
	defer cur.Close(ctx)

	var rows []skillGroupResult
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("store/mongo: search_skills_db decode: %w", err)
	}

	out := make([]store.SkillMatch, len(rows))
	for i, r := range rows {
		out[i] = store.SkillMatch{
			CandidateID:   r.ID,
			MatchedSkills: r.MatchedSkills,
			MatchedCount:  r.MatchedCount,
			AvgConfidence: r.AvgConfidence,
		}
	}
	return out, nil
}

type chunkDoc struct {
	ChunkID        string    `bson:"chunkId"`
	ResumeID       string    `bson:"resumeId"`
	SectionType    string    `bson:"sectionType"`
	SectionOrdinal int       `bson:"sectionOrdinal"`
	ChunkText      string    `bson:"chunkText"`
	Embedding      []float32 `bson:"embedding"`
}

func toChunk(d chunkDoc, maxChars int) store.Chunk {
	text := d.ChunkText
	if maxChars > 0 && len(text) > maxChars {
		text = text[:maxChars]
	}
	return store.Chunk{
		ChunkID:        d.ChunkID,
		CandidateID:    d.ResumeID,
		SectionType:    d.SectionType,
		SectionOrdinal: d.SectionOrdinal,
		ChunkText:      text,
	}
}

// LexicalSearch matches tools.py:lexical_search_chunks's regex-OR filter;
// the scoring/ranking in that function is reproduced by retrieval.Lexical,
// not here — this just returns the matching documents.
func (s *Store) LexicalSearch(ctx context.Context, terms []string, candidateIDs []string, limit int) ([]store.Chunk, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	escaped := make([]string, len(terms))
	for i, t := range terms {
		escaped[i] = regexp.QuoteMeta(t)
	}
	pattern := strings.Join(escaped, "|")

	filter := bson.D{{Key: "chunkText", Value: bson.D{
		{Key: "$regex", Value: pattern},
		{Key: "$options", Value: "i"},
	}}}
	if len(candidateIDs) > 0 {
		filter = append(filter, bson.E{Key: "resumeId", Value: bson.D{{Key: "$in", Value: candidateIDs}}})
	}

	projection := bson.D{
		{Key: "chunkId", Value: 1}, {Key: "resumeId", Value: 1},
		{Key: "sectionType", Value: 1}, {Key: "sectionOrdinal", Value: 1},
		{Key: "chunkText", Value: 1},
	}
	opts := options.Find().SetProjection(projection).SetLimit(int64(limit))

	cur, err := s.db.Collection("resume_chunks").Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("store/mongo: lexical_search_chunks find: %w", err)
	}
	defer cur.Close(ctx)

	var docs []chunkDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("store/mongo: lexical_search_chunks decode: %w", err)
	}

	const maxCharsPerChunk = 800
	out := make([]store.Chunk, len(docs))
	for i, d := range docs {
		out[i] = toChunk(d, maxCharsPerChunk)
	}
	return out, nil
}

// FetchEmbeddings matches tools.py:vector_search_chunks's fetch half
// (everything before the cosine similarity loop, which lives in
// vectorsearch.CosineSearcher).
func (s *Store) FetchEmbeddings(ctx context.Context, candidateIDs []string) ([]store.Chunk, error) {
	filter := bson.D{}
	if len(candidateIDs) > 0 {
		filter = append(filter, bson.E{Key: "resumeId", Value: bson.D{{Key: "$in", Value: candidateIDs}}})
	}
	projection := bson.D{
		{Key: "chunkId", Value: 1}, {Key: "resumeId", Value: 1},
		{Key: "sectionType", Value: 1}, {Key: "sectionOrdinal", Value: 1},
		{Key: "chunkText", Value: 1}, {Key: "embedding", Value: 1},
	}

	cur, err := s.db.Collection("resume_chunks").Find(ctx, filter, options.Find().SetProjection(projection))
	if err != nil {
		return nil, fmt.Errorf("store/mongo: fetch embeddings find: %w", err)
	}
	defer cur.Close(ctx)

	var docs []chunkDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("store/mongo: fetch embeddings decode: %w", err)
	}

	const maxCharsPerChunk = 800
	out := make([]store.Chunk, 0, len(docs))
	for _, d := range docs {
		c := toChunk(d, maxCharsPerChunk)
		c.Embedding = d.Embedding
		out = append(out, c)
	}
	return out, nil
}

func (s *Store) FetchByCandidate(ctx context.Context, candidateID string) ([]store.Chunk, error) {
	filter := bson.D{{Key: "resumeId", Value: candidateID}}
	projection := bson.D{
		{Key: "chunkId", Value: 1}, {Key: "sectionType", Value: 1},
		{Key: "sectionOrdinal", Value: 1}, {Key: "chunkText", Value: 1},
	}
	sortOpt := bson.D{{Key: "sectionType", Value: 1}, {Key: "sectionOrdinal", Value: 1}}

	cur, err := s.db.Collection("resume_chunks").Find(ctx, filter,
		options.Find().SetProjection(projection).SetSort(sortOpt))
	if err != nil {
		return nil, fmt.Errorf("store/mongo: fetch_candidate_chunks find: %w", err)
	}
	defer cur.Close(ctx)

	var docs []chunkDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("store/mongo: fetch_candidate_chunks decode: %w", err)
	}
	const maxCharsPerChunk = 800
	out := make([]store.Chunk, len(docs))
	for i, d := range docs {
		out[i] = toChunk(d, maxCharsPerChunk)
	}
	return out, nil
}

type experienceEntry struct {
	Title   string `bson:"title"`
	Company string `bson:"company"`
}

type profileDoc struct {
	ResumeID        string            `bson:"resumeId"`
	Summary         string            `bson:"summary"`
	TotalYOE        float64           `bson:"totalYOE"`
	LocationCountry string            `bson:"locationCountry"`
	LocationCity    string            `bson:"locationCity"`
	Experience      []experienceEntry `bson:"experience"`
	PersonalInfo    struct {
		Name string `bson:"name"`
	} `bson:"personal_info"`
}

func makeHeadline(exp []experienceEntry) string {
	if len(exp) == 0 {
		return "No title available"
	}
	latest := exp[0]
	switch {
	case latest.Title != "" && latest.Company != "":
		return fmt.Sprintf("%s at %s", latest.Title, latest.Company)
	case latest.Title != "":
		return latest.Title
	case latest.Company != "":
		return latest.Company
	default:
		return "No title available"
	}
}

// FetchProfiles matches tools.py:fetch_candidate_profiles.
func (s *Store) FetchProfiles(ctx context.Context, candidateIDs []string) ([]store.Profile, error) {
	if len(candidateIDs) == 0 {
		return nil, nil
	}
	filter := bson.D{{Key: "resumeId", Value: bson.D{{Key: "$in", Value: candidateIDs}}}}
	projection := bson.D{
		{Key: "resumeId", Value: 1}, {Key: "summary", Value: 1}, {Key: "totalYOE", Value: 1},
		{Key: "locationCountry", Value: 1}, {Key: "locationCity", Value: 1},
		{Key: "experience.title", Value: 1}, {Key: "experience.company", Value: 1},
		{Key: "personal_info.name", Value: 1},
	}

	cur, err := s.db.Collection("resumes_core").Find(ctx, filter, options.Find().SetProjection(projection))
	if err != nil {
		return nil, fmt.Errorf("store/mongo: fetch_candidate_profiles find: %w", err)
	}
	defer cur.Close(ctx)

	var docs []profileDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("store/mongo: fetch_candidate_profiles decode: %w", err)
	}

	out := make([]store.Profile, len(docs))
	for i, d := range docs {
		out[i] = store.Profile{
			CandidateID:     d.ResumeID,
			Name:            d.PersonalInfo.Name,
			Summary:         d.Summary,
			TotalYOE:        d.TotalYOE,
			LocationCountry: d.LocationCountry,
			LocationCity:    d.LocationCity,
			Headline:        makeHeadline(d.Experience),
		}
	}
	return out, nil
}
