// Package config centralizes the tunables for the shortlisting pipeline.
// Every value is overridable via environment variable; all coercion goes
// through spf13/cast, matching the coercion library the rest of the domain
// stack (ai, providers) already depends on rather than hand-rolling
// strconv calls.
//
// Grounded on original_source/ml-service/app/agents/config.py, which plays
// the same role (single module, env-driven, read once at process start).
package config

import (
	"os"

	"github.com/spf13/cast"
)

// Config holds every tunable named in spec.md §6's configuration table,
// plus the connection settings for the external collaborators it requires.
type Config struct {
	// Retrieval
	KDense int
	KSparse int
	KPool   int
	KRerank int

	// Fusion
	RRFK int

	// Evidence
	MaxChunksPerCandidate      int
	MaxCharsPerChunk           int
	MaxTotalCharsPerCandidate  int
	MaxHighlightCandidates     int
	HighlightConcurrency       int
	SearchConcurrency          int

	// Ranking
	WRRF float64
	WCE  float64

	// Assembly
	MinRelevanceScore  float64
	HardFilterEnabled  bool
	MaxResults         int

	// Timeouts
	PerCallTimeoutSeconds    int
	RequestDeadlineSeconds   int

	// External collaborators
	MongoURI   string
	MongoDB    string
	OpenAIKey   string
	OpenAIModel string
	AnthropicKey   string
	AnthropicModel string
	LLMProvider    string // "openai" | "anthropic"

	QdrantAddr       string
	QdrantCollection string
	VectorBackend    string // "cosine" | "qdrant"

	RerankerURL string

	HTTPAddr string
}

// getenv reads an environment variable, falling back to def when unset or
// empty — mirroring os.getenv(name, default) in the Python reference.
func getenv(name, def string) string {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	return v
}

// Load builds a Config from the process environment, applying the defaults
// listed in spec.md §6.
func Load() *Config {
	return &Config{
		KDense:  cast.ToInt(getenv("K_DENSE", "300")),
		KSparse: cast.ToInt(getenv("K_SPARSE", "300")),
		KPool:   cast.ToInt(getenv("K_POOL", "500")),
		KRerank: cast.ToInt(getenv("K_RERANK", "100")),

		RRFK: cast.ToInt(getenv("RRF_K", "60")),

		MaxChunksPerCandidate:     cast.ToInt(getenv("MAX_CHUNKS_PER_CANDIDATE", "5")),
		MaxCharsPerChunk:          cast.ToInt(getenv("MAX_CHARS_PER_CHUNK", "800")),
		MaxTotalCharsPerCandidate: cast.ToInt(getenv("MAX_TOTAL_CHARS_PER_CANDIDATE", "2500")),
		MaxHighlightCandidates:    cast.ToInt(getenv("MAX_HIGHLIGHT_CANDIDATES", "20")),
		HighlightConcurrency:      cast.ToInt(getenv("HIGHLIGHT_CONCURRENCY", "10")),
		SearchConcurrency:         cast.ToInt(getenv("SEARCH_CONCURRENCY", "2")),

		WRRF: cast.ToFloat64(getenv("W_RRF", "0.35")),
		WCE:  cast.ToFloat64(getenv("W_CE", "0.65")),

		MinRelevanceScore: cast.ToFloat64(getenv("MIN_RELEVANCE_SCORE", "20")),
		HardFilterEnabled: cast.ToBool(getenv("HARD_FILTER_ENABLED", "true")),
		MaxResults:        cast.ToInt(getenv("MAX_RESULTS", "25")),

		PerCallTimeoutSeconds:  cast.ToInt(getenv("PER_CALL_TIMEOUT_SECONDS", "30")),
		RequestDeadlineSeconds: cast.ToInt(getenv("REQUEST_DEADLINE_SECONDS", "120")),

		MongoURI: getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  getenv("MONGO_DB", "resume_search"),

		OpenAIKey:      getenv("OPENAI_API_KEY", ""),
		OpenAIModel:    getenv("OPENAI_MODEL", "gpt-4o-mini"),
		AnthropicKey:   getenv("ANTHROPIC_API_KEY", ""),
		AnthropicModel: getenv("ANTHROPIC_MODEL", "claude-3-5-haiku-latest"),
		LLMProvider:    getenv("LLM_PROVIDER", "openai"),

		QdrantAddr:       getenv("QDRANT_ADDR", ""),
		QdrantCollection: getenv("QDRANT_COLLECTION", "resume_chunks"),
		VectorBackend:    getenv("VECTOR_BACKEND", "cosine"),

		RerankerURL: getenv("RERANKER_URL", ""),

		HTTPAddr: getenv("ML_ADDR", ":8000"),
	}
}

// Summary returns a loggable snapshot of the effective configuration,
// mirroring agents/config.py:get_config_summary.
func (c *Config) Summary() map[string]any {
	return map[string]any{
		"llm_provider": c.LLMProvider,
		"retrieval": map[string]any{
			"k_dense":  c.KDense,
			"k_sparse": c.KSparse,
			"k_pool":   c.KPool,
		},
		"fusion": map[string]any{"rrf_k": c.RRFK},
		"evidence": map[string]any{
			"max_chunks":      c.MaxChunksPerCandidate,
			"max_chars_chunk": c.MaxCharsPerChunk,
			"max_chars_total": c.MaxTotalCharsPerCandidate,
		},
		"rerank":  map[string]any{"k_rerank": c.KRerank},
		"scoring": map[string]any{"w_rrf": c.WRRF, "w_ce": c.WCE},
	}
}
