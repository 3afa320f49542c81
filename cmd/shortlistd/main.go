// Command shortlistd serves the candidate shortlisting pipeline over
// HTTP, streaming progress as Server-Sent Events and falling back to a
// single JSON response when the client asks for the synchronous mode.
//
// Grounded on original_source/agents/streaming.py and
// ml-service/app/main.py for the endpoint shape, and on
// Tangerg-lynx/cmd's "load config, wire singletons, serve" entrypoint
// idiom. Library code never logs (SPEC_FULL.md §10.2); only this entrypoint does,
// via the standard library log package, matching the teacher's cmd/
// convention.
package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/resonantlabs/shortlist/assembly"
	"github.com/resonantlabs/shortlist/embedding"
	"github.com/resonantlabs/shortlist/evidence"
	"github.com/resonantlabs/shortlist/internal/config"
	"github.com/resonantlabs/shortlist/llm"
	"github.com/resonantlabs/shortlist/mission"
	"github.com/resonantlabs/shortlist/pipeline"
	"github.com/resonantlabs/shortlist/ranking"
	"github.com/resonantlabs/shortlist/reranker"
	"github.com/resonantlabs/shortlist/retrieval"
	"github.com/resonantlabs/shortlist/shortlist"
	"github.com/resonantlabs/shortlist/store"
	storemongo "github.com/resonantlabs/shortlist/store/mongo"
	"github.com/resonantlabs/shortlist/sse"
	"github.com/resonantlabs/shortlist/vectorsearch"
)

type shortlistRequest struct {
	QueryText string `json:"query_text"`
	Stream    *bool  `json:"stream,omitempty"`
}

type server struct {
	pipeline               *pipeline.Pipeline
	chunks                 store.ChunkStore
	requestDeadlineSeconds int
}

func (s *server) handleShortlist(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req shortlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	deadline := time.Duration(s.requestDeadlineSeconds) * time.Second
	ctx, cancel := context.WithTimeout(r.Context(), deadline)
	defer cancel()

	stream := req.Stream == nil || *req.Stream
	if !stream {
		resp, err := s.pipeline.RunSync(ctx, req.QueryText)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	writer, err := sse.NewWriter(ctx, sse.WriterConfig{
		ResponseWriter:    w,
		HeartbeatInterval: 15 * time.Second,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sink := shortlist.NewEventWriter(writer)

	if _, err := s.pipeline.Run(ctx, req.QueryText, sink); err != nil {
		log.Printf("shortlistd: pipeline run failed: %v", err)
	}
	_ = writer.Close()
}

// handleCandidateChunks is manual inspection tooling: it surfaces one
// candidate's raw resume_chunks rows, unscored and unfiltered, so an
// operator can sanity-check why a candidate did or didn't surface in a
// shortlist without querying MongoDB directly.
func (s *server) handleCandidateChunks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	candidateID := r.PathValue("candidateID")
	if candidateID == "" {
		http.Error(w, "missing candidate id", http.StatusBadRequest)
		return
	}

	chunks, err := s.chunks.FetchByCandidate(r.Context(), candidateID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(chunks)
}

func main() {
	cfg := config.Load()
	log.Printf("shortlistd: starting with config %+v", cfg.Summary())

	ctx := context.Background()

	docStore, err := storemongo.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("shortlistd: connecting to mongo: %v", err)
	}

	embeddingModel, err := embedding.Singleton(cfg)
	if err != nil {
		log.Printf("shortlistd: embedding model unconfigured, dense retrieval will degrade: %v", err)
	}

	var searcher vectorsearch.Searcher
	switch cfg.VectorBackend {
	case "qdrant":
		if embeddingModel == nil {
			log.Printf("shortlistd: qdrant backend requested but no embedding model configured")
		} else {
			qdrantSearcher, err := vectorsearch.NewQdrantSearcher(cfg.QdrantAddr, cfg.QdrantCollection, embeddingModel)
			if err != nil {
				log.Fatalf("shortlistd: connecting to qdrant: %v", err)
			}
			searcher = qdrantSearcher
		}
	default:
		if embeddingModel != nil {
			searcher = vectorsearch.NewCosineSearcher(docStore, embeddingModel)
		}
	}

	llmProvider, err := llm.Singleton(cfg)
	if err != nil {
		log.Printf("shortlistd: LLM provider unconfigured, query understanding and highlights will use fallbacks: %v", err)
	}

	rerankerClient, err := reranker.Singleton(cfg)
	if err != nil {
		log.Printf("shortlistd: reranker unconfigured, ranking will use RRF scores only: %v", err)
	}

	pipe := &pipeline.Pipeline{
		Mission: mission.NewParser(llmProvider),
		Retrieval: &retrieval.Stage{
			Skills:            docStore,
			Chunks:            docStore,
			Vectors:           searcher,
			KPool:             cfg.KPool,
			KSparse:           cfg.KSparse,
			KDense:            cfg.KDense,
			SearchConcurrency: cfg.SearchConcurrency,
		},
		Evidence: &evidence.Stage{
			Provider:                  llmProvider,
			MaxChunksPerCandidate:     cfg.MaxChunksPerCandidate,
			MaxCharsPerChunk:          cfg.MaxCharsPerChunk,
			MaxTotalCharsPerCandidate: cfg.MaxTotalCharsPerCandidate,
			HighlightConcurrency:      cfg.HighlightConcurrency,
		},
		Ranking: &ranking.Stage{
			Client: rerankerClient,
			WRRF:   cfg.WRRF,
			WCE:    cfg.WCE,
		},
		Assembly: &assembly.Stage{
			Profiles:          docStore,
			MinRelevanceScore: cfg.MinRelevanceScore,
			HardFilterEnabled: cfg.HardFilterEnabled,
			MaxResults:        cfg.MaxResults,
		},
		RRFK:    cfg.RRFK,
		KPool:   cfg.KPool,
		KRerank: cfg.KRerank,
	}

	srv := &server{pipeline: pipe, chunks: docStore, requestDeadlineSeconds: cfg.RequestDeadlineSeconds}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/shortlist", srv.handleShortlist)
	mux.HandleFunc("/v1/candidates/{candidateID}/chunks", srv.handleCandidateChunks)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	log.Printf("shortlistd: listening on %s", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, mux); err != nil {
		log.Fatalf("shortlistd: server error: %v", err)
	}
}
