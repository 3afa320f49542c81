// Package reranker provides the cross-encoder scoring client used by
// ranking (§4.5). The model itself is an external service per §1's
// non-goals; this package only defines the client contract and an
// HTTP-backed implementation for a bespoke internal scoring service
// (grounded on original_source/reranker.py's sentence-transformers
// server, which this implementation calls over JSON rather than loading
// the model in-process — there is no published Go SDK for it, see
// DESIGN.md).
package reranker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/resonantlabs/shortlist/internal/config"
)

// Document is one (candidate, text) pair to score against a single query.
type Document struct {
	CandidateID string
	Text        string
}

// Scored is a Document's cross-encoder score.
type Scored struct {
	CandidateID string
	Score       float64
}

// Client scores a batch of documents against one query.
type Client interface {
	Rerank(ctx context.Context, query string, docs []Document) ([]Scored, error)
}

// HTTPClient calls a bespoke cross-encoder microservice over JSON.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type rerankRequest struct {
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
}

type rerankResponse struct {
	Scores []float64 `json:"scores"`
}

func (c *HTTPClient) Rerank(ctx context.Context, query string, docs []Document) ([]Scored, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		text := d.Text
		if len(text) > 512 {
			text = text[:512]
		}
		texts[i] = text
	}

	body, err := json.Marshal(rerankRequest{Query: query, Documents: texts})
	if err != nil {
		return nil, fmt.Errorf("reranker: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rerank", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("reranker: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reranker: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reranker: unexpected status %d", resp.StatusCode)
	}

	var parsed rerankResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("reranker: decoding response: %w", err)
	}
	if len(parsed.Scores) != len(docs) {
		return nil, fmt.Errorf("reranker: expected %d scores, got %d", len(docs), len(parsed.Scores))
	}

	out := make([]Scored, len(docs))
	for i, d := range docs {
		out[i] = Scored{CandidateID: d.CandidateID, Score: parsed.Scores[i]}
	}
	return out, nil
}

var (
	singletonOnce   sync.Once
	singletonClient Client
	singletonErr    error
)

// Singleton lazily builds the process-wide reranker handle, guarded
// against duplicate init under concurrent first-use (spec.md §5/§9).
func Singleton(cfg *config.Config) (Client, error) {
	singletonOnce.Do(func() {
		if cfg.RerankerURL == "" {
			singletonErr = fmt.Errorf("reranker: RERANKER_URL not set")
			return
		}
		singletonClient = NewHTTPClient(cfg.RerankerURL, time.Duration(cfg.PerCallTimeoutSeconds)*time.Second)
	})
	return singletonClient, singletonErr
}
