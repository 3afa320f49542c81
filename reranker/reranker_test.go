package reranker

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRerankHappyPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rerankRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Documents, 2)
		_ = json.NewEncoder(w).Encode(rerankResponse{Scores: []float64{0.9, 0.1}})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, 5*time.Second)
	scored, err := client.Rerank(t.Context(), "go engineer", []Document{
		{CandidateID: "a", Text: "go backend"},
		{CandidateID: "b", Text: "python data"},
	})
	require.NoError(t, err)
	require.Len(t, scored, 2)
	assert.Equal(t, "a", scored[0].CandidateID)
	assert.Equal(t, 0.9, scored[0].Score)
}

func TestRerankTruncatesLongText(t *testing.T) {
	var gotLen int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rerankRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotLen = len(req.Documents[0])
		_ = json.NewEncoder(w).Encode(rerankResponse{Scores: []float64{0}})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, 5*time.Second)
	_, err := client.Rerank(t.Context(), "q", []Document{{CandidateID: "a", Text: strings.Repeat("x", 1000)}})
	require.NoError(t, err)
	assert.Equal(t, 512, gotLen)
}

func TestRerankEmptyDocumentsShortCircuits(t *testing.T) {
	client := NewHTTPClient("http://unused.invalid", time.Second)
	scored, err := client.Rerank(t.Context(), "q", nil)
	require.NoError(t, err)
	assert.Nil(t, scored)
}

func TestRerankNonOKStatusErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, 5*time.Second)
	_, err := client.Rerank(t.Context(), "q", []Document{{CandidateID: "a", Text: "x"}})
	assert.Error(t, err)
}

func TestRerankScoreCountMismatchErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(rerankResponse{Scores: []float64{0.5}})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, 5*time.Second)
	_, err := client.Rerank(t.Context(), "q", []Document{
		{CandidateID: "a", Text: "x"},
		{CandidateID: "b", Text: "y"},
	})
	assert.Error(t, err)
}
