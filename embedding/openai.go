package embedding

import (
	"context"
	"fmt"
	"sync"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/resonantlabs/shortlist/internal/config"
)

// OpenAIModel embeds text via the OpenAI embeddings endpoint.
type OpenAIModel struct {
	client openai.Client
	model  string
	dims   int
}

const defaultOpenAIEmbeddingModel = "text-embedding-3-small"
const defaultOpenAIEmbeddingDims = 1536

// NewOpenAIModel builds an embedding.Model backed by OpenAI. apiKey must
// be non-empty.
func NewOpenAIModel(apiKey string) *OpenAIModel {
	return &OpenAIModel{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  defaultOpenAIEmbeddingModel,
		dims:   defaultOpenAIEmbeddingDims,
	}
}

func (m *OpenAIModel) Dimensions() int { return m.dims }

func (m *OpenAIModel) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := m.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: m.model,
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding: openai embeddings call: %w", err)
	}
	out := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		vec := make([]float32, len(d.Embedding))
		for j, f := range d.Embedding {
			vec[j] = float32(f)
		}
		out[i] = vec
	}
	return out, nil
}

var (
	singletonOnce  sync.Once
	singletonModel Model
	singletonErr   error
)

// Singleton lazily constructs the process-wide embedding handle, guarded
// against duplicate init under concurrent first-use (spec.md §5/§9).
func Singleton(cfg *config.Config) (Model, error) {
	singletonOnce.Do(func() {
		if cfg.OpenAIKey == "" {
			singletonErr = fmt.Errorf("embedding: OPENAI_API_KEY not set")
			return
		}
		singletonModel = NewOpenAIModel(cfg.OpenAIKey)
	})
	return singletonModel, singletonErr
}
