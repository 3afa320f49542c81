// Package embedding provides the text-embedding Model used by dense
// retrieval (spec.md §4.2) to vectorize both the combined query text and,
// at ingest time, resume chunks (an external collaborator per §1 — this
// package only embeds the query side at request time).
//
// The Model interface is narrowed from
// Tangerg-lynx/ai/model/embedding/model.go's shape (Dimensions,
// DefaultOptions, Info) down to what retrieval actually calls: Embed to
// vectorize the query, and Dimensions for CosineSearcher to check the
// query vector's length. The ClientRequest/
// middleware builder and Info() in that package aren't reproduced here
// since nothing in this pipeline composes embedding middlewares or reports
// provider metadata.
package embedding

import "context"

// Model embeds text into fixed-length float32 vectors.
type Model interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
}
