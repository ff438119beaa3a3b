// Package index provides the vector index client used for retrieval: a thin
// façade over a nearest-neighbor search backend. Given a query embedding it
// returns the top-k stored documents ordered by descending similarity score,
// possibly fewer than k. An empty result is data, not an error.
package index

import "context"

// Document is a retrieved passage. Read-only once retrieved.
type Document struct {
	ID       string            `json:"id"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Match pairs a Document with its similarity score relative to a query.
type Match struct {
	Document Document `json:"document"`
	Score    float64  `json:"score"`
}

// Index is the nearest-neighbor search contract.
type Index interface {
	// Query returns up to topK matches ordered by descending score.
	Query(ctx context.Context, embedding []float32, topK int) ([]Match, error)

	// Upsert stores documents with their embeddings. Documents and embeddings
	// must have the same length.
	Upsert(ctx context.Context, docs []Document, embeddings [][]float32) error

	// Count reports the number of stored documents.
	Count() int
}

// EmbedFunc turns text into an embedding vector. Backends that embed on their
// own (chromem) accept one at construction time.
type EmbedFunc func(ctx context.Context, text string) ([]float32, error)
