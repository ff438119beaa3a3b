package index

import (
	"context"
	"fmt"
	"runtime"

	chromem "github.com/philippgille/chromem-go"
)

// ChromemIndex is an Index backed by a persistent chromem-go collection.
// The collection survives restarts under the given path.
type ChromemIndex struct {
	db         *chromem.DB
	collection *chromem.Collection
}

var _ Index = (*ChromemIndex)(nil)

// NewChromemIndex opens (or creates) a persistent chromem database at path
// and the named collection in it. The embed function is used by chromem for
// documents added without precomputed embeddings.
func NewChromemIndex(path, collection string, embed EmbedFunc) (*ChromemIndex, error) {
	db, err := chromem.NewPersistentDB(path, true)
	if err != nil {
		return nil, fmt.Errorf("index: open chromem db: %w", err)
	}
	col, err := db.GetOrCreateCollection(collection, nil, chromem.EmbeddingFunc(embed))
	if err != nil {
		return nil, fmt.Errorf("index: open collection %q: %w", collection, err)
	}
	return &ChromemIndex{db: db, collection: col}, nil
}

// Upsert stores documents with their embeddings.
func (c *ChromemIndex) Upsert(ctx context.Context, docs []Document, embeddings [][]float32) error {
	if len(docs) != len(embeddings) {
		return fmt.Errorf("index: %d documents but %d embeddings", len(docs), len(embeddings))
	}
	if len(docs) == 0 {
		return nil
	}

	chromemDocs := make([]chromem.Document, len(docs))
	for i, doc := range docs {
		chromemDocs[i] = chromem.Document{
			ID:        doc.ID,
			Content:   doc.Content,
			Metadata:  doc.Metadata,
			Embedding: embeddings[i],
		}
	}
	return c.collection.AddDocuments(ctx, chromemDocs, runtime.NumCPU())
}

// Query returns up to topK matches ordered by descending similarity. chromem
// rejects result counts above the collection size, so topK is clamped.
func (c *ChromemIndex) Query(ctx context.Context, embedding []float32, topK int) ([]Match, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("index: topK must be positive, got %d", topK)
	}

	count := c.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if topK > count {
		topK = count
	}

	results, err := c.collection.QueryEmbedding(ctx, embedding, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("index: query collection: %w", err)
	}

	matches := make([]Match, 0, len(results))
	for _, r := range results {
		matches = append(matches, Match{
			Document: Document{ID: r.ID, Content: r.Content, Metadata: r.Metadata},
			Score:    float64(r.Similarity),
		})
	}
	return matches, nil
}

// Count reports the number of stored documents.
func (c *ChromemIndex) Count() int {
	return c.collection.Count()
}

// Reset drops and recreates the collection.
func (c *ChromemIndex) Reset(name string, embed EmbedFunc) error {
	if err := c.db.DeleteCollection(name); err != nil {
		return fmt.Errorf("index: delete collection: %w", err)
	}
	col, err := c.db.GetOrCreateCollection(name, nil, chromem.EmbeddingFunc(embed))
	if err != nil {
		return fmt.Errorf("index: recreate collection: %w", err)
	}
	c.collection = col
	return nil
}
