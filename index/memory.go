package index

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// MemoryIndex is an in-memory Index using brute-force cosine similarity.
// Suitable for tests and small corpora; everything is lost on restart.
type MemoryIndex struct {
	mu         sync.RWMutex
	docs       []Document
	embeddings [][]float32
}

var _ Index = (*MemoryIndex)(nil)

// NewMemoryIndex creates an empty in-memory index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{}
}

// Upsert stores documents with their embeddings. A document whose ID is
// already present is replaced in place.
func (m *MemoryIndex) Upsert(ctx context.Context, docs []Document, embeddings [][]float32) error {
	if len(docs) != len(embeddings) {
		return fmt.Errorf("index: %d documents but %d embeddings", len(docs), len(embeddings))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i, doc := range docs {
		if pos := m.findLocked(doc.ID); pos >= 0 {
			m.docs[pos] = doc
			m.embeddings[pos] = embeddings[i]
			continue
		}
		m.docs = append(m.docs, doc)
		m.embeddings = append(m.embeddings, embeddings[i])
	}
	return nil
}

// Query returns up to topK matches ordered by descending cosine similarity.
func (m *MemoryIndex) Query(ctx context.Context, embedding []float32, topK int) ([]Match, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("index: topK must be positive, got %d", topK)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	matches := make([]Match, 0, len(m.docs))
	for i, doc := range m.docs {
		matches = append(matches, Match{
			Document: doc,
			Score:    cosineSimilarity(embedding, m.embeddings[i]),
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Count reports the number of stored documents.
func (m *MemoryIndex) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

func (m *MemoryIndex) findLocked(id string) int {
	for i, doc := range m.docs {
		if doc.ID == id {
			return i
		}
	}
	return -1
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
