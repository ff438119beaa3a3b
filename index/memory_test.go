package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryIndexQueryOrdering(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()

	docs := []Document{
		{ID: "1", Content: "paris is the capital of france"},
		{ID: "2", Content: "go is a programming language"},
		{ID: "3", Content: "the eiffel tower is in paris"},
	}
	embeddings := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0.9, 0.1, 0},
	}
	require.NoError(t, idx.Upsert(ctx, docs, embeddings))
	assert.Equal(t, 3, idx.Count())

	matches, err := idx.Query(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "1", matches[0].Document.ID)
	assert.Equal(t, "3", matches[1].Document.ID)
	assert.GreaterOrEqual(t, matches[0].Score, matches[1].Score)
}

func TestMemoryIndexFewerThanTopK(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()
	require.NoError(t, idx.Upsert(ctx, []Document{{ID: "a", Content: "only one"}}, [][]float32{{1, 1}}))

	matches, err := idx.Query(ctx, []float32{1, 1}, 5)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestMemoryIndexEmpty(t *testing.T) {
	matches, err := NewMemoryIndex().Query(context.Background(), []float32{1}, 3)
	assert.NoError(t, err)
	assert.Empty(t, matches)
}

func TestMemoryIndexUpsertReplacesByID(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()
	require.NoError(t, idx.Upsert(ctx, []Document{{ID: "a", Content: "v1"}}, [][]float32{{1, 0}}))
	require.NoError(t, idx.Upsert(ctx, []Document{{ID: "a", Content: "v2"}}, [][]float32{{0, 1}}))

	assert.Equal(t, 1, idx.Count())
	matches, err := idx.Query(ctx, []float32{0, 1}, 1)
	require.NoError(t, err)
	assert.Equal(t, "v2", matches[0].Document.Content)
}

func TestMemoryIndexMismatchedLengths(t *testing.T) {
	err := NewMemoryIndex().Upsert(context.Background(), []Document{{ID: "a"}}, nil)
	assert.Error(t, err)
}

func TestMemoryIndexInvalidTopK(t *testing.T) {
	_, err := NewMemoryIndex().Query(context.Background(), []float32{1}, 0)
	assert.Error(t, err)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 2}, []float32{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Equal(t, 0.0, cosineSimilarity([]float32{1}, []float32{1, 2}))
	assert.Equal(t, 0.0, cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}
