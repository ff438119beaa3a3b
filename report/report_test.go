package report

import (
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/ragscope/ragscope/index"
	"github.com/ragscope/ragscope/strategy"
)

func TestRender(t *testing.T) {
	results := []strategy.Result{
		{
			Strategy: strategy.StrategyCRAG,
			Answer:   "Paris is the capital of France.",
			Trace:    []string{"retrieve", "grade_documents", "generate"},
			Steps:    3,
			Duration: 120 * time.Millisecond,
			Matches: []index.Match{
				{Document: index.Document{ID: "doc-1", Content: "Paris is the capital of France"}, Score: 0.95},
			},
		},
		{
			Strategy: strategy.StrategySelfRAG,
			Err:      "index down",
		},
	}

	out := Render("What is the capital of France?", results)

	assert.Contains(t, out, "What is the capital of France?")
	assert.Contains(t, out, "CRAG")
	assert.Contains(t, out, "Paris is the capital of France.")
	assert.Contains(t, out, "retrieve > grade_documents > generate")
	assert.Contains(t, out, "failed: index down")
}

func TestRenderCachedBadge(t *testing.T) {
	out := Render("q", []strategy.Result{{
		Strategy: strategy.StrategyCRAG,
		Answer:   "answer",
		Cached:   true,
	}})
	assert.Contains(t, out, "cached")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "this is...", truncate("this is a long string", 10))
	assert.Len(t, truncate("this is a long string", 10), 10)

	// The cut lands inside the two-byte "à" when counting bytes; runes
	// are never split.
	got := truncate("la tour Eiffel est à Paris, en Île-de-France", 23)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "la tour Eiffel est à...", got)
}
