// Package llm abstracts the language model provider behind a small client
// interface. Strategies only ever need single-prompt completion and text
// embedding, so the interface stays minimal and easy to stub in tests.
package llm

import (
	"context"
	"strings"
)

// Client is the language model contract used throughout RAGScope.
type Client interface {
	// Complete sends a single prompt and returns the model's text response.
	Complete(ctx context.Context, prompt string) (string, error)

	// Embed returns the embedding vector for a piece of text.
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ParseBinaryGrade interprets a model response to a yes/no grading prompt.
// Models rarely answer with a bare token, so matching is lenient: the
// response is lowercased and the first yes/no token wins.
func ParseBinaryGrade(response string) bool {
	s := strings.ToLower(strings.TrimSpace(response))
	if s == "" {
		return false
	}
	yes := strings.Index(s, "yes")
	no := strings.Index(s, "no")
	switch {
	case yes == -1:
		return false
	case no == -1:
		return true
	default:
		return yes < no
	}
}
