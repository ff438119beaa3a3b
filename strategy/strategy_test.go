package strategy

import (
	"context"
	"strings"
	"sync"

	"github.com/ragscope/ragscope/index"
	"github.com/ragscope/ragscope/log"
)

// stubLLM scripts the model behind the llm.Client interface. Prompts are
// recognized by the distinctive phrases of the step prompts.
type stubLLM struct {
	mu sync.Mutex

	relevant             bool   // relevance grader reply
	relevantWhenContains string // overrides relevant: yes only when the prompt contains this
	grounded             bool
	addresses            bool
	route                string
	answer               string
	rewrite              string

	generateCalls int
	prompts       []string
}

func (l *stubLLM) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (l *stubLLM) Complete(ctx context.Context, prompt string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prompts = append(l.prompts, prompt)

	switch {
	case strings.Contains(prompt, "relevance of a retrieved document"):
		if l.relevantWhenContains != "" {
			return yesNo(strings.Contains(prompt, l.relevantWhenContains)), nil
		}
		return yesNo(l.relevant), nil
	case strings.Contains(prompt, "question rewriter"):
		return l.rewrite, nil
	case strings.Contains(prompt, "grounded in the facts"):
		return yesNo(l.grounded), nil
	case strings.Contains(prompt, "answer addresses a question"):
		return yesNo(l.addresses), nil
	case strings.Contains(prompt, "routing a user question"):
		return l.route, nil
	default:
		l.generateCalls++
		return l.answer, nil
	}
}

func (l *stubLLM) generated() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.generateCalls
}

func (l *stubLLM) recorded() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string{}, l.prompts...)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// stubIndex serves fixed matches and counts queries.
type stubIndex struct {
	mu      sync.Mutex
	matches []index.Match
	err     error
	queries int
}

func (i *stubIndex) Query(ctx context.Context, embedding []float32, topK int) ([]index.Match, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.queries++
	if i.err != nil {
		return nil, i.err
	}
	if len(i.matches) > topK {
		return i.matches[:topK], nil
	}
	return i.matches, nil
}

func (i *stubIndex) Upsert(ctx context.Context, docs []index.Document, embeddings [][]float32) error {
	return nil
}

func (i *stubIndex) Count() int {
	return len(i.matches)
}

func (i *stubIndex) queried() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.queries
}

// stubSearch serves fixed web documents.
type stubSearch struct {
	mu    sync.Mutex
	docs  []index.Document
	calls int
}

func (s *stubSearch) Search(ctx context.Context, query string) ([]index.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.docs, nil
}

func parisMatch() index.Match {
	return index.Match{
		Document: index.Document{ID: "doc-1", Content: "Paris is the capital of France"},
		Score:    0.95,
	}
}

func newTestSteps(l *stubLLM, idx *stubIndex) *Steps {
	return &Steps{
		LLM:    l,
		Index:  idx,
		TopK:   4,
		Logger: log.NoOpLogger{},
	}
}

func countStep(trace []string, step string) int {
	n := 0
	for _, s := range trace {
		if s == step {
			n++
		}
	}
	return n
}
