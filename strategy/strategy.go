// Package strategy defines the RAG strategies RAGScope compares: CRAG,
// Self-RAG and Adaptive-RAG. Each strategy is a workflow graph wired from a
// shared set of reusable steps; the Runner executes them side by side against
// a question and caches the results.
package strategy

import (
	"context"
	"fmt"

	"github.com/ragscope/ragscope/graph"
)

// Strategy is a compiled, named workflow graph over WorkflowState.
type Strategy struct {
	name     string
	sg       *graph.StateGraph[WorkflowState]
	runnable *graph.StateRunnable[WorkflowState]
	maxSteps int
}

func newStrategy(name string, sg *graph.StateGraph[WorkflowState], maxSteps int) (*Strategy, error) {
	runnable, err := sg.Compile()
	if err != nil {
		return nil, fmt.Errorf("strategy %s: %w", name, err)
	}
	if maxSteps <= 0 {
		maxSteps = graph.DefaultMaxSteps
	}
	return &Strategy{name: name, sg: sg, runnable: runnable, maxSteps: maxSteps}, nil
}

// Name returns the strategy's registered name.
func (s *Strategy) Name() string {
	return s.name
}

// Mermaid renders the strategy's graph as a Mermaid flowchart.
func (s *Strategy) Mermaid() string {
	return graph.NewExporter(s.sg).DrawMermaid()
}

// Run executes one sequential sweep through the graph for the question and
// returns the terminal state.
func (s *Strategy) Run(ctx context.Context, question string) (WorkflowState, error) {
	initial := WorkflowState{
		Question:         question,
		OriginalQuestion: question,
	}
	return s.runnable.InvokeWithConfig(ctx, initial, &graph.Config{MaxSteps: s.maxSteps})
}
