package strategy

import (
	"context"
	"fmt"

	"github.com/ragscope/ragscope/graph"
)

// AdaptiveOptions tunes the adaptive RAG strategy. The CRAG options configure
// the delegated corrective loop.
type AdaptiveOptions struct {
	CRAG CRAGOptions
	// MaxSteps bounds the outer graph run; zero uses the engine default.
	MaxSteps int
}

// NewAdaptive builds the adaptive RAG strategy, the only one with a decision
// point before retrieval:
//
//	route -> generate              "direct": answer without touching the index
//	      -> retrieve -> generate  "retrieve": single retrieval pass
//	      -> run_crag              "crag": delegate to the corrective loop
//
// Delegation runs the compiled CRAG graph as a sub-run and splices its trace
// into the outer state.
func NewAdaptive(steps *Steps, opts AdaptiveOptions) (*Strategy, error) {
	crag, err := NewCRAG(steps, opts.CRAG)
	if err != nil {
		return nil, err
	}

	g := graph.NewStateGraph[WorkflowState]()
	g.AddNode(StepRoute, "classify the question before retrieval", steps.ClassifyRoute)
	g.AddNode(StepRetrieve, "embed the question and query the index", steps.Retrieve)
	g.AddNode(StepGenerate, "answer from the current documents", steps.Generate)
	g.AddNode(StepRunCRAG, "delegate to the corrective retrieval loop", func(ctx context.Context, s WorkflowState) (WorkflowState, error) {
		s = s.visit(StepRunCRAG)

		sub, err := crag.Run(ctx, s.Question)
		if err != nil {
			return s, fmt.Errorf("delegate to crag: %w", err)
		}
		s.Question = sub.Question
		s.Matches = sub.Matches
		s.Verdict = sub.Verdict
		s.Answer = sub.Answer
		s.Rewrites = sub.Rewrites
		s.Trace = append(s.Trace, sub.Trace...)
		return s, nil
	})

	g.SetEntryPoint(StepRoute)
	g.AddEdge(StepRetrieve, StepGenerate)
	g.AddEdge(StepGenerate, graph.END)
	g.AddEdge(StepRunCRAG, graph.END)

	g.AddConditionalEdge(StepRoute, func(ctx context.Context, s WorkflowState) string {
		switch s.Route {
		case RouteDirect:
			return StepGenerate
		case RouteCRAG:
			return StepRunCRAG
		default:
			return StepRetrieve
		}
	}, StepGenerate, StepRetrieve, StepRunCRAG)

	return newStrategy(StrategyAdaptive, g, opts.MaxSteps)
}
