package strategy

import (
	"context"

	"github.com/ragscope/ragscope/graph"
)

// SelfRAGOptions tunes the self-reflective RAG strategy.
type SelfRAGOptions struct {
	// MaxRetries bounds generation retries after a rejected critique.
	MaxRetries int
	// MaxSteps bounds the whole graph run; zero uses the engine default.
	MaxSteps int
}

// DefaultMaxRetries is applied when SelfRAGOptions leaves MaxRetries at zero.
const DefaultMaxRetries = 1

// NewSelfRAG builds the self-reflective RAG strategy:
//
//	retrieve -> grade_documents (per document, filtering) -> generate -> critique
//	critique -> END             when the answer is accepted or retries are spent
//	         -> generate        otherwise, with a critique-augmented prompt
func NewSelfRAG(steps *Steps, opts SelfRAGOptions) (*Strategy, error) {
	maxRetries := opts.MaxRetries
	if maxRetries == 0 {
		maxRetries = DefaultMaxRetries
	}

	g := graph.NewStateGraph[WorkflowState]()
	g.AddNode(StepRetrieve, "embed the question and query the index", steps.Retrieve)
	g.AddNode(StepGradeDocuments, "grade each document and drop irrelevant ones", steps.FilterDocuments)
	g.AddNode(StepGenerate, "answer from the filtered documents", steps.Generate)
	g.AddNode(StepCritique, "grade the answer for grounding and usefulness", steps.Critique)

	g.SetEntryPoint(StepRetrieve)
	g.AddEdge(StepRetrieve, StepGradeDocuments)
	g.AddEdge(StepGradeDocuments, StepGenerate)
	g.AddEdge(StepGenerate, StepCritique)

	g.AddConditionalEdge(StepCritique, func(ctx context.Context, s WorkflowState) string {
		if s.accepted() || s.Retries >= maxRetries {
			return graph.END
		}
		return StepGenerate
	}, StepGenerate, graph.END)

	return newStrategy(StrategySelfRAG, g, opts.MaxSteps)
}
