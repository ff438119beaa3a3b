package strategy

import (
	"context"

	"github.com/ragscope/ragscope/graph"
)

// CRAGOptions tunes the corrective RAG strategy.
type CRAGOptions struct {
	// MaxRewrites bounds the rewrite-and-retrieve loop. Zero disables
	// rewriting: insufficient gradings go straight to the fallback.
	MaxRewrites int
	// MaxSteps bounds the whole graph run; zero uses the engine default.
	MaxSteps int
}

// NewCRAG builds the corrective RAG strategy:
//
//	retrieve -> grade_documents -> generate            when sufficient or ambiguous
//	                            -> rewrite_query -> retrieve   while rewrites remain
//	                            -> web_search -> generate      when exhausted and search is configured
//	                            -> generate                    when exhausted otherwise
//
// Loop exhaustion always falls back to generation with the best available
// documents; it never fails the run.
func NewCRAG(steps *Steps, opts CRAGOptions) (*Strategy, error) {
	maxRewrites := opts.MaxRewrites
	if maxRewrites < 0 {
		maxRewrites = 0
	}
	hasSearch := steps.Search != nil

	g := graph.NewStateGraph[WorkflowState]()
	g.AddNode(StepRetrieve, "embed the question and query the index", steps.Retrieve)
	g.AddNode(StepGradeDocuments, "grade retrieved documents for relevance", steps.GradeDocuments)
	g.AddNode(StepRewriteQuery, "reformulate the question for retrieval", steps.RewriteQuery)
	g.AddNode(StepGenerate, "answer from the current documents", steps.Generate)

	g.SetEntryPoint(StepRetrieve)
	g.AddEdge(StepRetrieve, StepGradeDocuments)
	g.AddEdge(StepRewriteQuery, StepRetrieve)
	g.AddEdge(StepGenerate, graph.END)

	targets := []string{StepGenerate, StepRewriteQuery}
	if hasSearch {
		g.AddNode(StepWebSearch, "supplement documents from web search", steps.WebSearch)
		g.AddEdge(StepWebSearch, StepGenerate)
		targets = append(targets, StepWebSearch)
	}

	g.AddConditionalEdge(StepGradeDocuments, func(ctx context.Context, s WorkflowState) string {
		switch {
		case s.Verdict == VerdictSufficient || s.Verdict == VerdictAmbiguous:
			return StepGenerate
		case s.Rewrites < maxRewrites:
			return StepRewriteQuery
		case hasSearch:
			return StepWebSearch
		default:
			return StepGenerate
		}
	}, targets...)

	return newStrategy(StrategyCRAG, g, opts.MaxSteps)
}
