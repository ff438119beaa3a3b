package strategy

import (
	"time"

	"github.com/ragscope/ragscope/index"
)

// Step names shared across strategy graphs. They double as trace entries.
const (
	StepRetrieve       = "retrieve"
	StepGradeDocuments = "grade_documents"
	StepRewriteQuery   = "rewrite_query"
	StepWebSearch      = "web_search"
	StepGenerate       = "generate"
	StepCritique       = "critique"
	StepRoute          = "route"
	StepRunCRAG        = "run_crag"
)

// Registered strategy names.
const (
	StrategyCRAG     = "crag"
	StrategySelfRAG  = "selfrag"
	StrategyAdaptive = "adaptive"
)

// Verdict is the aggregate relevance judgment over retrieved documents.
type Verdict string

const (
	VerdictNone         Verdict = ""
	VerdictSufficient   Verdict = "sufficient"
	VerdictInsufficient Verdict = "insufficient"
	VerdictAmbiguous    Verdict = "ambiguous"
)

// Route is the adaptive strategy's pre-retrieval classification.
type Route string

const (
	RouteDirect   Route = "direct"
	RouteRetrieve Route = "retrieve"
	RouteCRAG     Route = "crag"
)

// WorkflowState is threaded through one strategy run. Owned exclusively by
// that run; nodes receive it by value and return the updated copy.
type WorkflowState struct {
	// Question is the current question, possibly rewritten.
	Question string
	// OriginalQuestion is the question as the user asked it.
	OriginalQuestion string

	Matches  []index.Match
	Verdict  Verdict
	Answer   string
	Critique string
	Route    Route

	// Rewrites counts query reformulations, Retries counts generation
	// retries after a rejected critique. Both bound their loops.
	Rewrites int
	Retries  int

	// Trace records the executed step names in order.
	Trace []string
}

// visit appends a step to the trace without aliasing the previous slice,
// since states are copied between nodes.
func (s WorkflowState) visit(step string) WorkflowState {
	trace := make([]string, len(s.Trace), len(s.Trace)+1)
	copy(trace, s.Trace)
	s.Trace = append(trace, step)
	return s
}

// accepted reports whether the last critique approved the answer.
func (s WorkflowState) accepted() bool {
	return s.Answer != "" && s.Critique == ""
}

// Result is the immutable terminal snapshot of a strategy run.
type Result struct {
	RunID    string        `json:"run_id"`
	Strategy string        `json:"strategy"`
	Question string        `json:"question"`
	Answer   string        `json:"answer"`
	Matches  []index.Match `json:"matches,omitempty"`
	Trace    []string      `json:"trace"`
	Steps    int           `json:"steps"`
	Duration time.Duration `json:"duration"`
	Cached   bool          `json:"cached"`
	Err      string        `json:"error,omitempty"`
}

// Documents returns the matched documents without scores.
func (r Result) Documents() []index.Document {
	docs := make([]index.Document, 0, len(r.Matches))
	for _, m := range r.Matches {
		docs = append(docs, m.Document)
	}
	return docs
}

// Failed reports whether the run ended in an error.
func (r Result) Failed() bool {
	return r.Err != ""
}
