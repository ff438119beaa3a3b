package strategy

import (
	"context"
	"fmt"
	"strings"

	"github.com/ragscope/ragscope/index"
	"github.com/ragscope/ragscope/llm"
	"github.com/ragscope/ragscope/log"
	"github.com/ragscope/ragscope/websearch"
)

// Prompts for the reusable steps. Graders are instructed to answer with a
// bare yes/no; parsing stays lenient regardless.
const (
	gradeDocumentPrompt = `You are a grader assessing the relevance of a retrieved document to a user question.

Document:
%s

Question: %s

Does the document contain information relevant to the question? Answer strictly "yes" or "no".`

	rewriteQueryPrompt = `You are a question rewriter improving questions for vector retrieval.
Look at the question and reason about the underlying semantic intent.

Original question: %s
Current question: %s

Return only the improved question.`

	generatePrompt = `You are an assistant for question-answering tasks. Use only the following
context to answer the question. If the context does not contain the answer, say so.
Keep the answer concise.

Context:
%s

Question: %s`

	generateDirectPrompt = `You are an assistant for question-answering tasks. Answer the question
concisely from your own knowledge.

Question: %s`

	critiqueRevisionNote = `

Your previous answer was rejected for this reason: %s
Produce an improved answer.`

	groundedPrompt = `You are a grader assessing whether an answer is grounded in the facts below.

Facts:
%s

Answer: %s

Is the answer grounded in the facts? Answer strictly "yes" or "no".`

	addressesPrompt = `You are a grader assessing whether an answer addresses a question.

Question: %s

Answer: %s

Does the answer address the question? Answer strictly "yes" or "no".`

	routePrompt = `You are routing a user question for a retrieval system. Classify the question
and reply with exactly one word:
- "direct" if it can be answered well without retrieving documents
- "retrieve" if a single retrieval pass over the knowledge base suffices
- "crag" if it likely needs corrective retrieval with query rewriting

Question: %s`
)

// Steps bundles the collaborators the reusable workflow steps need. One Steps
// value is shared by all strategies built from it.
type Steps struct {
	LLM    llm.Client
	Index  index.Index
	Search websearch.Searcher // optional, enables the CRAG web fallback
	TopK   int
	Logger log.Logger
}

func (st *Steps) logger() log.Logger {
	if st.Logger == nil {
		return log.Default()
	}
	return st.Logger
}

func (st *Steps) topK() int {
	if st.TopK <= 0 {
		return 4
	}
	return st.TopK
}

// Retrieve embeds the current question and queries the index. Zero matches
// is data, not an error.
func (st *Steps) Retrieve(ctx context.Context, s WorkflowState) (WorkflowState, error) {
	s = s.visit(StepRetrieve)

	embedding, err := st.LLM.Embed(ctx, s.Question)
	if err != nil {
		return s, fmt.Errorf("embed question: %w", err)
	}
	matches, err := st.Index.Query(ctx, embedding, st.topK())
	if err != nil {
		return s, fmt.Errorf("query index: %w", err)
	}

	st.logger().Debug("retrieved %d documents for %q", len(matches), s.Question)
	s.Matches = matches
	return s, nil
}

// GradeDocuments grades every retrieved document and aggregates the verdict.
// All documents are kept; the verdict drives routing.
func (st *Steps) GradeDocuments(ctx context.Context, s WorkflowState) (WorkflowState, error) {
	s = s.visit(StepGradeDocuments)
	return st.grade(ctx, s, false)
}

// FilterDocuments grades per document and drops the irrelevant ones, the
// Self-RAG treatment of the same step.
func (st *Steps) FilterDocuments(ctx context.Context, s WorkflowState) (WorkflowState, error) {
	s = s.visit(StepGradeDocuments)
	return st.grade(ctx, s, true)
}

func (st *Steps) grade(ctx context.Context, s WorkflowState, filter bool) (WorkflowState, error) {
	if len(s.Matches) == 0 {
		s.Verdict = VerdictInsufficient
		return s, nil
	}

	kept := make([]index.Match, 0, len(s.Matches))
	for _, m := range s.Matches {
		response, err := st.LLM.Complete(ctx, fmt.Sprintf(gradeDocumentPrompt, m.Document.Content, s.Question))
		if err != nil {
			return s, fmt.Errorf("grade document %s: %w", m.Document.ID, err)
		}
		if llm.ParseBinaryGrade(response) {
			kept = append(kept, m)
		}
	}

	switch {
	case len(kept) == len(s.Matches):
		s.Verdict = VerdictSufficient
	case len(kept) == 0:
		s.Verdict = VerdictInsufficient
	default:
		s.Verdict = VerdictAmbiguous
	}
	st.logger().Debug("graded %d/%d documents relevant, verdict %s", len(kept), len(s.Matches), s.Verdict)

	if filter {
		s.Matches = kept
	}
	return s, nil
}

// RewriteQuery reformulates the current question and bumps the rewrite count.
func (st *Steps) RewriteQuery(ctx context.Context, s WorkflowState) (WorkflowState, error) {
	s = s.visit(StepRewriteQuery)

	response, err := st.LLM.Complete(ctx, fmt.Sprintf(rewriteQueryPrompt, s.OriginalQuestion, s.Question))
	if err != nil {
		return s, fmt.Errorf("rewrite query: %w", err)
	}
	if rewritten := strings.TrimSpace(response); rewritten != "" {
		s.Question = rewritten
	}
	s.Rewrites++
	st.logger().Debug("rewrite %d: %q", s.Rewrites, s.Question)
	return s, nil
}

// WebSearch supplements the document set from the web once the local rewrite
// loop is exhausted.
func (st *Steps) WebSearch(ctx context.Context, s WorkflowState) (WorkflowState, error) {
	s = s.visit(StepWebSearch)

	docs, err := st.Search.Search(ctx, s.Question)
	if err != nil {
		return s, fmt.Errorf("web search: %w", err)
	}
	for _, doc := range docs {
		s.Matches = append(s.Matches, index.Match{Document: doc})
	}
	st.logger().Debug("web search added %d documents", len(docs))
	return s, nil
}

// Generate answers from the current question and documents. With no documents
// it falls back to answering directly rather than failing. A pending critique
// turns the call into a retry with a revision note.
func (st *Steps) Generate(ctx context.Context, s WorkflowState) (WorkflowState, error) {
	s = s.visit(StepGenerate)

	var prompt string
	if len(s.Matches) == 0 {
		prompt = fmt.Sprintf(generateDirectPrompt, s.Question)
	} else {
		prompt = fmt.Sprintf(generatePrompt, documentContext(s.Matches), s.Question)
	}
	if s.Critique != "" {
		prompt += fmt.Sprintf(critiqueRevisionNote, s.Critique)
		s.Retries++
	}

	answer, err := st.LLM.Complete(ctx, prompt)
	if err != nil {
		return s, fmt.Errorf("generate answer: %w", err)
	}
	s.Answer = strings.TrimSpace(answer)
	return s, nil
}

// Critique re-grades the generated answer: grounded in the documents, and
// addressing the question. Acceptance clears the critique; rejection records
// the reason for the retry prompt.
func (st *Steps) Critique(ctx context.Context, s WorkflowState) (WorkflowState, error) {
	s = s.visit(StepCritique)

	grounded := true
	if len(s.Matches) > 0 {
		response, err := st.LLM.Complete(ctx, fmt.Sprintf(groundedPrompt, documentContext(s.Matches), s.Answer))
		if err != nil {
			return s, fmt.Errorf("critique grounding: %w", err)
		}
		grounded = llm.ParseBinaryGrade(response)
	}

	response, err := st.LLM.Complete(ctx, fmt.Sprintf(addressesPrompt, s.OriginalQuestion, s.Answer))
	if err != nil {
		return s, fmt.Errorf("critique usefulness: %w", err)
	}
	addresses := llm.ParseBinaryGrade(response)

	switch {
	case grounded && addresses:
		s.Critique = ""
	case !grounded:
		s.Critique = "the answer is not grounded in the retrieved documents"
	default:
		s.Critique = "the answer does not address the question"
	}
	st.logger().Debug("critique: grounded=%t addresses=%t", grounded, addresses)
	return s, nil
}

// ClassifyRoute classifies the question before any retrieval.
func (st *Steps) ClassifyRoute(ctx context.Context, s WorkflowState) (WorkflowState, error) {
	s = s.visit(StepRoute)

	response, err := st.LLM.Complete(ctx, fmt.Sprintf(routePrompt, s.Question))
	if err != nil {
		return s, fmt.Errorf("route question: %w", err)
	}

	answer := strings.ToLower(response)
	switch {
	case strings.Contains(answer, "direct"):
		s.Route = RouteDirect
	case strings.Contains(answer, "crag"):
		s.Route = RouteCRAG
	default:
		s.Route = RouteRetrieve
	}
	st.logger().Debug("routed %q to %s", s.Question, s.Route)
	return s, nil
}

func documentContext(matches []index.Match) string {
	var sb strings.Builder
	for i, m := range matches {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(m.Document.Content)
	}
	return sb.String()
}
