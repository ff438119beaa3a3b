package strategy

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragscope/ragscope/index"
)

func TestSelfRAGAcceptsFirstAnswer(t *testing.T) {
	l := &stubLLM{relevant: true, grounded: true, addresses: true, answer: "Paris is the capital of France."}
	idx := &stubIndex{matches: []index.Match{parisMatch()}}

	selfrag, err := NewSelfRAG(newTestSteps(l, idx), SelfRAGOptions{})
	require.NoError(t, err)

	final, err := selfrag.Run(context.Background(), "What is the capital of France?")
	require.NoError(t, err)

	assert.Equal(t, []string{StepRetrieve, StepGradeDocuments, StepGenerate, StepCritique}, final.Trace)
	assert.Equal(t, 1, l.generated())
	assert.Zero(t, final.Retries)
	assert.Empty(t, final.Critique)
}

func TestSelfRAGExactlyOneRetry(t *testing.T) {
	l := &stubLLM{relevant: true, grounded: false, addresses: true, answer: "an answer"}
	idx := &stubIndex{matches: []index.Match{parisMatch()}}

	selfrag, err := NewSelfRAG(newTestSteps(l, idx), SelfRAGOptions{})
	require.NoError(t, err)

	final, err := selfrag.Run(context.Background(), "anything")
	require.NoError(t, err)

	// Critique rejects every answer: one retry, then stop.
	assert.Equal(t, 2, l.generated())
	assert.Equal(t, 1, final.Retries)
	assert.Equal(t, []string{
		StepRetrieve, StepGradeDocuments,
		StepGenerate, StepCritique,
		StepGenerate, StepCritique,
	}, final.Trace)
	assert.NotEmpty(t, final.Critique)
}

func TestSelfRAGRetryPromptCarriesCritique(t *testing.T) {
	l := &stubLLM{relevant: true, grounded: true, addresses: false, answer: "off topic"}
	idx := &stubIndex{matches: []index.Match{parisMatch()}}

	selfrag, err := NewSelfRAG(newTestSteps(l, idx), SelfRAGOptions{})
	require.NoError(t, err)

	_, err = selfrag.Run(context.Background(), "anything")
	require.NoError(t, err)

	var retryPrompt string
	for _, p := range l.recorded() {
		if strings.Contains(p, "previous answer was rejected") {
			retryPrompt = p
		}
	}
	require.NotEmpty(t, retryPrompt)
	assert.Contains(t, retryPrompt, "does not address the question")
}

func TestSelfRAGFiltersIrrelevantDocuments(t *testing.T) {
	l := &stubLLM{relevantWhenContains: "Paris", grounded: true, addresses: true, answer: "Paris"}
	idx := &stubIndex{matches: []index.Match{
		parisMatch(),
		{Document: index.Document{ID: "doc-2", Content: "Go is a programming language"}, Score: 0.4},
	}}

	selfrag, err := NewSelfRAG(newTestSteps(l, idx), SelfRAGOptions{})
	require.NoError(t, err)

	final, err := selfrag.Run(context.Background(), "What is the capital of France?")
	require.NoError(t, err)

	require.Len(t, final.Matches, 1)
	assert.Equal(t, "doc-1", final.Matches[0].Document.ID)
	assert.Equal(t, VerdictAmbiguous, final.Verdict)
}

func TestSelfRAGEmptyRetrievalStillAnswers(t *testing.T) {
	l := &stubLLM{grounded: true, addresses: true, answer: "best effort"}
	idx := &stubIndex{}

	selfrag, err := NewSelfRAG(newTestSteps(l, idx), SelfRAGOptions{})
	require.NoError(t, err)

	final, err := selfrag.Run(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, "best effort", final.Answer)
	assert.Empty(t, final.Matches)
}
