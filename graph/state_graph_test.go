package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterState struct {
	Visited []string
	N       int
}

func appendNode(name string) func(ctx context.Context, s counterState) (counterState, error) {
	return func(ctx context.Context, s counterState) (counterState, error) {
		s.Visited = append(s.Visited, name)
		s.N++
		return s, nil
	}
}

func TestStateGraphLinearExecution(t *testing.T) {
	g := NewStateGraph[counterState]()
	g.AddNode("a", "first", appendNode("a"))
	g.AddNode("b", "second", appendNode("b"))
	g.AddNode("c", "third", appendNode("c"))
	g.SetEntryPoint("a")
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("c", END)

	runnable, err := g.Compile()
	require.NoError(t, err)

	final, err := runnable.Invoke(context.Background(), counterState{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, final.Visited)
	assert.Equal(t, 3, final.N)
}

func TestStateGraphEntryPointNotSet(t *testing.T) {
	g := NewStateGraph[counterState]()
	g.AddNode("a", "first", appendNode("a"))

	_, err := g.Compile()
	assert.ErrorIs(t, err, ErrEntryPointNotSet)
}

func TestStateGraphUnknownEntryPoint(t *testing.T) {
	g := NewStateGraph[counterState]()
	g.AddNode("a", "first", appendNode("a"))
	g.SetEntryPoint("missing")

	_, err := g.Compile()
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestStateGraphUnknownEdgeTarget(t *testing.T) {
	g := NewStateGraph[counterState]()
	g.AddNode("a", "first", appendNode("a"))
	g.SetEntryPoint("a")
	g.AddEdge("a", "nowhere")

	_, err := g.Compile()
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestStateGraphNoOutgoingEdge(t *testing.T) {
	g := NewStateGraph[counterState]()
	g.AddNode("a", "first", appendNode("a"))
	g.SetEntryPoint("a")

	runnable, err := g.Compile()
	require.NoError(t, err)

	_, err = runnable.Invoke(context.Background(), counterState{})
	assert.ErrorIs(t, err, ErrNoOutgoingEdge)
}

func TestStateGraphNodeError(t *testing.T) {
	nodeErr := errors.New("boom")
	g := NewStateGraph[counterState]()
	g.AddNode("a", "first", appendNode("a"))
	g.AddNode("b", "fails", func(ctx context.Context, s counterState) (counterState, error) {
		return s, nodeErr
	})
	g.SetEntryPoint("a")
	g.AddEdge("a", "b")
	g.AddEdge("b", END)

	runnable, err := g.Compile()
	require.NoError(t, err)

	_, err = runnable.Invoke(context.Background(), counterState{})
	require.Error(t, err)
	assert.ErrorIs(t, err, nodeErr)
	assert.Contains(t, err.Error(), "node b")
}

func TestStateGraphMaxStepsExceeded(t *testing.T) {
	g := NewStateGraph[counterState]()
	g.AddNode("loop", "spins forever", appendNode("loop"))
	g.SetEntryPoint("loop")
	g.AddEdge("loop", "loop")

	runnable, err := g.Compile()
	require.NoError(t, err)

	state, err := runnable.InvokeWithConfig(context.Background(), counterState{}, &Config{MaxSteps: 5})
	assert.ErrorIs(t, err, ErrMaxStepsExceeded)
	assert.Equal(t, 5, state.N)
}

func TestStateGraphDefaultMaxSteps(t *testing.T) {
	g := NewStateGraph[counterState]()
	g.AddNode("loop", "spins forever", appendNode("loop"))
	g.SetEntryPoint("loop")
	g.AddEdge("loop", "loop")

	runnable, err := g.Compile()
	require.NoError(t, err)

	state, err := runnable.Invoke(context.Background(), counterState{})
	assert.ErrorIs(t, err, ErrMaxStepsExceeded)
	assert.Equal(t, DefaultMaxSteps, state.N)
}

func TestStateGraphContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	g := NewStateGraph[counterState]()
	g.AddNode("a", "cancels", func(ctx context.Context, s counterState) (counterState, error) {
		cancel()
		s.N++
		return s, nil
	})
	g.SetEntryPoint("a")
	g.AddEdge("a", "a")

	runnable, err := g.Compile()
	require.NoError(t, err)

	state, err := runnable.Invoke(ctx, counterState{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, state.N)
}
