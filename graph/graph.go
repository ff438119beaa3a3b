package graph

import (
	"context"
	"errors"
)

// END is a special constant used to represent the terminal node in the graph.
const END = "END"

var (
	// ErrEntryPointNotSet is returned when the entry point of the graph is not set.
	ErrEntryPointNotSet = errors.New("entry point not set")

	// ErrNodeNotFound is returned when a node is not found in the graph.
	ErrNodeNotFound = errors.New("node not found")

	// ErrNoOutgoingEdge is returned when no outgoing edge is found for a node.
	ErrNoOutgoingEdge = errors.New("no outgoing edge found for node")

	// ErrEmptyRoute is returned when a conditional edge yields an empty next node.
	ErrEmptyRoute = errors.New("conditional edge returned empty next node")

	// ErrMaxStepsExceeded is returned when execution does not reach END within
	// the configured step bound.
	ErrMaxStepsExceeded = errors.New("max steps exceeded")
)

// DefaultMaxSteps bounds graph execution when no explicit limit is configured.
// Every well-formed strategy graph terminates long before this.
const DefaultMaxSteps = 25

// Node represents a named step in the graph.
type Node[S any] struct {
	// Name is the unique identifier for the node.
	Name string

	// Description describes the functionality of the node.
	Description string

	// Function takes the current state and returns the updated state.
	Function func(ctx context.Context, state S) (S, error)
}

// Edge represents a static edge between two named nodes.
type Edge struct {
	From string
	To   string
}

// RouteFunc selects the next node for a conditional edge. It must be a pure
// function of the state: given the same state it returns the same node name.
type RouteFunc[S any] func(ctx context.Context, state S) string

// Config carries per-invocation execution options.
type Config struct {
	// MaxSteps caps the number of node executions in a single invocation.
	// Zero means DefaultMaxSteps.
	MaxSteps int
}

func (c *Config) maxSteps() int {
	if c == nil || c.MaxSteps <= 0 {
		return DefaultMaxSteps
	}
	return c.MaxSteps
}
