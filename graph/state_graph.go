package graph

import (
	"context"
	"fmt"
)

// StateGraph is a directed graph of named steps carrying a shared state value
// of type S from the entry point to END.
type StateGraph[S any] struct {
	// nodes is a map of node names to their corresponding Node objects
	nodes map[string]Node[S]

	// edges is a slice of Edge objects representing the connections between nodes
	edges []Edge

	// conditionalEdges maps a "From" node to a routing function that derives
	// the "To" node from the state at runtime
	conditionalEdges map[string]RouteFunc[S]

	// conditionalTargets lists the declared targets of each conditional edge,
	// used for validation and visualization
	conditionalTargets map[string][]string

	// entryPoint is the name of the entry point node in the graph
	entryPoint string
}

// NewStateGraph creates a new empty StateGraph.
func NewStateGraph[S any]() *StateGraph[S] {
	return &StateGraph[S]{
		nodes:              make(map[string]Node[S]),
		conditionalEdges:   make(map[string]RouteFunc[S]),
		conditionalTargets: make(map[string][]string),
	}
}

// AddNode adds a new node to the state graph with the given name, description and function.
func (g *StateGraph[S]) AddNode(name, description string, fn func(ctx context.Context, state S) (S, error)) {
	g.nodes[name] = Node[S]{
		Name:        name,
		Description: description,
		Function:    fn,
	}
}

// AddEdge adds a static edge between the "from" and "to" nodes.
func (g *StateGraph[S]) AddEdge(from, to string) {
	g.edges = append(g.edges, Edge{From: from, To: to})
}

// AddConditionalEdge adds a conditional edge where the target node is determined
// at runtime by route. The optional targets declare the nodes route may return;
// they are validated at compile time and drawn by the exporter.
func (g *StateGraph[S]) AddConditionalEdge(from string, route RouteFunc[S], targets ...string) {
	g.conditionalEdges[from] = route
	g.conditionalTargets[from] = targets
}

// SetEntryPoint sets the entry point node name for the state graph.
func (g *StateGraph[S]) SetEntryPoint(name string) {
	g.entryPoint = name
}

// Compile validates the graph and returns a StateRunnable instance.
func (g *StateGraph[S]) Compile() (*StateRunnable[S], error) {
	if g.entryPoint == "" {
		return nil, ErrEntryPointNotSet
	}
	if _, ok := g.nodes[g.entryPoint]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, g.entryPoint)
	}
	for _, edge := range g.edges {
		if _, ok := g.nodes[edge.From]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, edge.From)
		}
		if edge.To != END {
			if _, ok := g.nodes[edge.To]; !ok {
				return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, edge.To)
			}
		}
	}
	for from, targets := range g.conditionalTargets {
		if _, ok := g.nodes[from]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, from)
		}
		for _, to := range targets {
			if to != END {
				if _, ok := g.nodes[to]; !ok {
					return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, to)
				}
			}
		}
	}
	return &StateRunnable[S]{graph: g}, nil
}

// StateRunnable represents a compiled state graph that can be invoked.
type StateRunnable[S any] struct {
	graph  *StateGraph[S]
	tracer *Tracer
}

// WithTracer returns a new StateRunnable that records spans on the given tracer.
func (r *StateRunnable[S]) WithTracer(tracer *Tracer) *StateRunnable[S] {
	return &StateRunnable[S]{graph: r.graph, tracer: tracer}
}

// Invoke executes the compiled state graph with the given input state until a
// terminal node is reached, returning the final state.
func (r *StateRunnable[S]) Invoke(ctx context.Context, initialState S) (S, error) {
	return r.InvokeWithConfig(ctx, initialState, nil)
}

// InvokeWithConfig executes the compiled state graph with the given input state and config.
// Execution is a strict pipeline: one node at a time, each node's input being the
// previous node's output. Execution stops at END or when the step bound is hit.
func (r *StateRunnable[S]) InvokeWithConfig(ctx context.Context, initialState S, config *Config) (S, error) {
	state := initialState
	current := r.graph.entryPoint
	maxSteps := config.maxSteps()

	var graphSpan *TraceSpan
	if r.tracer != nil {
		graphSpan = r.tracer.StartSpan(ctx, TraceEventGraphStart, "graph")
	}

	for steps := 0; current != END; steps++ {
		if steps >= maxSteps {
			if r.tracer != nil {
				r.tracer.EndSpan(graphSpan, ErrMaxStepsExceeded)
			}
			return state, fmt.Errorf("%w: %d", ErrMaxStepsExceeded, maxSteps)
		}

		if err := ctx.Err(); err != nil {
			return state, err
		}

		node, ok := r.graph.nodes[current]
		if !ok {
			return state, fmt.Errorf("%w: %s", ErrNodeNotFound, current)
		}

		var nodeSpan *TraceSpan
		if r.tracer != nil {
			nodeSpan = r.tracer.StartSpan(ctx, TraceEventNodeStart, current)
		}

		next, err := node.Function(ctx, state)
		if r.tracer != nil {
			r.tracer.EndSpan(nodeSpan, err)
		}
		if err != nil {
			if r.tracer != nil {
				r.tracer.EndSpan(graphSpan, err)
			}
			return state, fmt.Errorf("error in node %s: %w", current, err)
		}
		state = next

		current, err = r.nextNode(ctx, current, state)
		if err != nil {
			if r.tracer != nil {
				r.tracer.EndSpan(graphSpan, err)
			}
			return state, err
		}
	}

	if r.tracer != nil {
		r.tracer.EndSpan(graphSpan, nil)
	}
	return state, nil
}

// nextNode determines the next node based on conditional edges first, then static edges.
func (r *StateRunnable[S]) nextNode(ctx context.Context, current string, state S) (string, error) {
	if route, ok := r.graph.conditionalEdges[current]; ok {
		next := route(ctx, state)
		if next == "" {
			return "", fmt.Errorf("%w: from %s", ErrEmptyRoute, current)
		}
		if r.tracer != nil {
			r.tracer.TraceEdge(current, next)
		}
		return next, nil
	}

	for _, edge := range r.graph.edges {
		if edge.From == current {
			if r.tracer != nil {
				r.tracer.TraceEdge(current, edge.To)
			}
			return edge.To, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNoOutgoingEdge, current)
}
