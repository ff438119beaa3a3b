package graph

import (
	"context"
	"sync/atomic"
	"time"
)

// TraceEvent represents different types of events in graph execution.
type TraceEvent string

const (
	// TraceEventGraphStart indicates the start of graph execution
	TraceEventGraphStart TraceEvent = "graph_start"

	// TraceEventGraphEnd indicates the end of graph execution
	TraceEventGraphEnd TraceEvent = "graph_end"

	// TraceEventNodeStart indicates the start of node execution
	TraceEventNodeStart TraceEvent = "node_start"

	// TraceEventNodeEnd indicates the end of node execution
	TraceEventNodeEnd TraceEvent = "node_end"

	// TraceEventNodeError indicates an error occurred in node execution
	TraceEventNodeError TraceEvent = "node_error"

	// TraceEventEdgeTraversal indicates traversal from one node to another
	TraceEventEdgeTraversal TraceEvent = "edge_traversal"
)

// TraceSpan represents a span of execution with timing and metadata.
type TraceSpan struct {
	// ID is a unique identifier for this span
	ID uint64

	// Event indicates the type of event this span represents
	Event TraceEvent

	// NodeName is the name of the node being executed (if applicable)
	NodeName string

	// FromNode is the source node for edge traversals
	FromNode string

	// ToNode is the destination node for edge traversals
	ToNode string

	// StartTime is when this span began
	StartTime time.Time

	// EndTime is when this span completed (zero for ongoing spans)
	EndTime time.Time

	// Duration is the total time taken (calculated when span ends)
	Duration time.Duration

	// Error contains any error that occurred during execution
	Error error
}

// TraceHook is called for every span transition.
type TraceHook func(span *TraceSpan)

// Tracer collects spans for a single graph invocation. It is not safe for
// concurrent use; give each strategy run its own Tracer.
type Tracer struct {
	spans  []*TraceSpan
	hooks  []TraceHook
	nextID atomic.Uint64
}

// NewTracer creates a new tracer instance.
func NewTracer() *Tracer {
	return &Tracer{}
}

// AddHook registers a new trace hook.
func (t *Tracer) AddHook(hook TraceHook) {
	t.hooks = append(t.hooks, hook)
}

// StartSpan creates a new trace span.
func (t *Tracer) StartSpan(ctx context.Context, event TraceEvent, nodeName string) *TraceSpan {
	span := &TraceSpan{
		ID:        t.nextID.Add(1),
		Event:     event,
		NodeName:  nodeName,
		StartTime: time.Now(),
	}
	t.spans = append(t.spans, span)
	t.notify(span)
	return span
}

// EndSpan completes a trace span.
func (t *Tracer) EndSpan(span *TraceSpan, err error) {
	if span == nil {
		return
	}
	span.EndTime = time.Now()
	span.Duration = span.EndTime.Sub(span.StartTime)
	span.Error = err

	switch {
	case span.Event == TraceEventNodeStart && err != nil:
		span.Event = TraceEventNodeError
	case span.Event == TraceEventNodeStart:
		span.Event = TraceEventNodeEnd
	case span.Event == TraceEventGraphStart:
		span.Event = TraceEventGraphEnd
	}
	t.notify(span)
}

// TraceEdge records an edge traversal event.
func (t *Tracer) TraceEdge(from, to string) {
	now := time.Now()
	span := &TraceSpan{
		ID:        t.nextID.Add(1),
		Event:     TraceEventEdgeTraversal,
		FromNode:  from,
		ToNode:    to,
		StartTime: now,
		EndTime:   now,
	}
	t.spans = append(t.spans, span)
	t.notify(span)
}

// Spans returns all collected spans in the order they were started.
func (t *Tracer) Spans() []*TraceSpan {
	return t.spans
}

// NodeSequence returns the names of executed nodes in order, one entry per
// completed node span.
func (t *Tracer) NodeSequence() []string {
	var names []string
	for _, span := range t.spans {
		if span.Event == TraceEventNodeEnd || span.Event == TraceEventNodeError {
			names = append(names, span.NodeName)
		}
	}
	return names
}

// Clear removes all collected spans.
func (t *Tracer) Clear() {
	t.spans = nil
}

func (t *Tracer) notify(span *TraceSpan) {
	for _, hook := range t.hooks {
		hook(span)
	}
}
