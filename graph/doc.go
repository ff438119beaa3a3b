// Package graph implements a directed workflow graph of named steps with
// static and conditional edges, executed as a strict pipeline: one node at a
// time, each node's input being the previous node's output, until the END
// node is reached or the step bound is hit.
//
// Build a graph with NewStateGraph, register nodes and edges, then Compile it
// into a StateRunnable and Invoke it with an initial state:
//
//	g := graph.NewStateGraph[MyState]()
//	g.AddNode("fetch", "fetch the input", fetchFn)
//	g.AddNode("process", "process the input", processFn)
//	g.SetEntryPoint("fetch")
//	g.AddEdge("fetch", "process")
//	g.AddEdge("process", graph.END)
//	runnable, err := g.Compile()
//	final, err := runnable.Invoke(ctx, MyState{})
//
// Conditional edges select the next node at runtime from the state; routing
// functions must be pure so that identical states produce identical walks.
// A Tracer can be attached with WithTracer to record per-node spans, and an
// Exporter renders the graph as a Mermaid flowchart.
package graph
