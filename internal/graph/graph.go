// Package graph is a small state-graph engine: nodes transform a shared
// state value, edges (plain or conditional) pick the next node, and a
// compiled graph steps synchronously until it reaches End or the
// iteration bound.
package graph

import (
	"context"
	"fmt"
)

// End is the terminal routing target. Routing to End finishes the run.
const End = "__end__"

// NodeFunc transforms the state and returns the updated copy.
type NodeFunc[S any] func(ctx context.Context, state S) (S, error)

// Router inspects the state and returns the name of the next node.
// Routers must be pure: same state, same answer.
type Router[S any] func(ctx context.Context, state S) string

// DefaultMaxSteps bounds a run when no explicit limit is configured.
const DefaultMaxSteps = 25

type conditionalEdge[S any] struct {
	router Router[S]
	// paths maps router labels to node names. Empty means the label
	// is already a node name (or End).
	paths map[string]string
}

// Graph is the builder. Wire nodes and edges, then Compile.
type Graph[S any] struct {
	nodes       map[string]NodeFunc[S]
	edges       map[string]string
	conditional map[string]conditionalEdge[S]
	entry       string
}

func New[S any]() *Graph[S] {
	return &Graph[S]{
		nodes:       make(map[string]NodeFunc[S]),
		edges:       make(map[string]string),
		conditional: make(map[string]conditionalEdge[S]),
	}
}

// AddNode registers a named node. Re-registering a name overwrites it.
func (g *Graph[S]) AddNode(name string, fn NodeFunc[S]) *Graph[S] {
	g.nodes[name] = fn
	return g
}

// AddEdge wires an unconditional transition from one node to another
// (or to End).
func (g *Graph[S]) AddEdge(from, to string) *Graph[S] {
	g.edges[from] = to
	return g
}

// AddConditionalEdges wires a router after the given node. The paths map
// translates router labels to node names; pass nil when the router
// already returns node names.
func (g *Graph[S]) AddConditionalEdges(from string, router Router[S], paths map[string]string) *Graph[S] {
	g.conditional[from] = conditionalEdge[S]{router: router, paths: paths}
	return g
}

// SetEntryPoint names the node the run starts from.
func (g *Graph[S]) SetEntryPoint(name string) *Graph[S] {
	g.entry = name
	return g
}

// Compile validates the wiring and returns a runnable graph.
func (g *Graph[S]) Compile() (*Runnable[S], error) {
	if g.entry == "" {
		return nil, fmt.Errorf("graph has no entry point")
	}
	if _, ok := g.nodes[g.entry]; !ok {
		return nil, fmt.Errorf("entry point %q is not a registered node", g.entry)
	}
	for from, to := range g.edges {
		if _, ok := g.nodes[from]; !ok {
			return nil, fmt.Errorf("edge from unknown node %q", from)
		}
		if to != End {
			if _, ok := g.nodes[to]; !ok {
				return nil, fmt.Errorf("edge %q -> unknown node %q", from, to)
			}
		}
	}
	for from, ce := range g.conditional {
		if _, ok := g.nodes[from]; !ok {
			return nil, fmt.Errorf("conditional edge from unknown node %q", from)
		}
		for label, to := range ce.paths {
			if to != End {
				if _, ok := g.nodes[to]; !ok {
					return nil, fmt.Errorf("conditional path %q -> unknown node %q", label, to)
				}
			}
		}
	}
	return &Runnable[S]{graph: g, maxSteps: DefaultMaxSteps}, nil
}

// Runnable is a compiled graph. Safe for concurrent Invoke calls; each
// run threads its own state.
type Runnable[S any] struct {
	graph    *Graph[S]
	maxSteps int
}

// WithMaxSteps overrides the iteration bound. Values below one keep the
// default.
func (r *Runnable[S]) WithMaxSteps(n int) *Runnable[S] {
	if n > 0 {
		r.maxSteps = n
	}
	return r
}

// Invoke runs the graph to completion, node by node, and returns the
// final state. Node errors abort the run and propagate to the caller.
func (r *Runnable[S]) Invoke(ctx context.Context, state S) (S, error) {
	current := r.graph.entry

	for step := 0; step < r.maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return state, err
		}

		fn, ok := r.graph.nodes[current]
		if !ok {
			return state, fmt.Errorf("routed to unknown node %q", current)
		}

		next, err := fn(ctx, state)
		if err != nil {
			return state, fmt.Errorf("node %s: %w", current, err)
		}
		state = next

		target, err := r.route(ctx, current, state)
		if err != nil {
			return state, err
		}
		if target == End {
			return state, nil
		}
		current = target
	}

	return state, fmt.Errorf("graph exceeded %d steps without reaching the end", r.maxSteps)
}

func (r *Runnable[S]) route(ctx context.Context, from string, state S) (string, error) {
	if ce, ok := r.graph.conditional[from]; ok {
		label := ce.router(ctx, state)
		if len(ce.paths) == 0 {
			return label, nil
		}
		target, ok := ce.paths[label]
		if !ok {
			return "", fmt.Errorf("router at %s returned unmapped label %q", from, label)
		}
		return target, nil
	}
	if to, ok := r.graph.edges[from]; ok {
		return to, nil
	}
	// A node with no outgoing edge ends the run.
	return End, nil
}
