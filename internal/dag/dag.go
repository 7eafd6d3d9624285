package dag

import (
	"maps"
	"slices"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*node),
	}
}

// nodeFor returns the node for id, creating it if needed.
func (g *Graph) nodeFor(id string) *node {
	if n, ok := g.nodes[id]; ok {
		return n
	}
	n := &node{
		id:         id,
		deps:       make(map[string]struct{}),
		dependents: make(map[string]struct{}),
	}
	g.nodes[id] = n
	return n
}

// prune drops n from the graph once it no longer takes part in any edge.
func (g *Graph) prune(n *node) {
	if n.isolated() {
		delete(g.nodes, n.id)
	}
}

// AddEdge records that `toID` depends on `fromID`. Adding an edge that already
// exists does nothing. Self edges are allowed; rejecting them is the job of the
// caller's cycle check.
func (g *Graph) AddEdge(fromID, toID string) {
	from := g.nodeFor(fromID)
	to := g.nodeFor(toID)
	if _, ok := to.deps[fromID]; ok {
		return
	}
	to.deps[fromID] = struct{}{}
	from.dependents[toID] = struct{}{}
	g.edges++
}

// RemoveEdge deletes the edge `fromID -> toID` if it exists.
func (g *Graph) RemoveEdge(fromID, toID string) {
	to, ok := g.nodes[toID]
	if !ok {
		return
	}
	if _, ok := to.deps[fromID]; !ok {
		return
	}
	from := g.nodes[fromID]
	delete(to.deps, fromID)
	delete(from.dependents, toID)
	g.edges--
	g.prune(from)
	g.prune(to)
}

// ReplaceDependees removes every edge into id and installs one edge from each
// name in dependees. Repeated names collapse into a single edge. Names do not
// have to be known to the graph beforehand.
func (g *Graph) ReplaceDependees(id string, dependees []string) {
	if n, ok := g.nodes[id]; ok {
		for _, dep := range slices.Collect(maps.Keys(n.deps)) {
			g.RemoveEdge(dep, id)
		}
	}
	for _, dep := range dependees {
		g.AddEdge(dep, id)
	}
}

// Dependees returns the sorted names that the given node depends on.
// Unknown names have no dependencies.
func (g *Graph) Dependees(id string) []string {
	n, ok := g.nodes[id]
	if !ok {
		return []string{}
	}
	return slices.Sorted(maps.Keys(n.deps))
}

// Dependents returns the sorted names that depend on the given node.
// Unknown names have no dependents.
func (g *Graph) Dependents(id string) []string {
	n, ok := g.nodes[id]
	if !ok {
		return []string{}
	}
	return slices.Sorted(maps.Keys(n.dependents))
}

// HasDependents reports whether any node depends on id.
func (g *Graph) HasDependents(id string) bool {
	n, ok := g.nodes[id]
	return ok && len(n.dependents) > 0
}

// HasDependees reports whether id depends on any node.
func (g *Graph) HasDependees(id string) bool {
	n, ok := g.nodes[id]
	return ok && len(n.deps) > 0
}

// Size returns the number of edges.
func (g *Graph) Size() int {
	return g.edges
}

// Len returns the number of names that take part in at least one edge.
func (g *Graph) Len() int {
	return len(g.nodes)
}
