package dag

// Graph records which cells depend on which. Every edge is stored twice, once
// in the dependee's dependents set and once in the dependent's deps set, and
// both copies are always written together.
//
// Graph is not safe for concurrent use. The sheet that owns it serializes
// access.
type Graph struct {
	// nodes holds every name that currently has at least one edge.
	nodes map[string]*node
	// edges is the number of distinct edges in the graph.
	edges int
}

// node represents a single vertex in the graph. It is un-exported to
// enforce interaction with the graph via the public API (using string names),
// not by direct struct manipulation.
type node struct {
	// id is the cell name.
	id string
	// deps holds the names this node's formula references (its dependees).
	deps map[string]struct{}
	// dependents holds the names whose formulas reference this node.
	dependents map[string]struct{}
}

func (n *node) isolated() bool {
	return len(n.deps) == 0 && len(n.dependents) == 0
}
