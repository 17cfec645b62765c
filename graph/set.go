package graph

import "sort"

// SetGraph stores adjacency as a set of neighbor labels on each node.
// Node count is unbounded and edge lookup is O(1) on average.
type SetGraph struct {
	nodes []*Node
	index map[string]*Node
	edges int
}

// NewSetGraph creates an empty SetGraph.
func NewSetGraph() *SetGraph {
	return &SetGraph{
		nodes: make([]*Node, 0),
		index: make(map[string]*Node),
	}
}

// AddNode inserts a node if its id is not already present.
func (g *SetGraph) AddNode(n *Node) bool {
	if n == nil || n.ID == "" {
		return false
	}
	if _, exists := g.index[n.ID]; exists {
		return false
	}

	n.Index = len(g.nodes)
	n.adj = make(map[string]struct{})
	g.nodes = append(g.nodes, n)
	g.index[n.ID] = n
	return true
}

// AddEdge marks a and b as mutually adjacent.
func (g *SetGraph) AddEdge(a, b string) bool {
	if a == b {
		return false
	}
	start, ok := g.index[a]
	if !ok {
		return false
	}
	end, ok := g.index[b]
	if !ok {
		return false
	}

	if _, exists := start.adj[b]; !exists {
		g.edges++
	}
	start.adj[b] = struct{}{}
	end.adj[a] = struct{}{}
	return true
}

// HasEdge reports whether both directions of the a-b relation are recorded.
func (g *SetGraph) HasEdge(a, b string) bool {
	start, ok := g.index[a]
	if !ok {
		return false
	}
	end, ok := g.index[b]
	if !ok {
		return false
	}

	_, forward := start.adj[b]
	_, backward := end.adj[a]
	return forward && backward
}

// Node returns the node with the given id.
func (g *SetGraph) Node(id string) (*Node, bool) {
	n, ok := g.index[id]
	return n, ok
}

// Nodes returns the nodes in insertion order. The slice is a copy; the nodes
// are shared.
func (g *SetGraph) Nodes() []*Node {
	out := make([]*Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Neighbors returns the sorted neighbor ids of id.
func (g *SetGraph) Neighbors(id string) []string {
	n, ok := g.index[id]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(n.adj))
	for nb := range n.adj {
		out = append(out, nb)
	}
	sort.Strings(out)
	return out
}

// Len returns the node count.
func (g *SetGraph) Len() int {
	return len(g.nodes)
}

// EdgeCount returns the number of undirected edges.
func (g *SetGraph) EdgeCount() int {
	return g.edges
}
