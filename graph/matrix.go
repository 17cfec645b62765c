package graph

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// MatrixGraph stores adjacency in a dense capacity x capacity matrix. Nodes
// get a dense integer index on insertion and insertion fails once the matrix
// is full. Memory is O(capacity²); lookups are a single matrix read.
type MatrixGraph struct {
	capacity int
	nodes    []*Node
	index    map[string]*Node
	adj      *mat.Dense
	edges    int
}

// NewMatrixGraph creates an empty MatrixGraph holding at most capacity nodes.
// A non-positive capacity yields a graph that accepts no nodes.
func NewMatrixGraph(capacity int) *MatrixGraph {
	g := &MatrixGraph{
		capacity: capacity,
		nodes:    make([]*Node, 0),
		index:    make(map[string]*Node),
	}
	if capacity > 0 {
		g.adj = mat.NewDense(capacity, capacity, nil)
	}
	return g
}

// Capacity returns the maximum node count.
func (g *MatrixGraph) Capacity() int {
	if g.capacity < 0 {
		return 0
	}
	return g.capacity
}

// AddNode inserts a node if its id is new and capacity remains.
func (g *MatrixGraph) AddNode(n *Node) bool {
	if n == nil || n.ID == "" {
		return false
	}
	if len(g.nodes) >= g.Capacity() {
		return false
	}
	if _, exists := g.index[n.ID]; exists {
		return false
	}

	n.Index = len(g.nodes)
	g.nodes = append(g.nodes, n)
	g.index[n.ID] = n
	return true
}

// AddEdge marks a and b as mutually adjacent.
func (g *MatrixGraph) AddEdge(a, b string) bool {
	i, j, ok := g.resolve(a, b)
	if !ok || i == j {
		return false
	}

	if g.adj.At(i, j) == 0 {
		g.edges++
	}
	g.adj.Set(i, j, 1)
	g.adj.Set(j, i, 1)
	return true
}

// HasEdge reports whether both directions of the a-b relation are recorded.
// The diagonal is never set, so HasEdge(x, x) is false.
func (g *MatrixGraph) HasEdge(a, b string) bool {
	i, j, ok := g.resolve(a, b)
	if !ok {
		return false
	}
	return g.adj.At(i, j) != 0 && g.adj.At(j, i) != 0
}

// Node returns the node with the given id.
func (g *MatrixGraph) Node(id string) (*Node, bool) {
	n, ok := g.index[id]
	return n, ok
}

// Nodes returns the nodes in insertion order.
func (g *MatrixGraph) Nodes() []*Node {
	out := make([]*Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Neighbors returns the sorted neighbor ids of id.
func (g *MatrixGraph) Neighbors(id string) []string {
	n, ok := g.index[id]
	if !ok {
		return nil
	}
	out := make([]string, 0)
	for j, other := range g.nodes {
		if g.adj.At(n.Index, j) != 0 {
			out = append(out, other.ID)
		}
	}
	sort.Strings(out)
	return out
}

// Len returns the node count.
func (g *MatrixGraph) Len() int {
	return len(g.nodes)
}

// EdgeCount returns the number of undirected edges.
func (g *MatrixGraph) EdgeCount() int {
	return g.edges
}

func (g *MatrixGraph) resolve(a, b string) (int, int, bool) {
	start, ok := g.index[a]
	if !ok {
		return 0, 0, false
	}
	end, ok := g.index[b]
	if !ok {
		return 0, 0, false
	}
	return start.Index, end.Index, true
}
