// Package graph provides the undirected, unweighted, simple graph the layout
// engine runs over. Two backends share one contract: SetGraph keeps adjacency
// sets keyed by label, MatrixGraph keeps a fixed-capacity adjacency matrix.
package graph

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

// Backend names accepted by New.
const (
	BackendSet    = "set"
	BackendMatrix = "matrix"
)

// Node is a labeled point in the plane.
type Node struct {
	ID       string // stable label, immutable once inserted
	Index    int    // dense insertion index assigned by the graph
	Position r2.Vec // written by placement and by the layout engine only

	adj map[string]struct{}
}

// NewNode creates an unattached node at the given position.
func NewNode(id string, x, y float64) *Node {
	return &Node{ID: id, Index: -1, Position: r2.Vec{X: x, Y: y}}
}

// Graph is the capability set the layout engine depends on.
//
// Failures are reported as false, never as errors: a duplicate id, a full
// matrix, an unknown endpoint and a self-edge all leave the graph unchanged.
type Graph interface {
	// AddNode inserts n if its id is new and assigns n.Index.
	AddNode(n *Node) bool
	// AddEdge links a and b in both directions.
	AddEdge(a, b string) bool
	// HasEdge reports whether a and b are adjacent. Unknown ids yield false.
	HasEdge(a, b string) bool
	// Node resolves an id.
	Node(id string) (*Node, bool)
	// Nodes returns the nodes in insertion order.
	Nodes() []*Node
	// Neighbors returns the sorted neighbor ids of id, or nil if id is unknown.
	Neighbors(id string) []string
	// Len returns the node count.
	Len() int
	// EdgeCount returns the number of undirected edges.
	EdgeCount() int
}

// New returns an empty graph for the named backend. Capacity is only
// meaningful for the matrix backend.
func New(backend string, capacity int) (Graph, error) {
	switch strings.ToLower(backend) {
	case "", BackendSet:
		return NewSetGraph(), nil
	case BackendMatrix:
		if capacity <= 0 {
			return nil, fmt.Errorf("matrix backend needs a positive capacity, got %d", capacity)
		}
		return NewMatrixGraph(capacity), nil
	default:
		return nil, fmt.Errorf("unsupported graph backend: %s", backend)
	}
}

// Edges returns every undirected edge once, ordered by the insertion index of
// the first endpoint and then of the second.
func Edges(g Graph) [][2]*Node {
	nodes := g.Nodes()
	var edges [][2]*Node
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			if g.HasEdge(nodes[i].ID, nodes[j].ID) {
				edges = append(edges, [2]*Node{nodes[i], nodes[j]})
			}
		}
	}
	return edges
}

// Degree returns the number of neighbors of id, zero when id is unknown.
func Degree(g Graph, id string) int {
	return len(g.Neighbors(id))
}
