package models

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// NodeFilter is a function type used to filter nodes in queries
type NodeFilter func(node *NodeState) bool

// EdgeFilter is a function type used to filter edges in queries
type EdgeFilter func(edge *EdgeState) bool

// FindNode returns a node by its ID
func (r *LayoutResult) FindNode(id string) (*NodeState, error) {
	for i, node := range r.Nodes {
		if node.ID == id {
			return &r.Nodes[i], nil
		}
	}
	return nil, fmt.Errorf("node with ID %s: %w", id, ErrNotFound)
}

// NodeSeries returns the per-step trace of one node
func (r *LayoutResult) NodeSeries(id string) (*NodeSeries, error) {
	node, err := r.FindNode(id)
	if err != nil {
		return nil, err
	}
	if r.Trace == nil {
		return nil, fmt.Errorf("layout %s carries no trace", r.ID)
	}

	i := node.Index
	return &NodeSeries{
		ID:         id,
		Attractive: r.Trace.Attractive[i],
		Repelling:  r.Trace.Repelling[i],
		Net:        r.Trace.Net[i],
		X:          r.Trace.X[i],
		Y:          r.Trace.Y[i],
	}, nil
}

// ConnectedNodes returns all nodes directly connected to a node
func (r *LayoutResult) ConnectedNodes(id string) []NodeState {
	neighbors := make(map[string]bool)
	for _, edge := range r.Edges {
		if edge.Source == id {
			neighbors[edge.Target] = true
		}
		if edge.Target == id {
			neighbors[edge.Source] = true
		}
	}

	var result []NodeState
	for _, node := range r.Nodes {
		if neighbors[node.ID] {
			result = append(result, node)
		}
	}
	return result
}

// FilterNodes returns nodes that match the provided filter function
func (r *LayoutResult) FilterNodes(filter NodeFilter) []NodeState {
	var result []NodeState
	for i, node := range r.Nodes {
		if filter(&r.Nodes[i]) {
			result = append(result, node)
		}
	}
	return result
}

// FilterEdges returns edges that match the provided filter function
func (r *LayoutResult) FilterEdges(filter EdgeFilter) []EdgeState {
	var result []EdgeState
	for i, edge := range r.Edges {
		if filter(&r.Edges[i]) {
			result = append(result, edge)
		}
	}
	return result
}

// Bounds returns the bounding box of the final positions, or of the
// initial positions when initial is true. An empty layout yields a zero box
func (r *LayoutResult) Bounds(initial bool) r2.Box {
	if len(r.Nodes) == 0 {
		return r2.Box{}
	}

	pick := func(n NodeState) r2.Vec {
		if initial {
			return n.Initial.Vec()
		}
		return n.Final.Vec()
	}

	// r2.Box.Union ignores zero-area boxes
	first := pick(r.Nodes[0])
	box := r2.Box{Min: first, Max: first}
	for _, n := range r.Nodes[1:] {
		p := pick(n)
		box.Min = r2.Vec{X: math.Min(box.Min.X, p.X), Y: math.Min(box.Min.Y, p.Y)}
		box.Max = r2.Vec{X: math.Max(box.Max.X, p.X), Y: math.Max(box.Max.Y, p.Y)}
	}
	return box
}
