package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/TFMV/forcegraph/analysis"
	"github.com/TFMV/forcegraph/graph"
	"github.com/TFMV/forcegraph/physics"
)

// ErrNotFound is returned by lookups on unknown ids
var ErrNotFound = errors.New("not found")

// NewScenario creates an empty scenario with a unique ID and timestamp
func NewScenario(name string) *Scenario {
	return &Scenario{
		ID:        uuid.New().String(),
		Name:      name,
		Nodes:     []NodeSpec{},
		Edges:     []EdgeSpec{},
		CreatedAt: time.Now(),
	}
}

// AddNode adds an unplaced node to the scenario
func (s *Scenario) AddNode(id string) error {
	if id == "" {
		return fmt.Errorf("node id must not be empty")
	}
	if s.HasNode(id) {
		return fmt.Errorf("node with ID %s already exists in the scenario", id)
	}
	s.Nodes = append(s.Nodes, NodeSpec{ID: id})
	return nil
}

// AddNodeAt adds a node with an explicit starting position
func (s *Scenario) AddNodeAt(id string, x, y float64) error {
	if err := s.AddNode(id); err != nil {
		return err
	}
	return s.SetPosition(id, x, y)
}

// SetPosition fixes the starting position of an existing node
func (s *Scenario) SetPosition(id string, x, y float64) error {
	for i := range s.Nodes {
		if s.Nodes[i].ID == id {
			s.Nodes[i].X = &x
			s.Nodes[i].Y = &y
			return nil
		}
	}
	return fmt.Errorf("node with ID %s: %w", id, ErrNotFound)
}

// HasNode reports whether id is a node of the scenario
func (s *Scenario) HasNode(id string) bool {
	for _, n := range s.Nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}

// HasEdge reports whether a and b are linked in either direction
func (s *Scenario) HasEdge(a, b string) bool {
	for _, e := range s.Edges {
		if (e.Source == a && e.Target == b) || (e.Source == b && e.Target == a) {
			return true
		}
	}
	return false
}

// AddEdge links two existing nodes. Adding an existing edge again, in either
// direction, is a no-op
func (s *Scenario) AddEdge(source, target string) error {
	if source == target {
		return fmt.Errorf("self-loop on node %s is not allowed", source)
	}
	if !s.HasNode(source) {
		return fmt.Errorf("source node with ID %s does not exist in the scenario", source)
	}
	if !s.HasNode(target) {
		return fmt.Errorf("target node with ID %s does not exist in the scenario", target)
	}
	if s.HasEdge(source, target) {
		return nil
	}
	s.Edges = append(s.Edges, EdgeSpec{Source: source, Target: target})
	return nil
}

// NewLayoutResult assembles a result document from a finished run over g
func NewLayoutResult(name string, g graph.Graph, res *physics.Result, stats analysis.EdgeStats) *LayoutResult {
	out := &LayoutResult{
		ID:        uuid.New().String(),
		Name:      name,
		Config:    res.Config,
		Nodes:     make([]NodeState, len(res.Labels)),
		Edges:     []EdgeState{},
		Trace:     res.Trace,
		Stats:     stats,
		StepsRun:  res.StepsRun,
		Duration:  res.Elapsed,
		CreatedAt: time.Now(),
	}

	for i, id := range res.Labels {
		out.Nodes[i] = NodeState{
			ID:      id,
			Index:   i,
			Degree:  graph.Degree(g, id),
			Initial: PointOf(res.Initial[i]),
			Final:   PointOf(res.Final[i]),
		}
	}

	lengths := analysis.EdgeLengths(g)
	for i, e := range graph.Edges(g) {
		out.Edges = append(out.Edges, EdgeState{
			Source: e[0].ID,
			Target: e[1].ID,
			Length: lengths[i],
		})
	}

	return out
}
