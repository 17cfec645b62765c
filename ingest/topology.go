package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/TFMV/forcegraph/graph"
	"github.com/TFMV/forcegraph/models"
)

// Defaults of the grouped demo topology
const (
	DefaultGroupedNodes  = 20
	DefaultNodesPerGroup = 5
)

// LeaderSuffix marks the label of a group leader
const LeaderSuffix = "***"

// GroupedTopology builds numNodes nodes split into consecutive groups of
// perGroup. The first node of each group is its leader: it is linked to every
// other member and to the previous group's leader. Nodes are left unplaced
func GroupedTopology(numNodes, perGroup int) (*models.Scenario, error) {
	if numNodes < 0 {
		return nil, fmt.Errorf("%w: node count must not be negative, got %d", ErrInvalidScenario, numNodes)
	}
	if perGroup <= 0 {
		return nil, fmt.Errorf("%w: group size must be positive, got %d", ErrInvalidScenario, perGroup)
	}

	s := models.NewScenario(fmt.Sprintf("grouped-%d-%d", numNodes, perGroup))
	labels := make([]string, numNodes)
	for i := range labels {
		labels[i] = strconv.Itoa(i)
		if i%perGroup == 0 {
			labels[i] += LeaderSuffix
		}
		if err := s.AddNode(labels[i]); err != nil {
			return nil, err
		}
	}

	for leader := 0; leader < numNodes; leader += perGroup {
		if leader != 0 {
			if err := s.AddEdge(labels[leader-perGroup], labels[leader]); err != nil {
				return nil, err
			}
		}
		stop := min(leader+perGroup, numNodes)
		for member := leader + 1; member < stop; member++ {
			if err := s.AddEdge(labels[leader], labels[member]); err != nil {
				return nil, err
			}
		}
	}

	return s, nil
}

// Build is a scenario materialized as a graph
type Build struct {
	Graph   graph.Graph
	Pending []*graph.Node // nodes without a starting position
	Fixed   []*graph.Node // nodes whose position came from the scenario
}

// BuildGraph inserts the scenario into a new graph of the given backend.
// A non-positive capacity sizes a matrix backend to fit the scenario
func BuildGraph(s *models.Scenario, backend string, capacity int) (*Build, error) {
	if err := Validate(s); err != nil {
		return nil, err
	}
	if strings.EqualFold(backend, graph.BackendMatrix) && capacity <= 0 {
		capacity = max(len(s.Nodes), 1)
	}

	g, err := graph.New(backend, capacity)
	if err != nil {
		return nil, err
	}

	b := &Build{Graph: g}
	for _, spec := range s.Nodes {
		n := graph.NewNode(spec.ID, 0, 0)
		if spec.Placed() {
			n.Position.X, n.Position.Y = *spec.X, *spec.Y
		}
		if !g.AddNode(n) {
			return nil, fmt.Errorf("%w: cannot add node %s (duplicate or over capacity %d)", ErrInvalidScenario, spec.ID, capacity)
		}
		if spec.Placed() {
			b.Fixed = append(b.Fixed, n)
		} else {
			b.Pending = append(b.Pending, n)
		}
	}

	for _, e := range s.Edges {
		if !g.AddEdge(e.Source, e.Target) {
			return nil, fmt.Errorf("%w: cannot add edge %s - %s", ErrInvalidScenario, e.Source, e.Target)
		}
	}

	return b, nil
}
