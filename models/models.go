// Package models provides data structures and interfaces for the forcegraph application.
// It defines the documents exchanged between ingest, the layout pipeline and its outputs
package models

import (
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/TFMV/forcegraph/analysis"
	"github.com/TFMV/forcegraph/physics"
)

// NodeSpec describes a node in an input scenario
type NodeSpec struct {
	ID string   `json:"id" validate:"required"`
	X  *float64 `json:"x,omitempty"` // nil lets the placer choose
	Y  *float64 `json:"y,omitempty"`
}

// Placed reports whether the node carries an explicit starting position
func (n NodeSpec) Placed() bool {
	return n.X != nil && n.Y != nil
}

// EdgeSpec describes an undirected edge between two node ids
type EdgeSpec struct {
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required,nefield=Source"`
}

// Scenario is a graph to lay out
type Scenario struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Nodes     []NodeSpec `json:"nodes" validate:"dive"`
	Edges     []EdgeSpec `json:"edges" validate:"dive"`
	CreatedAt time.Time  `json:"created_at"`
}

// Point is a JSON-friendly position
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vec converts p to a gonum vector
func (p Point) Vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// PointOf converts a gonum vector to a Point
func PointOf(v r2.Vec) Point {
	return Point{X: v.X, Y: v.Y}
}

// NodeState is a node after layout
type NodeState struct {
	ID      string `json:"id"`
	Index   int    `json:"index"` // row in the trace tables
	Degree  int    `json:"degree"`
	Initial Point  `json:"initial"`
	Final   Point  `json:"final"`
}

// EdgeState is an edge after layout
type EdgeState struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Length float64 `json:"length"` // distance between the final endpoint positions
}

// LayoutResult is the outcome of one layout run
type LayoutResult struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Backend   string             `json:"backend,omitempty"`
	Config    physics.Config     `json:"config"`
	Nodes     []NodeState        `json:"nodes"`
	Edges     []EdgeState        `json:"edges"`
	Trace     *physics.Trace     `json:"trace,omitempty"`
	Stats     analysis.EdgeStats `json:"stats"`
	StepsRun  int                `json:"steps_run"`
	Duration  time.Duration      `json:"duration"`
	CreatedAt time.Time          `json:"created_at"`
}

// NodeSeries is the per-step trace of a single node
type NodeSeries struct {
	ID         string    `json:"id"`
	Attractive []float64 `json:"attractive"`
	Repelling  []float64 `json:"repelling"`
	Net        []float64 `json:"net"`
	X          []float64 `json:"x"`
	Y          []float64 `json:"y"`
}

// LayoutRepository defines operations for storing layout results
type LayoutRepository interface {
	FindByID(id string) (*LayoutResult, error)
	List() []*LayoutResult
	Save(result *LayoutResult) error
	Delete(id string) error
}
