package physics

import (
	"time"

	"gonum.org/v1/gonum/spatial/r2"
)

// Trace records, per node and per step, the scalar force sums and the
// position reached at the end of the step. Every table is indexed
// [node][step] with nodes in graph insertion order
type Trace struct {
	Attractive [][]float64 `json:"attractive"`
	Repelling  [][]float64 `json:"repelling"`
	Net        [][]float64 `json:"net"`
	X          [][]float64 `json:"x"`
	Y          [][]float64 `json:"y"`
}

// MaxTraceCells bounds nodes x steps for a single run. Each of the five
// trace tables holds this many float64 values at most
const MaxTraceCells = 1 << 24

// NewTrace allocates zeroed tables for nodes x steps
func NewTrace(nodes, steps int) *Trace {
	return &Trace{
		Attractive: table(nodes, steps),
		Repelling:  table(nodes, steps),
		Net:        table(nodes, steps),
		X:          table(nodes, steps),
		Y:          table(nodes, steps),
	}
}

func table(rows, cols int) [][]float64 {
	backing := make([]float64, rows*cols)
	out := make([][]float64, rows)
	for i := range out {
		out[i] = backing[i*cols : (i+1)*cols : (i+1)*cols]
	}
	return out
}

// Nodes returns the number of node rows
func (t *Trace) Nodes() int {
	return len(t.Net)
}

// Steps returns the number of step columns
func (t *Trace) Steps() int {
	if len(t.Net) == 0 {
		return 0
	}
	return len(t.Net[0])
}

// Position returns the position of node after step
func (t *Trace) Position(node, step int) r2.Vec {
	return r2.Vec{X: t.X[node][step], Y: t.Y[node][step]}
}

func (t *Trace) record(node, step int, attractive, repelling, net float64) {
	t.Attractive[node][step] = attractive
	t.Repelling[node][step] = repelling
	t.Net[node][step] = net
}

func (t *Trace) recordPosition(node, step int, p r2.Vec) {
	t.X[node][step] = p.X
	t.Y[node][step] = p.Y
}

// Result is the terminal state of a layout run
type Result struct {
	Labels   []string      // node ids in insertion order
	Initial  []r2.Vec      // positions before the first step
	Final    []r2.Vec      // positions after the last completed step
	Trace    *Trace        // per-step force and position tables
	Config   Config        // constants the run used
	StepsRun int           // completed steps
	Elapsed  time.Duration // wall time spent stepping, set by Run
}
