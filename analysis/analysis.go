// Package analysis computes summary statistics over a finished layout
package analysis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"

	"github.com/TFMV/forcegraph/graph"
)

// EdgeStats summarizes the Euclidean length of every edge
type EdgeStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"` // population standard deviation
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// EdgeLengths returns the length of each undirected edge once, ordered as
// graph.Edges orders them
func EdgeLengths(g graph.Graph) []float64 {
	edges := graph.Edges(g)
	lengths := make([]float64, len(edges))
	for i, e := range edges {
		lengths[i] = r2.Norm(r2.Sub(e[1].Position, e[0].Position))
	}
	return lengths
}

// Summarize reduces lengths to EdgeStats. An empty input yields zero stats
func Summarize(lengths []float64) EdgeStats {
	if len(lengths) == 0 {
		return EdgeStats{}
	}
	mean, std := stat.PopMeanStdDev(lengths, nil)
	return EdgeStats{
		Count:  len(lengths),
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(lengths),
		Max:    floats.Max(lengths),
	}
}

// EdgeLengthStats is Summarize(EdgeLengths(g))
func EdgeLengthStats(g graph.Graph) EdgeStats {
	return Summarize(EdgeLengths(g))
}
