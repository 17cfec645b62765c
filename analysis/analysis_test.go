package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/TFMV/forcegraph/graph"
)

func TestEdgeLengths(t *testing.T) {
	g := graph.NewSetGraph()
	require.True(t, g.AddNode(graph.NewNode("A", 0, 0)))
	require.True(t, g.AddNode(graph.NewNode("B", 3, 4)))
	require.True(t, g.AddNode(graph.NewNode("C", 3, 0)))
	require.True(t, g.AddEdge("A", "B"))
	require.True(t, g.AddEdge("C", "A"))

	assert.Equal(t, []float64{5, 3}, EdgeLengths(g))

	s := EdgeLengthStats(g)
	assert.Equal(t, 2, s.Count)
	assert.True(t, scalar.EqualWithinAbs(4, s.Mean, 1e-12))
	assert.True(t, scalar.EqualWithinAbs(1, s.StdDev, 1e-12))
	assert.Equal(t, 3.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, EdgeStats{}, Summarize(nil))

	g := graph.NewMatrixGraph(2)
	require.True(t, g.AddNode(graph.NewNode("A", 0, 0)))
	require.True(t, g.AddNode(graph.NewNode("B", 1, 0)))
	assert.Empty(t, EdgeLengths(g))
	assert.Zero(t, EdgeLengthStats(g).Count)
}

func TestSummarizeSingle(t *testing.T) {
	s := Summarize([]float64{7})
	assert.Equal(t, EdgeStats{Count: 1, Mean: 7, StdDev: 0, Min: 7, Max: 7}, s)
}
