package graph

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var backends = []struct {
	name string
	new  func() Graph
}{
	{"set", func() Graph { return NewSetGraph() }},
	{"matrix", func() Graph { return NewMatrixGraph(16) }},
}

func TestAddNode(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			g := b.new()

			a := NewNode("A", 0, 0)
			require.True(t, g.AddNode(a))
			assert.Equal(t, 0, a.Index)

			bNode := NewNode("B", 1, 0)
			require.True(t, g.AddNode(bNode))
			assert.Equal(t, 1, bNode.Index)

			assert.Equal(t, 2, g.Len())
			assert.False(t, g.AddNode(nil))
			assert.False(t, g.AddNode(NewNode("", 5, 5)))
		})
	}
}

func TestAddNodeDuplicateIsNoop(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			g := b.new()
			require.True(t, g.AddNode(NewNode("A", 0, 0)))
			require.True(t, g.AddNode(NewNode("B", 1, 0)))
			require.True(t, g.AddEdge("A", "B"))

			dup := NewNode("A", 9, 9)
			assert.False(t, g.AddNode(dup))
			assert.Equal(t, -1, dup.Index)

			assert.Equal(t, 2, g.Len())
			assert.Equal(t, 1, g.EdgeCount())
			assert.Equal(t, []string{"B"}, g.Neighbors("A"))

			n, ok := g.Node("A")
			require.True(t, ok)
			assert.Equal(t, 0.0, n.Position.X)
		})
	}
}

func TestAddEdge(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			g := b.new()
			for _, id := range []string{"A", "B", "C"} {
				require.True(t, g.AddNode(NewNode(id, 0, 0)))
			}

			assert.True(t, g.AddEdge("A", "B"))
			assert.True(t, g.AddEdge("A", "B"), "re-adding an edge is idempotent")
			assert.True(t, g.AddEdge("B", "A"))
			assert.Equal(t, 1, g.EdgeCount())

			assert.True(t, g.HasEdge("A", "B"))
			assert.True(t, g.HasEdge("B", "A"))
			assert.False(t, g.HasEdge("A", "C"))
			assert.False(t, g.HasEdge("C", "A"))
		})
	}
}

func TestAddEdgeRejectsUnknownAndSelf(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			g := b.new()
			require.True(t, g.AddNode(NewNode("A", 0, 0)))
			require.True(t, g.AddNode(NewNode("B", 0, 1)))

			assert.False(t, g.AddEdge("A", "missing"))
			assert.False(t, g.AddEdge("missing", "A"))
			assert.False(t, g.AddEdge("missing", "other"))
			assert.False(t, g.AddEdge("A", "A"))

			assert.Equal(t, 0, g.EdgeCount())
			assert.Empty(t, g.Neighbors("A"))
			assert.Empty(t, g.Neighbors("B"))
			assert.False(t, g.HasEdge("A", "A"))
		})
	}
}

func TestHasEdgeUnknownIDs(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			g := b.new()
			require.True(t, g.AddNode(NewNode("A", 0, 0)))

			assert.False(t, g.HasEdge("A", "nope"))
			assert.False(t, g.HasEdge("nope", "A"))
			assert.False(t, g.HasEdge("nope", "nope"))
			assert.Nil(t, g.Neighbors("nope"))

			n, ok := g.Node("nope")
			assert.False(t, ok)
			assert.Nil(t, n)
		})
	}
}

func TestEdgeSymmetry(t *testing.T) {
	pairs := [][2]string{{"0", "1"}, {"0", "2"}, {"2", "3"}, {"4", "1"}, {"3", "0"}}

	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			g := b.new()
			ids := []string{"0", "1", "2", "3", "4", "5"}
			for i, id := range ids {
				require.True(t, g.AddNode(NewNode(id, float64(i), 0)))
			}
			for _, p := range pairs {
				require.True(t, g.AddEdge(p[0], p[1]))
			}

			for _, a := range ids {
				for _, c := range ids {
					assert.Equal(t, g.HasEdge(a, c), g.HasEdge(c, a), "%s-%s", a, c)
				}
			}
			assert.Equal(t, len(pairs), g.EdgeCount())
			assert.Len(t, Edges(g), len(pairs))
			assert.Equal(t, 3, Degree(g, "0"))
			assert.Equal(t, 0, Degree(g, "5"))
		})
	}
}

func TestMatrixGraphCapacity(t *testing.T) {
	g := NewMatrixGraph(2)
	assert.Equal(t, 2, g.Capacity())
	require.True(t, g.AddNode(NewNode("A", 0, 0)))
	require.True(t, g.AddNode(NewNode("B", 1, 0)))

	c := NewNode("C", 2, 0)
	assert.False(t, g.AddNode(c))
	assert.Equal(t, 2, g.Len())
	assert.False(t, g.AddEdge("A", "C"))

	empty := NewMatrixGraph(0)
	assert.False(t, empty.AddNode(NewNode("A", 0, 0)))
	assert.False(t, empty.HasEdge("A", "B"))
}

func TestNodesInsertionOrder(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			g := b.new()
			want := []string{"z", "a", "m"}
			for _, id := range want {
				require.True(t, g.AddNode(NewNode(id, 0, 0)))
			}

			var got []string
			for _, n := range g.Nodes() {
				got = append(got, n.ID)
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestNew(t *testing.T) {
	g, err := New("set", 0)
	require.NoError(t, err)
	assert.IsType(t, &SetGraph{}, g)

	g, err = New("MATRIX", 4)
	require.NoError(t, err)
	assert.IsType(t, &MatrixGraph{}, g)

	_, err = New("matrix", 0)
	assert.Error(t, err)

	_, err = New("tree", 4)
	assert.Error(t, err)
}

func TestDump(t *testing.T) {
	g := NewSetGraph()
	require.True(t, g.AddNode(NewNode("A", 0, 0)))
	require.True(t, g.AddNode(NewNode("B", 10, 0)))
	require.True(t, g.AddEdge("A", "B"))

	var buf bytes.Buffer
	require.NoError(t, Dump(g, &buf))
	assert.Equal(t, "A (0.000, 0.000):\n  B true\nB (10.000, 0.000):\n  A true\n", buf.String())
}
