package render

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/TFMV/forcegraph/models"
	"github.com/TFMV/forcegraph/simulate"
)

func lineResult(t *testing.T, steps int) *models.LayoutResult {
	t.Helper()
	s := models.NewScenario("line")
	require.NoError(t, s.AddNodeAt("A", 0, 0))
	require.NoError(t, s.AddNodeAt("B", 10, 0))
	require.NoError(t, s.AddNodeAt("C", 20, 0))
	require.NoError(t, s.AddEdge("A", "B"))
	require.NoError(t, s.AddEdge("B", "C"))

	opts := simulate.DefaultOptions()
	opts.Physics.Steps = steps
	res, err := simulate.Run(context.Background(), s, opts)
	require.NoError(t, err)
	return res
}

func TestGetRenderer(t *testing.T) {
	for _, format := range Formats {
		r, err := GetRenderer(format)
		require.NoError(t, err, format)
		assert.NotEmpty(t, r.Name())
		assert.NotEmpty(t, r.Description())
	}

	_, err := GetRenderer("webgl")
	assert.Error(t, err)
	_, err = Generate(lineResult(t, 1), "png")
	assert.Error(t, err)
}

func TestFit(t *testing.T) {
	vp := fit(r2.Box{Min: r2.Vec{}, Max: r2.Vec{X: 10, Y: 5}}, 0, 0, 100, 100, 0)

	x, y := vp.project(r2.Vec{})
	assert.InDelta(t, 0.0, x, 1e-9)
	assert.InDelta(t, 75.0, y, 1e-9)

	x, y = vp.project(r2.Vec{X: 10, Y: 5})
	assert.InDelta(t, 100.0, x, 1e-9)
	assert.InDelta(t, 25.0, y, 1e-9)

	// A single point lands in the middle
	single := fit(r2.Box{Min: r2.Vec{X: 3, Y: 3}, Max: r2.Vec{X: 3, Y: 3}}, 0, 0, 40, 20, 5)
	px, py := single.projectInt(r2.Vec{X: 3, Y: 3})
	assert.Equal(t, 20, px)
	assert.Equal(t, 10, py)
}

func TestSVGRenderer(t *testing.T) {
	out, err := Generate(lineResult(t, 5), "svg")
	require.NoError(t, err)

	doc := string(out)
	assert.True(t, strings.HasPrefix(doc, "<?xml"))
	assert.Contains(t, doc, "<svg")
	assert.Equal(t, 3, strings.Count(doc, "<circle"))
	assert.Equal(t, 2, strings.Count(doc, "<line"))
	assert.Contains(t, doc, "Mean edge length:")
	assert.Contains(t, doc, ">B</text>")
}

func TestReportRenderer(t *testing.T) {
	out, err := Generate(lineResult(t, 12), "report")
	require.NoError(t, err)

	doc := string(out)
	for _, title := range []string{"Initial Positions", "Final Positions", "Net Force", "Attractive / Repelling Force"} {
		assert.Contains(t, doc, title)
	}
	// one net series plus an attractive and a repelling series per node
	assert.Equal(t, 9, strings.Count(doc, "<polyline"))
	assert.Equal(t, 6, strings.Count(doc, "<circle"))

	empty, err := Generate(lineResult(t, 0), "report")
	require.NoError(t, err)
	assert.Contains(t, string(empty), "no steps")
}

func TestASCIIRenderer(t *testing.T) {
	out, err := Generate(lineResult(t, 3), "ascii")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(string(out), "\n"), "\n")
	require.Len(t, lines, 30)
	for _, l := range lines {
		assert.Equal(t, 80, len([]rune(l)))
	}
	assert.Contains(t, lines[1], "forcegraph - line")
	assert.Contains(t, string(out), "OA")
	assert.Contains(t, string(out), "mean ")
}

func TestASCIIRendererMultiByteLabels(t *testing.T) {
	s := models.NewScenario("unicode")
	require.NoError(t, s.AddNodeAt("Ωμέγα", 0, 0))
	require.NoError(t, s.AddNodeAt("B", 10, 0))
	require.NoError(t, s.AddEdge("Ωμέγα", "B"))

	opts := simulate.DefaultOptions()
	opts.Physics.Steps = 1
	res, err := simulate.Run(context.Background(), s, opts)
	require.NoError(t, err)

	out, err := Generate(res, "ascii")
	require.NoError(t, err)
	assert.Contains(t, string(out), "OΩμέγα")
	for _, l := range strings.Split(strings.TrimSuffix(string(out), "\n"), "\n") {
		assert.Equal(t, 80, len([]rune(l)))
	}
}

func TestDOTRenderer(t *testing.T) {
	out, err := Generate(lineResult(t, 1), "dot")
	require.NoError(t, err)

	doc := string(out)
	assert.True(t, strings.HasPrefix(doc, "graph G {"))
	assert.Contains(t, doc, `"A" -- "B"`)
	assert.Contains(t, doc, `"B" -- "C"`)
	assert.NotContains(t, doc, "->")
}

func TestCSVRenderer(t *testing.T) {
	res := lineResult(t, 4)
	out, err := Generate(res, "csv")
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1+3*4)
	assert.Equal(t, CSVHeader, rows[0])
	assert.Equal(t, []string{"A", "0"}, rows[1][:2])
	assert.Equal(t, []string{"C", "3"}, rows[len(rows)-1][:2])
}

func TestJSONRenderer(t *testing.T) {
	res := lineResult(t, 2)
	out, err := Generate(res, "json")
	require.NoError(t, err)

	var decoded models.LayoutResult
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, res.ID, decoded.ID)
	assert.Equal(t, res.Nodes, decoded.Nodes)
	assert.Equal(t, res.Trace.Net, decoded.Trace.Net)
}
