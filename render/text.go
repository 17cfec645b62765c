package render

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/TFMV/forcegraph/models"
)

// JSONRenderer outputs raw JSON format
type JSONRenderer struct{}

// Name returns the name of the renderer
func (r *JSONRenderer) Name() string {
	return "JSON Renderer"
}

// Description returns a description of the renderer
func (r *JSONRenderer) Description() string {
	return "Renders the full layout result, trace included, as JSON for machine consumption"
}

// Render marshals the layout result
func (r *JSONRenderer) Render(result *models.LayoutResult, options *OutputOptions) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}

// DOTRenderer outputs Graphviz DOT format
type DOTRenderer struct{}

// Name returns the name of the renderer
func (r *DOTRenderer) Name() string {
	return "DOT Renderer"
}

// Description returns a description of the renderer
func (r *DOTRenderer) Description() string {
	return "Renders the layout as an undirected Graphviz graph with pinned positions"
}

// Render creates a DOT representation of the layout. Positions are pinned so
// `neato -n` reproduces the computed layout
func (r *DOTRenderer) Render(result *models.LayoutResult, options *OutputOptions) ([]byte, error) {
	var buf bytes.Buffer
	palette := GetPalette(options.ColorScheme)

	buf.WriteString("graph G {\n")
	buf.WriteString(fmt.Sprintf("  graph [bgcolor=%q, label=%q];\n", palette.Background, result.Name))
	buf.WriteString(fmt.Sprintf("  node [shape=circle, fontname=\"Arial\", fontsize=%g];\n", options.FontSize))

	for i, n := range result.Nodes {
		buf.WriteString(fmt.Sprintf("  %q [color=%q, pos=\"%g,%g!\"];\n",
			n.ID, palette.nodeColor(i), n.Final.X, n.Final.Y))
	}

	for _, e := range result.Edges {
		buf.WriteString(fmt.Sprintf("  %q -- %q [color=%q, len=%g];\n",
			e.Source, e.Target, palette.EdgeColor, e.Length))
	}

	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// CSVRenderer outputs the force trace in long format
type CSVRenderer struct{}

// Name returns the name of the renderer
func (r *CSVRenderer) Name() string {
	return "CSV Renderer"
}

// Description returns a description of the renderer
func (r *CSVRenderer) Description() string {
	return "Renders the per-step force trace as CSV, one row per node and step"
}

// CSVHeader is the first row of CSVRenderer output
var CSVHeader = []string{"node", "step", "attractive", "repelling", "net", "x", "y"}

// Render writes one row per node and step
func (r *CSVRenderer) Render(result *models.LayoutResult, options *OutputOptions) ([]byte, error) {
	if result.Trace == nil {
		return nil, fmt.Errorf("layout %s carries no trace", result.ID)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(CSVHeader); err != nil {
		return nil, err
	}

	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	tr := result.Trace
	for i, n := range result.Nodes {
		for s := 0; s < tr.Steps(); s++ {
			row := []string{
				n.ID,
				strconv.Itoa(s),
				f(tr.Attractive[i][s]),
				f(tr.Repelling[i][s]),
				f(tr.Net[i][s]),
				f(tr.X[i][s]),
				f(tr.Y[i][s]),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("error writing CSV: %w", err)
	}
	return buf.Bytes(), nil
}
