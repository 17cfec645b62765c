package render

import (
	"bytes"
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/TFMV/forcegraph/models"
)

// SVGRenderer outputs SVG format
type SVGRenderer struct{}

// Name returns the name of the renderer
func (r *SVGRenderer) Name() string {
	return "SVG Renderer"
}

// Description returns a description of the renderer
func (r *SVGRenderer) Description() string {
	return "Renders the final layout as Scalable Vector Graphics (SVG)"
}

// Render draws the final positions, fitted to the canvas
func (r *SVGRenderer) Render(result *models.LayoutResult, options *OutputOptions) ([]byte, error) {
	var buf bytes.Buffer
	w, h := int(options.Width), int(options.Height)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", w, h)
	}

	palette := GetPalette(options.ColorScheme)
	background := options.Background
	if options.ColorScheme == "surreal" || background == "" {
		background = palette.Background
	}

	canvas := svg.New(&buf)
	canvas.Start(w, h)
	canvas.Title(result.Name)
	canvas.Rect(0, 0, w, h, "fill:"+background)

	vp := fit(result.Bounds(false), 0, 0, options.Width, options.Height, options.Margin)
	drawLayout(canvas, result, vp, palette, options, false)

	if options.ShowStats && result.Stats.Count > 0 {
		size := int(options.FontSize)
		for i, line := range statsText(result) {
			canvas.Text(w-10, h-10-(1-i)*(size+4), line,
				fmt.Sprintf("font-family:sans-serif;font-size:%dpx;text-anchor:end;fill:%s", size, palette.TextColor))
		}
	}

	canvas.End()
	return buf.Bytes(), nil
}

// drawLayout draws edges then nodes, at their initial or final positions
func drawLayout(canvas *svg.SVG, result *models.LayoutResult, vp viewport, palette *Palette, options *OutputOptions, initial bool) {
	pos := func(n models.NodeState) models.Point {
		if initial {
			return n.Initial
		}
		return n.Final
	}
	index := nodeIndex(result)

	canvas.Gstyle(fmt.Sprintf("stroke:%s;stroke-width:%g;stroke-opacity:0.8", palette.EdgeColor, options.EdgeWidth))
	for _, e := range result.Edges {
		src, dst := result.Nodes[index[e.Source]], result.Nodes[index[e.Target]]
		x1, y1 := vp.projectInt(pos(src).Vec())
		x2, y2 := vp.projectInt(pos(dst).Vec())
		canvas.Line(x1, y1, x2, y2)
	}
	canvas.Gend()

	radius := max(int(math.Round(options.NodeSize)), 1)
	for i, n := range result.Nodes {
		x, y := vp.projectInt(pos(n).Vec())
		canvas.Circle(x, y, radius, fmt.Sprintf("fill:%s;stroke:#ffffff;stroke-width:1", palette.nodeColor(i)))
		if options.ShowLabels {
			canvas.Text(x+radius+2, y-radius-2, n.ID,
				fmt.Sprintf("font-family:sans-serif;font-size:%gpx;fill:%s", options.FontSize, palette.TextColor))
		}
	}
}
