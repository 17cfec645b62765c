package render

import (
	"bytes"
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"
	"gonum.org/v1/gonum/floats"

	"github.com/TFMV/forcegraph/models"
)

// Default step windows of the trace panels
const (
	reportNetSteps   = 10
	reportForceSteps = 20
)

// ReportRenderer outputs the four-panel results figure as SVG
type ReportRenderer struct{}

// Name returns the name of the renderer
func (r *ReportRenderer) Name() string {
	return "Report Renderer"
}

// Description returns a description of the renderer
func (r *ReportRenderer) Description() string {
	return "Renders initial and final positions plus net, attractive and repelling force traces as one SVG figure"
}

// panel is one quadrant of the figure
type panel struct {
	x, y, w, h float64
}

func (p panel) plot(margin float64) panel {
	return panel{x: p.x + margin, y: p.y + margin, w: p.w - 2*margin, h: p.h - 2*margin}
}

// Render draws the 2x2 figure
func (r *ReportRenderer) Render(result *models.LayoutResult, options *OutputOptions) ([]byte, error) {
	if result.Trace == nil {
		return nil, fmt.Errorf("layout %s carries no trace", result.ID)
	}
	w, h := int(options.Width), int(options.Height)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", w, h)
	}

	var buf bytes.Buffer
	palette := GetPalette(options.ColorScheme)
	canvas := svg.New(&buf)
	canvas.Start(w, h)
	canvas.Title(result.Name)
	canvas.Rect(0, 0, w, h, "fill:"+palette.Background)

	pw, ph := options.Width/2, options.Height/2
	quads := [4]panel{
		{0, 0, pw, ph},
		{pw, 0, pw, ph},
		{0, ph, pw, ph},
		{pw, ph, pw, ph},
	}
	margin := math.Max(options.Margin, 24)

	// Initial and final positions
	for i, initial := range []bool{true, false} {
		q := quads[i]
		title := "Initial Positions"
		if !initial {
			title = "Final Positions"
		}
		r.frame(canvas, q, title, palette, options)
		vp := fit(result.Bounds(initial), q.x, q.y, q.w, q.h, margin)
		drawLayout(canvas, result, vp, palette, options, initial)
	}
	if options.ShowStats && result.Stats.Count > 0 {
		q := quads[1]
		for i, line := range statsText(result) {
			canvas.Text(int(q.x+q.w-8), int(q.y+q.h-8)-(1-i)*int(options.FontSize+4), line,
				fmt.Sprintf("font-family:sans-serif;font-size:%gpx;text-anchor:end;fill:%s", options.FontSize, palette.TextColor))
		}
	}

	// Force traces
	netSteps, forceSteps := reportNetSteps, reportForceSteps
	if options.TraceSteps > 0 {
		netSteps, forceSteps = options.TraceSteps, options.TraceSteps
	}

	r.frame(canvas, quads[2], "Net Force", palette, options)
	r.series(canvas, quads[2].plot(margin), result.Trace.Net, nil, netSteps, palette, options)

	r.frame(canvas, quads[3], "Attractive / Repelling Force", palette, options)
	r.series(canvas, quads[3].plot(margin), result.Trace.Attractive, result.Trace.Repelling, forceSteps, palette, options)

	canvas.End()
	return buf.Bytes(), nil
}

// frame draws a panel border and its title
func (r *ReportRenderer) frame(canvas *svg.SVG, q panel, title string, palette *Palette, options *OutputOptions) {
	canvas.Rect(int(q.x)+2, int(q.y)+2, int(q.w)-4, int(q.h)-4, "fill:none;stroke:#cccccc")
	canvas.Text(int(q.x+q.w/2), int(q.y)+int(options.FontSize)+6, title,
		fmt.Sprintf("font-family:sans-serif;font-size:%gpx;text-anchor:middle;fill:%s", options.FontSize+2, palette.TextColor))
}

// series plots one polyline per node over the first steps of solid, and of
// dashed when given. Both share the y scale
func (r *ReportRenderer) series(canvas *svg.SVG, area panel, solid, dashed [][]float64, steps int, palette *Palette, options *OutputOptions) {
	if len(solid) == 0 || len(solid[0]) == 0 {
		canvas.Text(int(area.x+area.w/2), int(area.y+area.h/2), "no steps",
			fmt.Sprintf("font-family:sans-serif;font-size:%gpx;text-anchor:middle;fill:%s", options.FontSize, palette.TextColor))
		return
	}
	steps = min(steps, len(solid[0]))

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, rows := range [][][]float64{solid, dashed} {
		for _, row := range rows {
			lo = math.Min(lo, floats.Min(row[:steps]))
			hi = math.Max(hi, floats.Max(row[:steps]))
		}
	}
	if lo == hi {
		lo, hi = lo-1, hi+1
	}

	// Step 0 maps to the left edge, the last plotted step to the right edge
	xSpan := math.Max(float64(steps-1), 1)
	project := func(step int, v float64) (int, int) {
		x := area.x + float64(step)/xSpan*area.w
		y := area.y + area.h - (v-lo)/(hi-lo)*area.h
		return int(math.Round(x)), int(math.Round(y))
	}

	// Zero line
	if lo < 0 && hi > 0 {
		_, zy := project(0, 0)
		canvas.Line(int(area.x), zy, int(area.x+area.w), zy, "stroke:#bbbbbb;stroke-dasharray:2,2")
	}

	draw := func(rows [][]float64, style string) {
		for i, row := range rows {
			xs, ys := make([]int, steps), make([]int, steps)
			for s := 0; s < steps; s++ {
				xs[s], ys[s] = project(s, row[s])
			}
			canvas.Polyline(xs, ys, fmt.Sprintf("fill:none;stroke:%s;stroke-width:1%s", palette.nodeColor(i), style))
		}
	}
	draw(solid, "")
	if dashed != nil {
		draw(dashed, ";stroke-dasharray:4,2")
	}

	label := fmt.Sprintf("font-family:sans-serif;font-size:%gpx;fill:%s", options.FontSize-1, palette.TextColor)
	canvas.Text(int(area.x), int(area.y+area.h)+int(options.FontSize)+2, "Sim Step", label)
	canvas.Text(int(area.x), int(area.y)-2, fmt.Sprintf("%.3g .. %.3g", lo, hi), label)
}
