package render

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/TFMV/forcegraph/models"
)

// OutputOptions defines rendering configuration options
type OutputOptions struct {
	Format      string  // Output format (svg, report, ascii, json, dot, csv)
	Width       float64 // Width of the output
	Height      float64 // Height of the output
	Background  string  // Background color
	Margin      float64 // Space kept free around the plotted layout
	NodeSize    float64 // Node radius
	EdgeWidth   float64 // Default edge width
	FontSize    float64 // Font size for labels
	ShowLabels  bool    // Show node labels
	ShowStats   bool    // Print edge-length mean and std
	ColorScheme string  // Color scheme (default, surreal)
	TraceSteps  int     // Steps plotted in report trace panels, 0 for all
}

// Renderer interface defines methods that all rendering backends must implement
type Renderer interface {
	// Render creates a visualization of the layout using the provided options
	Render(result *models.LayoutResult, options *OutputOptions) ([]byte, error)

	// Name returns the name of the renderer
	Name() string

	// Description returns a description of the renderer
	Description() string
}

// NewDefaultOptions creates a default set of output options
func NewDefaultOptions(format string) *OutputOptions {
	return &OutputOptions{
		Format:      format,
		Width:       800,
		Height:      600,
		Background:  "#f8f8f8",
		Margin:      40,
		NodeSize:    6,
		EdgeWidth:   1,
		FontSize:    10,
		ShowLabels:  true,
		ShowStats:   true,
		ColorScheme: "default",
	}
}

// Formats lists the names accepted by GetRenderer
var Formats = []string{"svg", "report", "ascii", "json", "dot", "csv"}

// GetRenderer returns the appropriate renderer based on format
func GetRenderer(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "svg":
		return &SVGRenderer{}, nil
	case "report":
		return &ReportRenderer{}, nil
	case "ascii":
		return &ASCIIRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	case "dot":
		return &DOTRenderer{}, nil
	case "csv":
		return &CSVRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// ContentType returns the MIME type of a rendered format
func ContentType(format string) string {
	switch strings.ToLower(format) {
	case "svg", "report":
		return "image/svg+xml"
	case "json":
		return "application/json"
	case "csv":
		return "text/csv"
	case "dot":
		return "text/vnd.graphviz"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Generate renders a layout result with default options
func Generate(result *models.LayoutResult, format string) ([]byte, error) {
	return GenerateWithOptions(result, NewDefaultOptions(format))
}

// GenerateWithOptions renders a layout result with specific output options
func GenerateWithOptions(result *models.LayoutResult, options *OutputOptions) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("nothing to render")
	}
	if options == nil {
		options = NewDefaultOptions("svg")
	}

	renderer, err := GetRenderer(options.Format)
	if err != nil {
		return nil, err
	}

	output, err := renderer.Render(result, options)
	if err != nil {
		return nil, fmt.Errorf("error rendering %s: %w", renderer.Name(), err)
	}
	return output, nil
}

// Palette provides color schemes for layout visualization
type Palette struct {
	NodeColors []string
	EdgeColor  string
	TextColor  string
	Background string
}

// DefaultPalette returns a default color palette with vibrant colors
func DefaultPalette() *Palette {
	return &Palette{
		NodeColors: []string{
			"#4285F4", // Google Blue
			"#EA4335", // Google Red
			"#FBBC05", // Google Yellow
			"#34A853", // Google Green
			"#673AB7", // Purple
			"#3F51B5", // Indigo
			"#00BCD4", // Cyan
			"#009688", // Teal
			"#FF5722", // Deep Orange
		},
		EdgeColor:  "#666666",
		TextColor:  "#333333",
		Background: "#f8f8f8",
	}
}

// SurrealPalette returns a surrealist-inspired color palette
func SurrealPalette() *Palette {
	return &Palette{
		NodeColors: []string{
			"#FF6D00", // Amber
			"#2979FF", // Blue
			"#00E676", // Green
			"#F50057", // Pink
			"#651FFF", // Deep Purple
			"#C6FF00", // Lime
			"#FF3D00", // Deep Orange
			"#00B0FF", // Light Blue
			"#76FF03", // Light Green
		},
		EdgeColor:  "#9C27B0",
		TextColor:  "#EEEEEE",
		Background: "#212121", // Dark background for contrast
	}
}

// GetPalette returns the palette for a color scheme name
func GetPalette(scheme string) *Palette {
	if strings.EqualFold(scheme, "surreal") {
		return SurrealPalette()
	}
	return DefaultPalette()
}

// nodeColor picks a color by node index
func (p *Palette) nodeColor(i int) string {
	return p.NodeColors[i%len(p.NodeColors)]
}

// viewport maps layout coordinates into a canvas rectangle. The layout's
// y axis points up, the canvas' points down
type viewport struct {
	center r2.Vec // layout point drawn at the middle of the rectangle
	mid    r2.Vec // middle of the rectangle on the canvas
	scale  float64
}

// fit scales box uniformly into the rectangle at (x, y) of size w x h,
// leaving margin on each side
func fit(box r2.Box, x, y, w, h, margin float64) viewport {
	size := box.Size()
	innerW := math.Max(w-2*margin, 1)
	innerH := math.Max(h-2*margin, 1)

	scale := 1.0
	switch {
	case size.X > 0 && size.Y > 0:
		scale = math.Min(innerW/size.X, innerH/size.Y)
	case size.X > 0:
		scale = innerW / size.X
	case size.Y > 0:
		scale = innerH / size.Y
	}

	return viewport{
		center: box.Center(),
		mid:    r2.Vec{X: x + w/2, Y: y + h/2},
		scale:  scale,
	}
}

// project returns canvas coordinates for a layout point
func (v viewport) project(p r2.Vec) (float64, float64) {
	return v.mid.X + (p.X-v.center.X)*v.scale, v.mid.Y - (p.Y-v.center.Y)*v.scale
}

// projectInt is project rounded for integer-only drawing APIs
func (v viewport) projectInt(p r2.Vec) (int, int) {
	x, y := v.project(p)
	return int(math.Round(x)), int(math.Round(y))
}

// nodeIndex maps node ids to their position in result.Nodes
func nodeIndex(result *models.LayoutResult) map[string]int {
	index := make(map[string]int, len(result.Nodes))
	for i, n := range result.Nodes {
		index[n.ID] = i
	}
	return index
}

// statsText is the edge-length summary printed under layouts
func statsText(result *models.LayoutResult) []string {
	return []string{
		fmt.Sprintf("Mean edge length: %.2f", result.Stats.Mean),
		fmt.Sprintf("Edge length STD: %.2f", result.Stats.StdDev),
	}
}

// Clamp a value between lo and hi
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// Absolute value of an integer
func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
