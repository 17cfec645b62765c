package render

import (
	"fmt"
	"strings"

	"github.com/TFMV/forcegraph/models"
)

// ASCIIRenderer outputs ASCII art format
type ASCIIRenderer struct{}

// Name returns the name of the renderer
func (r *ASCIIRenderer) Name() string {
	return "ASCII Renderer"
}

// Description returns a description of the renderer
func (r *ASCIIRenderer) Description() string {
	return "Renders the final layout as ASCII art for terminal or text-based output"
}

// Symbols drawn for nodes, cycled by node index
var nodeSymbols = []rune{'O', '@', '#', 'X', '*', '+'}

const edgeSymbol = '.'

// Render creates an ASCII representation of the layout
func (r *ASCIIRenderer) Render(result *models.LayoutResult, options *OutputOptions) ([]byte, error) {
	// Calculate dimensions based on options
	width := int(options.Width / 10)   // Scale down for ASCII
	height := int(options.Height / 20) // Scale down with adjustment for aspect ratio

	// Ensure minimum size
	width = max(width, 40)
	height = max(height, 20)

	// Create a grid for ASCII art
	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	// Draw a border around the layout
	for i := 0; i < width; i++ {
		grid[0][i] = '-'
		grid[height-1][i] = '-'
	}
	for i := 0; i < height; i++ {
		grid[i][0] = '|'
		grid[i][width-1] = '|'
	}
	grid[0][0] = '+'
	grid[0][width-1] = '+'
	grid[height-1][0] = '+'
	grid[height-1][width-1] = '+'

	// Inner area, one cell margin inside the border plus a title row
	vp := fit(result.Bounds(false), 1, 2, float64(width-2), float64(height-4), 1)
	cell := func(n models.NodeState) (int, int) {
		x, y := vp.projectInt(n.Final.Vec())
		return clamp(x, 1, width-2), clamp(y, 2, height-3)
	}

	// Draw edges
	index := nodeIndex(result)
	for _, e := range result.Edges {
		x1, y1 := cell(result.Nodes[index[e.Source]])
		x2, y2 := cell(result.Nodes[index[e.Target]])
		drawLine(grid, x1, y1, x2, y2)
	}

	// Draw nodes
	for i, n := range result.Nodes {
		x, y := cell(n)
		grid[y][x] = nodeSymbols[i%len(nodeSymbols)]

		// Label to the right of the node, clipped at the border
		if options.ShowLabels {
			col := x + 1
			for _, c := range n.ID {
				if col >= width-1 {
					break
				}
				grid[y][col] = c
				col++
			}
		}
	}

	title := fmt.Sprintf("forcegraph - %s", result.Name)
	if len(title) < width-4 {
		for i, c := range title {
			grid[1][i+2] = c
		}
	}

	if options.ShowStats && result.Stats.Count > 0 {
		summary := fmt.Sprintf("mean %.2f  std %.2f", result.Stats.Mean, result.Stats.StdDev)
		if len(summary) < width-4 {
			for i, c := range summary {
				grid[height-2][i+2] = c
			}
		}
	}

	// Convert grid to string
	var out strings.Builder
	for _, row := range grid {
		out.WriteString(string(row))
		out.WriteRune('\n')
	}

	return []byte(out.String()), nil
}

// isNodeSymbol reports whether c marks a node
func isNodeSymbol(c rune) bool {
	for _, s := range nodeSymbols {
		if c == s {
			return true
		}
	}
	return false
}

// Draw a line on the ASCII grid using Bresenham's algorithm
func drawLine(grid [][]rune, x1, y1, x2, y2 int) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx := 1
	if x1 >= x2 {
		sx = -1
	}
	sy := 1
	if y1 >= y2 {
		sy = -1
	}
	err := dx + dy

	for {
		if y1 >= 0 && y1 < len(grid) && x1 >= 0 && x1 < len(grid[y1]) && !isNodeSymbol(grid[y1][x1]) {
			grid[y1][x1] = edgeSymbol
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			err += dx
			y1 += sy
		}
	}
}
