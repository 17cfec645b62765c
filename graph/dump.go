package graph

import (
	"fmt"
	"io"
)

// Dump writes each node followed by its neighbors, one per line, in insertion
// order. Every listed neighbor is annotated with the HasEdge result so that a
// broken symmetry shows up as "false".
func Dump(g Graph, w io.Writer) error {
	for _, n := range g.Nodes() {
		if _, err := fmt.Fprintf(w, "%s (%.3f, %.3f):\n", n.ID, n.Position.X, n.Position.Y); err != nil {
			return err
		}
		for _, nb := range g.Neighbors(n.ID) {
			if _, err := fmt.Fprintf(w, "  %s %t\n", nb, g.HasEdge(n.ID, nb)); err != nil {
				return err
			}
		}
	}
	return nil
}
