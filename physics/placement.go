package physics

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	opensimplex "github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/TFMV/forcegraph/graph"
)

// Default placement window: integer points in [320,340) x [240,260)
const (
	DefaultPlacementX    = 320
	DefaultPlacementY    = 240
	DefaultPlacementSpan = 20
	DefaultPlacementSeed = 10
)

// Placer assigns starting positions to nodes that have none. Positions of
// fixed nodes are already set and must not be reused
type Placer interface {
	Place(pending, fixed []*graph.Node) error
}

// RandomPlacer draws integer grid points from a square window with a seeded
// generator, redrawing on collision
type RandomPlacer struct {
	Origin r2.Vec
	Span   int
	Seed   int64
}

// NewRandomPlacer returns a RandomPlacer over the default window
func NewRandomPlacer(seed int64) RandomPlacer {
	return RandomPlacer{
		Origin: r2.Vec{X: DefaultPlacementX, Y: DefaultPlacementY},
		Span:   DefaultPlacementSpan,
		Seed:   seed,
	}
}

// Place implements Placer
func (p RandomPlacer) Place(pending, fixed []*graph.Node) error {
	if len(pending) == 0 {
		return nil
	}
	if p.Span <= 0 {
		return fmt.Errorf("%w: span must be positive, got %d", ErrInvalidConfig, p.Span)
	}

	occupied := occupiedSet(fixed)
	inWindow := 0
	for pos := range occupied {
		if p.onGrid(pos) {
			inWindow++
		}
	}
	if free := p.Span*p.Span - inWindow; len(pending) > free {
		return fmt.Errorf("%w: %d nodes, %d free cells", ErrPlacementExhausted, len(pending), free)
	}

	rng := rand.New(rand.NewSource(p.Seed))
	for _, n := range pending {
		for {
			pos := r2.Vec{
				X: p.Origin.X + float64(rng.Intn(p.Span)),
				Y: p.Origin.Y + float64(rng.Intn(p.Span)),
			}
			if _, taken := occupied[pos]; !taken {
				occupied[pos] = struct{}{}
				n.Position = pos
				break
			}
		}
	}
	return nil
}

func (p RandomPlacer) onGrid(pos r2.Vec) bool {
	dx, dy := pos.X-p.Origin.X, pos.Y-p.Origin.Y
	span := float64(p.Span)
	return dx >= 0 && dy >= 0 && dx < span && dy < span &&
		dx == math.Trunc(dx) && dy == math.Trunc(dy)
}

// NoisePlacer samples a continuous simplex noise field, which spreads nodes
// more evenly than uniform draws while staying deterministic per seed
type NoisePlacer struct {
	Origin r2.Vec
	Span   float64
	Seed   int64
	Scale  float64 // sampling frequency along the noise field
}

// maxNoiseAttempts bounds redraws per node before giving up
const maxNoiseAttempts = 1000

// NewNoisePlacer returns a NoisePlacer over the default window
func NewNoisePlacer(seed int64) NoisePlacer {
	return NoisePlacer{
		Origin: r2.Vec{X: DefaultPlacementX, Y: DefaultPlacementY},
		Span:   DefaultPlacementSpan,
		Seed:   seed,
		Scale:  0.37,
	}
}

// Place implements Placer
func (p NoisePlacer) Place(pending, fixed []*graph.Node) error {
	if len(pending) == 0 {
		return nil
	}
	if p.Span <= 0 || p.Scale <= 0 {
		return fmt.Errorf("%w: span and scale must be positive", ErrInvalidConfig)
	}

	noise := opensimplex.NewNormalized(p.Seed)
	occupied := occupiedSet(fixed)

	sample := 0
	for _, n := range pending {
		placed := false
		for attempt := 0; attempt < maxNoiseAttempts; attempt++ {
			t := float64(sample) * p.Scale
			sample++

			// Offset the second axis so x and y decorrelate
			pos := r2.Vec{
				X: p.Origin.X + p.Span*noise.Eval2(t, 0.5),
				Y: p.Origin.Y + p.Span*noise.Eval2(t+100, 0.5),
			}
			if _, taken := occupied[pos]; taken {
				continue
			}
			occupied[pos] = struct{}{}
			n.Position = pos
			placed = true
			break
		}
		if !placed {
			return fmt.Errorf("%w: node %s", ErrPlacementExhausted, n.ID)
		}
	}
	return nil
}

func occupiedSet(nodes []*graph.Node) map[r2.Vec]struct{} {
	occupied := make(map[r2.Vec]struct{}, len(nodes))
	for _, n := range nodes {
		occupied[n.Position] = struct{}{}
	}
	return occupied
}

// NewPlacer returns a placer by strategy name using the default window
func NewPlacer(strategy string, seed int64) (Placer, error) {
	switch strings.ToLower(strategy) {
	case "", "random":
		return NewRandomPlacer(seed), nil
	case "noise":
		return NewNoisePlacer(seed), nil
	default:
		return nil, fmt.Errorf("unsupported placement strategy: %s", strategy)
	}
}
