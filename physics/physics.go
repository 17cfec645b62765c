// Package physics implements a spring-electrical layout: connected nodes
// attract logarithmically, every pair repels by an inverse square law, and
// positions advance by explicit Euler integration for a fixed step count
package physics

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/TFMV/forcegraph/graph"
)

// LayoutAlgorithm defines an interface for layout algorithms
type LayoutAlgorithm interface {
	Initialize(g graph.Graph) error
	Step() error
	Done() bool
	Result() *Result
	GetName() string
}

// Option configures a ForceLayout
type Option func(*ForceLayout)

// WithLogger sets the logger used for per-step diagnostics
func WithLogger(logger *zap.Logger) Option {
	return func(fl *ForceLayout) {
		if logger != nil {
			fl.logger = logger
		}
	}
}

// ForceLayout runs the force model over a graph. Each step computes every
// node's net force from the positions held at step start, then moves all
// nodes at once
type ForceLayout struct {
	mu     sync.Mutex
	cfg    Config
	logger *zap.Logger

	g        graph.Graph
	nodes    []*graph.Node
	snapshot []r2.Vec // positions at the start of the current step
	next     []r2.Vec // positions at the end of the current step
	initial  []r2.Vec
	trace    *Trace
	step     int
	ready    bool
}

// NewForceLayout creates a layout with the given constants
func NewForceLayout(cfg Config, opts ...Option) *ForceLayout {
	fl := &ForceLayout{
		cfg:    cfg,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(fl)
	}
	return fl
}

// GetName returns the name of the layout algorithm
func (fl *ForceLayout) GetName() string {
	return "Force-Directed Layout"
}

// Config returns the constants in use
func (fl *ForceLayout) Config() Config {
	return fl.cfg
}

// Initialize binds the layout to g, checks that no two nodes share a
// starting position, and allocates the trace. Nodes added to g afterwards
// are not seen by this layout
func (fl *ForceLayout) Initialize(g graph.Graph) error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	fl.ready = false
	if err := fl.cfg.Validate(); err != nil {
		return err
	}

	nodes := g.Nodes()
	if err := checkTraceSize(len(nodes), fl.cfg.Steps); err != nil {
		return err
	}

	seen := make(map[r2.Vec]string, len(nodes))
	initial := make([]r2.Vec, len(nodes))
	for i, n := range nodes {
		if !finite(n.Position) {
			return fmt.Errorf("%w: node %s starts at %v", ErrNonFinite, n.ID, n.Position)
		}
		if other, dup := seen[n.Position]; dup {
			return fmt.Errorf("%w: %s and %s at (%g, %g)", ErrDuplicatePosition, other, n.ID, n.Position.X, n.Position.Y)
		}
		seen[n.Position] = n.ID
		initial[i] = n.Position
	}

	fl.g = g
	fl.nodes = nodes
	fl.initial = initial
	fl.snapshot = make([]r2.Vec, len(nodes))
	fl.next = make([]r2.Vec, len(nodes))
	fl.trace = NewTrace(len(nodes), fl.cfg.Steps)
	fl.step = 0
	fl.ready = true

	fl.logger.Debug("layout initialized",
		zap.Int("nodes", len(nodes)),
		zap.Int("edges", g.EdgeCount()),
		zap.Int("steps", fl.cfg.Steps),
	)
	return nil
}

// checkTraceSize rejects runs whose trace would exceed MaxTraceCells
func checkTraceSize(nodes, steps int) error {
	if steps > 0 && nodes > MaxTraceCells/steps {
		return fmt.Errorf("%w: %d nodes x %d steps exceeds the trace limit of %d cells", ErrInvalidConfig, nodes, steps, MaxTraceCells)
	}
	return nil
}

// Done reports whether every configured step has run
func (fl *ForceLayout) Done() bool {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	return fl.ready && fl.step >= fl.cfg.Steps
}

// Step performs one iteration. On error no node has moved and the trace
// column for the failed step is left incomplete
func (fl *ForceLayout) Step() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if !fl.ready {
		return ErrNotInitialized
	}
	if fl.step >= fl.cfg.Steps {
		return ErrLayoutComplete
	}

	for i, n := range fl.nodes {
		fl.snapshot[i] = n.Position
	}

	var maxNet float64
	for i, src := range fl.nodes {
		var (
			net        r2.Vec
			attractive float64
			repelling  float64
		)
		for j, dst := range fl.nodes {
			if i == j {
				continue
			}
			c, err := fl.cfg.pairForce(fl.snapshot[i], fl.snapshot[j], fl.g.HasEdge(src.ID, dst.ID))
			if err != nil {
				return fmt.Errorf("step %d, %s and %s: %w", fl.step, src.ID, dst.ID, err)
			}
			net = r2.Add(net, c.vec)
			attractive += c.attractive
			repelling += c.repelling
		}

		magnitude := r2.Norm(net)
		fl.trace.record(i, fl.step, attractive, repelling, magnitude)
		if magnitude > maxNet {
			maxNet = magnitude
		}

		fl.next[i] = r2.Add(fl.snapshot[i], r2.Scale(fl.cfg.Speed, net))
		if !finite(fl.next[i]) {
			return fmt.Errorf("step %d, node %s: %w", fl.step, src.ID, ErrNonFinite)
		}
	}

	// Apply phase
	for i, n := range fl.nodes {
		n.Position = fl.next[i]
		fl.trace.recordPosition(i, fl.step, n.Position)
	}

	if ce := fl.logger.Check(zap.DebugLevel, "layout step"); ce != nil {
		ce.Write(zap.Int("step", fl.step), zap.Float64("max_net_force", maxNet))
	}
	fl.step++
	return nil
}

// Result returns the current state. It may be called before the layout is
// done, in which case Final holds the positions after the last completed step
func (fl *ForceLayout) Result() *Result {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	res := &Result{
		Config:   fl.cfg,
		Trace:    fl.trace,
		StepsRun: fl.step,
		Labels:   make([]string, len(fl.nodes)),
		Initial:  append([]r2.Vec(nil), fl.initial...),
		Final:    make([]r2.Vec, len(fl.nodes)),
	}
	for i, n := range fl.nodes {
		res.Labels[i] = n.ID
		res.Final[i] = n.Position
	}
	return res
}

// Run initializes the layout on g and steps it to completion. The context
// is checked between steps
func (fl *ForceLayout) Run(ctx context.Context, g graph.Graph) (*Result, error) {
	if err := fl.Initialize(g); err != nil {
		return nil, err
	}

	start := time.Now()
	for !fl.Done() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("layout interrupted at step %d: %w", fl.Result().StepsRun, err)
		}
		if err := fl.Step(); err != nil {
			fl.logger.Warn("layout aborted", zap.Error(err))
			return nil, err
		}
	}

	res := fl.Result()
	res.Elapsed = time.Since(start)
	fl.logger.Debug("layout complete",
		zap.Int("steps", res.StepsRun),
		zap.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}

// Simulate runs cfg.Steps steps of the force model over g
func Simulate(ctx context.Context, g graph.Graph, cfg Config, opts ...Option) (*Result, error) {
	return NewForceLayout(cfg, opts...).Run(ctx, g)
}

// GetLayoutAlgorithm returns a layout algorithm by name
func GetLayoutAlgorithm(name string, cfg Config, opts ...Option) (LayoutAlgorithm, error) {
	switch strings.ToLower(name) {
	case "", "force":
		return NewForceLayout(cfg, opts...), nil
	default:
		return nil, fmt.Errorf("unsupported layout algorithm: %s", name)
	}
}
