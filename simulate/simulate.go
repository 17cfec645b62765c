// Package simulate wires ingest, placement, the layout engine and analysis
// into a single run
package simulate

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/TFMV/forcegraph/analysis"
	"github.com/TFMV/forcegraph/graph"
	"github.com/TFMV/forcegraph/ingest"
	"github.com/TFMV/forcegraph/models"
	"github.com/TFMV/forcegraph/physics"
)

// Options controls a pipeline run
type Options struct {
	Physics  physics.Config
	Backend  string
	Capacity int            // matrix backend only; <= 0 sizes to the scenario
	Placer   physics.Placer // nil uses the default random placer
	Logger   *zap.Logger
	Dump     io.Writer // receives the final adjacency dump when set
}

// DefaultOptions returns the set backend, the default constants and the
// default random placer
func DefaultOptions() Options {
	return Options{
		Physics: physics.DefaultConfig(),
		Backend: graph.BackendSet,
		Placer:  physics.NewRandomPlacer(physics.DefaultPlacementSeed),
		Logger:  zap.NewNop(),
	}
}

// Run lays out the scenario and returns the assembled result
func Run(ctx context.Context, s *models.Scenario, opts Options) (*models.LayoutResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	placer := opts.Placer
	if placer == nil {
		placer = physics.NewRandomPlacer(physics.DefaultPlacementSeed)
	}

	build, err := ingest.BuildGraph(s, opts.Backend, opts.Capacity)
	if err != nil {
		return nil, fmt.Errorf("error building graph: %w", err)
	}

	if err := placer.Place(build.Pending, build.Fixed); err != nil {
		return nil, fmt.Errorf("error placing nodes: %w", err)
	}

	res, err := physics.Simulate(ctx, build.Graph, opts.Physics, physics.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("error running layout: %w", err)
	}

	if opts.Dump != nil {
		if err := graph.Dump(build.Graph, opts.Dump); err != nil {
			return nil, fmt.Errorf("error dumping graph: %w", err)
		}
	}

	stats := analysis.EdgeLengthStats(build.Graph)
	result := models.NewLayoutResult(s.Name, build.Graph, res, stats)
	result.Backend = opts.Backend
	if result.Backend == "" {
		result.Backend = graph.BackendSet
	}

	logger.Info("layout complete",
		zap.String("id", result.ID),
		zap.String("name", result.Name),
		zap.String("backend", result.Backend),
		zap.Int("nodes", build.Graph.Len()),
		zap.Int("edges", build.Graph.EdgeCount()),
		zap.Int("steps", result.StepsRun),
		zap.Duration("duration", result.Duration),
		zap.Float64("mean_edge_length", stats.Mean),
		zap.Float64("std_edge_length", stats.StdDev),
	)
	return result, nil
}
