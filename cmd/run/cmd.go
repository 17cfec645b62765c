package run

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TFMV/forcegraph/cmd/app"
	"github.com/TFMV/forcegraph/ingest"
	"github.com/TFMV/forcegraph/models"
	"github.com/TFMV/forcegraph/render"
	"github.com/TFMV/forcegraph/simulate"
)

// Flags holds the run command's options
type Flags struct {
	DataFile    string
	Format      string
	OutputFile  string
	Steps       int
	Backend     string
	Placement   string
	Seed        int64
	Nodes       int
	PerGroup    int
	ColorScheme string
	TraceSteps  int
	Dump        bool
}

var flags Flags

// Command creates the run command
func Command() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Lay out a graph and render the result",
		Long: `Lay out the graph read from --data, or the grouped demo topology when no
data file is given, and write it in the chosen format. An output of "-"
writes to stdout.`,
		Args: cobra.NoArgs,
		RunE: runLayout,
	}

	f := runCmd.Flags()
	f.StringVarP(&flags.DataFile, "data", "d", "", "Path to a data file (json, csv, log, txt)")
	f.StringVarP(&flags.Format, "format", "f", "", "Output format: svg, report, ascii, json, dot, csv")
	f.StringVarP(&flags.OutputFile, "output", "o", "", "Output file (defaults to 'output.[ext]')")
	f.IntVar(&flags.Steps, "steps", 0, "Simulation steps")
	f.StringVar(&flags.Backend, "backend", "", "Graph backend: set or matrix")
	f.StringVar(&flags.Placement, "placement", "", "Placement of unpositioned nodes: random or noise")
	f.Int64Var(&flags.Seed, "seed", 0, "Placement seed")
	f.IntVar(&flags.Nodes, "nodes", 0, "Node count of the demo topology")
	f.IntVar(&flags.PerGroup, "group", 0, "Group size of the demo topology")
	f.StringVar(&flags.ColorScheme, "color-scheme", "", "Color scheme: default or surreal")
	f.IntVar(&flags.TraceSteps, "trace-steps", 0, "Steps plotted by the report panels (0 keeps the defaults)")
	f.BoolVar(&flags.Dump, "dump", false, "Print the final adjacency to stderr")

	return runCmd
}

func runLayout(cmd *cobra.Command, args []string) error {
	a := app.FromContext(cmd.Context())
	defer func() { _ = a.Logger.Sync() }()

	if err := applyFlags(a, cmd, flags); err != nil {
		return err
	}
	return Execute(cmd.Context(), a, flags, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// applyFlags copies explicitly set flags over the loaded configuration
func applyFlags(a *app.App, cmd *cobra.Command, f Flags) error {
	cfg := a.Config
	changed := cmd.Flags().Changed

	if changed("steps") {
		cfg.Physics.Steps = f.Steps
	}
	if changed("backend") {
		cfg.Graph.Backend = f.Backend
	}
	if changed("placement") {
		cfg.Placement.Strategy = f.Placement
	}
	if changed("seed") {
		cfg.Placement.Seed = f.Seed
	}
	if changed("nodes") {
		cfg.Topology.Nodes = f.Nodes
	}
	if changed("group") {
		cfg.Topology.PerGroup = f.PerGroup
	}
	if changed("format") {
		cfg.Render.Format = f.Format
	}
	if changed("color-scheme") {
		cfg.Render.ColorScheme = f.ColorScheme
	}

	return cfg.Validate()
}

// Execute runs the layout described by the app configuration and writes the
// rendered output. stdout receives the output when f.OutputFile is "-"
func Execute(ctx context.Context, a *app.App, f Flags, stdout, stderr io.Writer) error {
	cfg := a.Config
	logger := a.Logger

	scenario, err := loadScenario(f.DataFile, a)
	if err != nil {
		return fmt.Errorf("failed to process input: %w", err)
	}

	placer, err := cfg.Placer()
	if err != nil {
		return err
	}

	opts := simulate.Options{
		Physics:  cfg.Physics,
		Backend:  cfg.Graph.Backend,
		Capacity: cfg.Graph.Capacity,
		Placer:   placer,
		Logger:   logger,
	}
	if f.Dump {
		opts.Dump = stderr
	}

	result, err := simulate.Run(ctx, scenario, opts)
	if err != nil {
		return fmt.Errorf("failed to apply layout: %w", err)
	}

	options := render.NewDefaultOptions(cfg.Render.Format)
	options.Width = cfg.Render.Width
	options.Height = cfg.Render.Height
	options.ColorScheme = cfg.Render.ColorScheme
	options.TraceSteps = f.TraceSteps

	output, err := render.GenerateWithOptions(result, options)
	if err != nil {
		return fmt.Errorf("rendering failed: %w", err)
	}

	path := f.OutputFile
	if path == "" {
		path = "output." + extension(cfg.Render.Format)
	}
	if path == "-" {
		_, err = stdout.Write(output)
		return err
	}

	if err := os.WriteFile(path, output, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	logger.Info("output written",
		zap.String("path", path),
		zap.String("format", cfg.Render.Format),
		zap.Int("bytes", len(output)),
	)
	return nil
}

// loadScenario reads the data file, or builds the demo topology without one
func loadScenario(path string, a *app.App) (*models.Scenario, error) {
	if path == "" {
		a.Logger.Debug("no data file, using grouped topology",
			zap.Int("nodes", a.Config.Topology.Nodes),
			zap.Int("per_group", a.Config.Topology.PerGroup),
		)
		return ingest.GroupedTopology(a.Config.Topology.Nodes, a.Config.Topology.PerGroup)
	}
	return ingest.ProcessFile(path)
}

// extension returns the default file extension of a format
func extension(format string) string {
	switch format {
	case "svg", "report":
		return "svg"
	case "ascii":
		return "txt"
	default:
		return format
	}
}
