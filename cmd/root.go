package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TFMV/forcegraph/cmd/app"
	"github.com/TFMV/forcegraph/cmd/run"
	"github.com/TFMV/forcegraph/cmd/serve"
	"github.com/TFMV/forcegraph/cmd/version"
	"github.com/TFMV/forcegraph/config"
)

var (
	configPath string
	debug      bool
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "forcegraph",
	Short: "Force-directed graph layout",
	Long: `forcegraph places the nodes of a graph in the plane by simulating
attraction along edges and repulsion between every pair of nodes.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// setup loads the configuration and logger for the running command
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := app.NewLogger(cfg.Logging, debug)
	if err != nil {
		return err
	}
	logger.Debug("configuration loaded", zap.Strings("sources", cfg.LoadedFrom))

	cmd.SetContext(app.WithApp(cmd.Context(), &app.App{Config: cfg, Logger: logger}))
	return nil
}

// Execute runs the root command until it finishes or the process is
// interrupted
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return RootCmd.ExecuteContext(ctx)
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML configuration file")
	RootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	RootCmd.AddCommand(
		run.Command(),
		serve.Command(),
		version.Command(),
	)
}
