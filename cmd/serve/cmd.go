package serve

import (
	"github.com/spf13/cobra"

	"github.com/TFMV/forcegraph/cmd/app"
	"github.com/TFMV/forcegraph/server"
)

var port int

// Command creates the serve command
func Command() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (overrides server.port)")

	return serveCmd
}

func runServe(cmd *cobra.Command, args []string) error {
	a := app.FromContext(cmd.Context())
	defer func() { _ = a.Logger.Sync() }()

	if cmd.Flags().Changed("port") {
		a.Config.Server.Port = port
		if err := a.Config.Validate(); err != nil {
			return err
		}
	}

	return server.New(a.Config, a.Logger, nil).Start(cmd.Context())
}
