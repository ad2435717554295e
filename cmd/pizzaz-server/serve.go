package main

import (
	"github.com/spf13/cobra"

	pizzaz "github.com/wagiedev/pizzaz-mcp-go"
)

func newServeCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, flags)
		},
	}
}

// runServe serves until the command context is cancelled.
func runServe(cmd *cobra.Command, flags *rootFlags) error {
	logger, err := newLogger(cmd.ErrOrStderr(), flags.logLevel, flags.logFormat)
	if err != nil {
		return err
	}

	opts := []pizzaz.Option{
		pizzaz.WithLogger(logger),
		pizzaz.WithAddr(flags.addr),
		pizzaz.WithAssetsDir(flags.assetsDir),
		pizzaz.WithBasePath(flags.basePath),
		pizzaz.WithShutdownTimeout(flags.shutdownTimeout),
	}

	if flags.catalogFile != "" {
		opts = append(opts, pizzaz.WithCatalogFile(flags.catalogFile))
	}

	srv, err := pizzaz.New(opts...)
	if err != nil {
		return err
	}

	return srv.ListenAndServe(cmd.Context())
}
