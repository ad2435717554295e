package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wagiedev/pizzaz-mcp-go/internal/config"
)

type rootFlags struct {
	addr            string
	assetsDir       string
	catalogFile     string
	basePath        string
	shutdownTimeout time.Duration
	logLevel        string
	logFormat       string
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "pizzaz-server",
		Short:         "Serve the pizzaz widget catalog over MCP",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, flags)
		},
	}

	defaultAssets := os.Getenv(config.AssetsDirEnv)
	if defaultAssets == "" {
		defaultAssets = config.DefaultAssetsDir
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.addr, "addr", config.DefaultAddr, "Address to listen on")
	pf.StringVar(&flags.assetsDir, "assets", defaultAssets, "Directory holding the built widget HTML (env "+config.AssetsDirEnv+")")
	pf.StringVar(&flags.catalogFile, "catalog", "", "YAML widget catalog (defaults to the built-in pizzaz widgets)")
	pf.StringVar(&flags.basePath, "base-path", config.DefaultBasePath, "Stream path; messages are served below it")
	pf.DurationVar(&flags.shutdownTimeout, "shutdown-timeout", config.DefaultShutdownTimeout, "Time allowed for open streams to close on shutdown")
	pf.StringVar(&flags.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&flags.logFormat, "log-format", "text", "Log format: text, json")

	cmd.AddCommand(newServeCommand(flags), newCatalogCommand(flags))

	return cmd
}

// newLogger builds the process logger from the log flags.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}

	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
}
