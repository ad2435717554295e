package pizzaz

import (
	"io/fs"
	"log/slog"
	"time"
)

// Option configures ServerOptions using the functional options pattern.
type Option func(*ServerOptions)

// applyServerOptions applies functional options to a ServerOptions struct
// and fills in defaults.
func applyServerOptions(opts []Option) *ServerOptions {
	options := &ServerOptions{}
	for _, opt := range opts {
		opt(options)
	}

	options.ApplyDefaults()

	return options
}

// ===== Basic Configuration =====

// WithLogger sets the logger for server output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *ServerOptions) {
		o.Logger = logger
	}
}

// WithAddr sets the address ListenAndServe binds to (default ":8000").
func WithAddr(addr string) Option {
	return func(o *ServerOptions) {
		o.Addr = addr
	}
}

// WithBasePath sets the stream-open path (default "/mcp").
// The side channel is served at the base path plus "/messages".
func WithBasePath(path string) Option {
	return func(o *ServerOptions) {
		o.BasePath = path
	}
}

// WithServerInfo sets the name and version reported during initialization.
func WithServerInfo(name, version string) Option {
	return func(o *ServerOptions) {
		o.ServerName = name
		o.ServerVersion = version
	}
}

// ===== Catalog =====

// WithAssetsDir sets the directory widget bodies are resolved from.
// Defaults to $PIZZAZ_ASSETS_DIR, then "assets".
func WithAssetsDir(dir string) Option {
	return func(o *ServerOptions) {
		o.AssetsDir = dir
	}
}

// WithAssetsFS resolves widget bodies from fsys instead of a directory.
func WithAssetsFS(fsys fs.FS) Option {
	return func(o *ServerOptions) {
		o.AssetsFS = fsys
	}
}

// WithCatalogFile loads the widget catalog from a YAML file.
// If set, this takes precedence over WithWidgets.
func WithCatalogFile(path string) Option {
	return func(o *ServerOptions) {
		o.CatalogFile = path
	}
}

// WithWidgets replaces the built-in widget catalog.
func WithWidgets(defs ...WidgetDefinition) Option {
	return func(o *ServerOptions) {
		o.Definitions = defs
	}
}

// ===== Sessions =====

// WithShutdownTimeout bounds graceful shutdown in ListenAndServe (default 10s).
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *ServerOptions) {
		o.ShutdownTimeout = d
	}
}

// WithMaxMessageBytes bounds a side-channel request body (default 4 MiB).
func WithMaxMessageBytes(n int64) Option {
	return func(o *ServerOptions) {
		o.MaxMessageBytes = n
	}
}

// WithIDGenerator overrides session id generation.
// Ids only need to be distinct among sessions open at the same time. A
// collision with an open session fails the new stream with a
// StreamOpenError.
func WithIDGenerator(gen func() string) Option {
	return func(o *ServerOptions) {
		o.IDGenerator = gen
	}
}
