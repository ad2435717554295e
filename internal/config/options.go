package config

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/wagiedev/pizzaz-mcp-go/internal/catalog"
)

// Default values applied by Options.ApplyDefaults.
const (
	DefaultAddr            = ":8000"
	DefaultBasePath        = "/mcp"
	DefaultAssetsDir       = "assets"
	DefaultServerName      = "pizzaz-go"
	DefaultServerVersion   = "0.1.0"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultMaxMessageBytes = int64(4 << 20)
)

// AssetsDirEnv names the environment variable that overrides DefaultAssetsDir.
const AssetsDirEnv = "PIZZAZ_ASSETS_DIR"

// Options configures the widget server.
type Options struct {
	// Logger is the slog logger for server output.
	// If nil, logging is disabled (silent operation).
	Logger *slog.Logger

	// Addr is the TCP address ListenAndServe binds to.
	Addr string

	// BasePath is the stream-open path. The side channel lives at
	// BasePath + "/messages".
	BasePath string

	// AssetsDir is the directory widget bodies are resolved from.
	// Ignored when AssetsFS is set.
	AssetsDir string

	// AssetsFS resolves widget bodies from an fs.FS instead of AssetsDir.
	// This field is not serialized to JSON.
	AssetsFS fs.FS `json:"-"`

	// CatalogFile is a YAML widget catalog.
	// If set, this takes precedence over Definitions.
	CatalogFile string

	// Definitions is a programmatic widget catalog.
	// If nil, the default pizzaz widgets are served.
	Definitions []catalog.Definition

	// ServerName and ServerVersion identify the server during initialization.
	ServerName    string
	ServerVersion string

	// ShutdownTimeout bounds graceful shutdown in ListenAndServe.
	ShutdownTimeout time.Duration

	// MaxMessageBytes bounds a side-channel request body.
	MaxMessageBytes int64

	// IDGenerator generates session ids.
	// If nil, ULIDs are used.
	IDGenerator func() string `json:"-"`
}

// ApplyDefaults fills every unset field with its default value.
func (o *Options) ApplyDefaults() {
	if o.Addr == "" {
		o.Addr = DefaultAddr
	}

	o.BasePath = NormalizeBasePath(o.BasePath)

	if o.AssetsDir == "" {
		o.AssetsDir = os.Getenv(AssetsDirEnv)
	}

	if o.AssetsDir == "" {
		o.AssetsDir = DefaultAssetsDir
	}

	if o.ServerName == "" {
		o.ServerName = DefaultServerName
	}

	if o.ServerVersion == "" {
		o.ServerVersion = DefaultServerVersion
	}

	if o.ShutdownTimeout <= 0 {
		o.ShutdownTimeout = DefaultShutdownTimeout
	}

	if o.MaxMessageBytes <= 0 {
		o.MaxMessageBytes = DefaultMaxMessageBytes
	}
}

// Validate reports configuration errors that defaults cannot fix.
func (o *Options) Validate() error {
	if strings.ContainsAny(o.BasePath, "?#") {
		return fmt.Errorf("base path %q must not contain a query or fragment", o.BasePath)
	}

	if o.BasePath == "/" {
		return fmt.Errorf("base path must not be the root path")
	}

	return nil
}

// MessagesPath returns the side-channel path for the configured base path.
func (o *Options) MessagesPath() string {
	return o.BasePath + "/messages"
}

// NormalizeBasePath makes p absolute and strips trailing slashes.
// An empty path becomes DefaultBasePath.
//
//   - "" -> "/mcp"
//   - "mcp/" -> "/mcp"
func NormalizeBasePath(p string) string {
	p = strings.TrimRight(strings.TrimSpace(p), "/")
	if p == "" {
		return DefaultBasePath
	}

	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}

	return p
}
