package pizzaz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/wagiedev/pizzaz-mcp-go/internal/assets"
	"github.com/wagiedev/pizzaz-mcp-go/internal/catalog"
	"github.com/wagiedev/pizzaz-mcp-go/internal/httpapi"
	mcpserver "github.com/wagiedev/pizzaz-mcp-go/internal/mcp"
	"github.com/wagiedev/pizzaz-mcp-go/internal/session"
	"github.com/wagiedev/pizzaz-mcp-go/internal/stream"
)

const readHeaderTimeout = 10 * time.Second

// Server serves the widget catalog to MCP clients.
type Server struct {
	opts    *ServerOptions
	log     *slog.Logger
	catalog *catalog.Catalog
	streams *stream.Manager
	handler http.Handler
}

// New loads the widget catalog and builds a Server.
//
// Returns an error wrapping ErrAssetMissing if any widget body cannot be
// resolved; the server never starts with an incomplete catalog.
func New(opts ...Option) (*Server, error) {
	options := applyServerOptions(opts)

	if err := options.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	log := options.Logger
	if log == nil {
		log = NopLogger()
	}

	defs, err := loadDefinitions(options)
	if err != nil {
		return nil, err
	}

	loader := newAssetLoader(options)

	cat, err := catalog.Load(loader, defs)
	if err != nil {
		log.Error("Failed to load widget catalog", "assets", loader.Dir(), "error", err)

		return nil, fmt.Errorf("load catalog: %w", err)
	}

	log.Info("Widget catalog loaded", "widgets", cat.Len(), "assets", loader.Dir())

	streams := stream.NewManager(stream.Config{
		Logger:     log,
		Registry:   session.NewRegistry(),
		Dispatcher: mcpserver.NewDispatcher(cat),
		Implementation: &mcp.Implementation{
			Name:    options.ServerName,
			Version: options.ServerVersion,
		},
		MessagesPath:    options.MessagesPath(),
		MaxMessageBytes: options.MaxMessageBytes,
		NewID:           options.IDGenerator,
	})

	return &Server{
		opts:    options,
		log:     log.With("component", "server"),
		catalog: cat,
		streams: streams,
		handler: httpapi.NewRouter(httpapi.Config{
			Logger:   log,
			Streams:  streams,
			BasePath: options.BasePath,
		}),
	}, nil
}

func loadDefinitions(options *ServerOptions) ([]WidgetDefinition, error) {
	switch {
	case options.CatalogFile != "":
		defs, err := catalog.LoadDefinitionsFile(options.CatalogFile)
		if err != nil {
			return nil, fmt.Errorf("load catalog file: %w", err)
		}

		return defs, nil
	case options.Definitions != nil:
		return options.Definitions, nil
	default:
		return catalog.DefaultDefinitions(), nil
	}
}

func newAssetLoader(options *ServerOptions) *assets.Loader {
	if options.AssetsFS != nil {
		return assets.NewFSLoader(options.AssetsFS, options.AssetsDir)
	}

	return assets.NewDirLoader(options.AssetsDir)
}

// Handler returns the HTTP surface of the server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Widgets returns the loaded catalog in order.
func (s *Server) Widgets() []Widget {
	return s.catalog.Items()
}

// ActiveSessions returns the number of open stream sessions.
func (s *Server) ActiveSessions() int {
	return s.streams.Active()
}

// Options returns a copy of the effective configuration.
func (s *Server) Options() ServerOptions {
	return *s.opts
}

// ListenAndServe listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully within ShutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig

	ln, err := lc.Listen(ctx, "tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.opts.Addr, err)
	}

	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully
// within ShutdownTimeout. Serve closes ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("Listening", "addr", ln.Addr().String(), "path", s.opts.BasePath)

		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		s.log.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.ShutdownTimeout)
		defer cancel()

		// Stream handlers only return once their session is closed, so the
		// sessions go first.
		streamErr := s.Shutdown(shutdownCtx)
		httpErr := httpServer.Shutdown(shutdownCtx)

		return errors.Join(streamErr, httpErr)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	s.log.Info("Server stopped")

	return nil
}

// Shutdown closes every open stream and rejects new ones. It waits for the
// streams to finish or ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.streams.Shutdown(ctx)
}
