package stream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	serrors "github.com/wagiedev/pizzaz-mcp-go/internal/errors"
	mcpserver "github.com/wagiedev/pizzaz-mcp-go/internal/mcp"
	"github.com/wagiedev/pizzaz-mcp-go/internal/session"
)

// DefaultMaxMessageBytes bounds a side-channel request body.
const DefaultMaxMessageBytes int64 = 4 << 20

// Config configures a Manager.
type Config struct {
	// Logger receives lifecycle events. Required.
	Logger *slog.Logger

	// Registry holds the live sessions. Required.
	Registry *session.Registry

	// Dispatcher answers protocol requests for every session. Required.
	Dispatcher *mcpserver.Dispatcher

	// Implementation identifies the server during initialization.
	Implementation *mcp.Implementation

	// MessagesPath is the side-channel path advertised to clients,
	// without the sessionId query parameter.
	MessagesPath string

	// MaxMessageBytes bounds a side-channel request body.
	// Defaults to DefaultMaxMessageBytes.
	MaxMessageBytes int64

	// NewID generates session ids. Defaults to ULIDs.
	NewID func() string
}

// Manager opens, routes to and tears down event-stream sessions.
type Manager struct {
	log             *slog.Logger
	registry        *session.Registry
	dispatcher      *mcpserver.Dispatcher
	impl            *mcp.Implementation
	messagesPath    string
	maxMessageBytes int64
	newID           func() string

	mu           sync.Mutex
	shuttingDown bool
	closing      chan struct{}
	wg           sync.WaitGroup
}

// NewManager creates a Manager from cfg.
func NewManager(cfg Config) *Manager {
	m := &Manager{
		log:             cfg.Logger.With("component", "stream"),
		registry:        cfg.Registry,
		dispatcher:      cfg.Dispatcher,
		impl:            cfg.Implementation,
		messagesPath:    cfg.MessagesPath,
		maxMessageBytes: cfg.MaxMessageBytes,
		newID:           cfg.NewID,
		closing:         make(chan struct{}),
	}

	if m.impl == nil {
		m.impl = &mcp.Implementation{Name: "pizzaz", Version: "0.0.0"}
	}

	if m.maxMessageBytes <= 0 {
		m.maxMessageBytes = DefaultMaxMessageBytes
	}

	if m.newID == nil {
		m.newID = func() string { return ulid.Make().String() }
	}

	return m
}

// Active returns the number of registered sessions.
func (m *Manager) Active() int {
	return m.registry.Len()
}

// Lookup returns the live session registered under id.
func (m *Manager) Lookup(id string) (*Session, bool) {
	h, ok := m.registry.Get(id)
	if !ok {
		return nil, false
	}

	s, ok := h.(*Session)

	return s, ok
}

// acquire registers a stream with the shutdown wait group unless shutdown
// has begun.
func (m *Manager) acquire() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shuttingDown {
		return false
	}

	m.wg.Add(1)

	return true
}

// Open serves one event stream on w and blocks until the stream ends.
//
// Returns an *errors.StreamOpenError if the stream could not be established;
// the session is then not registered. After the stream was established Open
// returns nil on a clean close, or an *errors.StreamWriteError when the
// transport failed.
func (m *Manager) Open(w http.ResponseWriter, r *http.Request) error {
	if !m.acquire() {
		return &serrors.StreamOpenError{Err: serrors.ErrShuttingDown}
	}
	defer m.wg.Done()

	id := m.newID()
	transport := &mcp.SSEServerTransport{
		Endpoint: m.messagesPath + "?sessionId=" + id,
		Response: w,
	}
	s := newSession(m.log, id, transport, m.registry)

	if err := m.registry.Put(s); err != nil {
		return &serrors.StreamOpenError{SessionID: id, Err: err}
	}

	select {
	case <-m.closing:
		s.teardown(nil)

		return &serrors.StreamOpenError{SessionID: id, Err: serrors.ErrShuttingDown}
	default:
	}

	header := w.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")

	server := mcpserver.NewServer(m.dispatcher, m.impl)

	ss, err := server.Connect(r.Context(), orderedTransport{transport}, nil)
	if err != nil {
		s.teardown(nil)
		m.log.Warn("Failed to open stream", "session_id", id, "error", err)

		return &serrors.StreamOpenError{SessionID: id, Err: err}
	}

	if !s.attach(ss) {
		return nil
	}

	s.log.Info("Session opened")

	waitErr := make(chan error, 1)

	go func() {
		waitErr <- ss.Wait()
	}()

	var (
		cause   error
		waiting = true
	)

	select {
	case <-r.Context().Done():
		s.log.Debug("Client disconnected")
	case err := <-waitErr:
		waiting = false

		if err != nil {
			cause = &serrors.StreamWriteError{SessionID: id, Err: err}
		}
	case <-m.closing:
		s.log.Debug("Closing session for shutdown")
	case <-s.done:
	}

	s.teardown(cause)

	if waiting {
		<-waitErr
	}

	return cause
}

// Deliver hands one side-channel request to the session registered under id.
//
// Returns an error wrapping errors.ErrUnknownSession when no open session has
// that id, or an *errors.MessageHandlingError when the body cannot be read
// or is not a JSON-RPC message. Neither failure closes the session; on
// success the transport has already written its acknowledgment to w.
func (m *Manager) Deliver(id string, w http.ResponseWriter, r *http.Request) error {
	s, ok := m.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %s", serrors.ErrUnknownSession, id)
	}

	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	if !s.accepting() {
		return fmt.Errorf("%w: %s", serrors.ErrUnknownSession, id)
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, m.maxMessageBytes))
	if err != nil {
		return &serrors.MessageHandlingError{SessionID: id, Err: fmt.Errorf("read body: %w", err)}
	}

	if _, err := jsonrpc.DecodeMessage(body); err != nil {
		return &serrors.MessageHandlingError{SessionID: id, Err: fmt.Errorf("decode message: %w", err)}
	}

	r.Body = io.NopCloser(bytes.NewReader(body))
	s.handler.ServeHTTP(w, r)

	return nil
}

// Shutdown stops accepting new streams, forces every open session into
// teardown and waits for all Open calls to return or ctx to expire.
// It is safe to call Shutdown multiple times.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()

	if !m.shuttingDown {
		m.shuttingDown = true
		close(m.closing)
	}

	m.mu.Unlock()

	handles := m.registry.Snapshot()
	m.log.Info("Shutting down streams", "sessions", len(handles))

	var g errgroup.Group

	for _, h := range handles {
		s, ok := h.(*Session)
		if !ok {
			continue
		}

		g.Go(func() error {
			s.Close()

			return nil
		})
	}

	_ = g.Wait()

	done := make(chan struct{})

	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.log.Info("All streams closed")

		return nil
	case <-ctx.Done():
		m.log.Warn("Timed out waiting for streams", "remaining", m.registry.Len())

		return fmt.Errorf("wait for streams: %w", ctx.Err())
	}
}
