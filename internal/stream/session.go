package stream

import (
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
)

// closer releases the protocol resources held by an open session.
type closer interface {
	Close() error
}

// remover is the part of the session registry teardown needs.
type remover interface {
	Remove(id string)
}

// Session is one live event stream.
type Session struct {
	id       string
	log      *slog.Logger
	handler  http.Handler
	registry remover

	state atomic.Int32

	// Serializes side-channel delivery for this session.
	deliverMu sync.Mutex

	// Protocol session, set once the stream is established.
	connMu sync.Mutex
	conn   closer

	// Fatal error handling - stores the first error that ended the stream
	errMu    sync.RWMutex
	fatalErr error

	// Lifecycle management
	closing atomic.Bool
	done    chan struct{}
}

func newSession(log *slog.Logger, id string, handler http.Handler, registry remover) *Session {
	return &Session{
		id:       id,
		log:      log.With("session_id", id),
		handler:  handler,
		registry: registry,
		done:     make(chan struct{}),
	}
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Done returns a channel that is closed when teardown has finished.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// FatalError returns the error that ended the stream, if any.
func (s *Session) FatalError() error {
	s.errMu.RLock()
	defer s.errMu.RUnlock()

	return s.fatalErr
}

// Close forces the session into teardown. It is safe to call Close multiple
// times and concurrently with any other terminal signal.
func (s *Session) Close() {
	s.teardown(nil)
}

// accepting reports whether side-channel requests may still reach the stream.
func (s *Session) accepting() bool {
	state := s.State()

	return state == StateOpening || state == StateOpen
}

// attach stores the established protocol session. It returns false when
// teardown already started, in which case conn is closed here.
func (s *Session) attach(conn closer) bool {
	s.connMu.Lock()

	if s.closing.Load() {
		s.connMu.Unlock()

		if err := conn.Close(); err != nil {
			s.log.Debug("Failed to close protocol session", "error", err)
		}

		return false
	}

	s.conn = conn
	s.state.CompareAndSwap(int32(StateOpening), int32(StateOpen))
	s.connMu.Unlock()

	return true
}

// setFatalError stores the first error that ended the stream.
func (s *Session) setFatalError(err error) {
	s.errMu.Lock()

	if s.fatalErr == nil {
		s.fatalErr = err
	}

	s.errMu.Unlock()
}

// teardown runs the close sequence once. Later calls return false without
// blocking, so it can be called from any callback including the ones that
// the close sequence itself triggers.
func (s *Session) teardown(cause error) bool {
	s.connMu.Lock()

	if !s.closing.CompareAndSwap(false, true) {
		s.connMu.Unlock()

		return false
	}

	s.state.Store(int32(StateClosing))
	conn := s.conn
	s.connMu.Unlock()

	if cause != nil {
		s.setFatalError(cause)
	}

	// Unregister before closing the output so no delivery races the close.
	s.registry.Remove(s.id)

	if conn != nil {
		if err := conn.Close(); err != nil {
			s.log.Debug("Failed to close protocol session", "error", err)
		}
	}

	s.state.Store(int32(StateClosed))
	close(s.done)

	if cause != nil {
		s.log.Warn("Session closed with error", "error", cause)
	} else {
		s.log.Debug("Session closed")
	}

	return true
}
