package session

import (
	"fmt"
	"sync"

	serrors "github.com/wagiedev/pizzaz-mcp-go/internal/errors"
)

// Handle is a live session that can be found by id.
type Handle interface {
	ID() string
}

// Registry maps session ids to live handles.
// It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]Handle
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]Handle, 8)}
}

// Put registers h under its id.
//
// Returns an error wrapping errors.ErrSessionExists if the id is taken.
func (r *Registry) Put(h Handle) error {
	id := h.ID()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[id]; exists {
		return fmt.Errorf("%w: %s", serrors.ErrSessionExists, id)
	}

	r.sessions[id] = h

	return nil
}

// Get returns the handle registered under id.
func (r *Registry) Get(id string) (Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.sessions[id]

	return h, ok
}

// Remove deletes the entry for id. Removing an absent id is a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}

// Snapshot returns the handles registered at the time of the call.
func (r *Registry) Snapshot() []Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handles := make([]Handle, 0, len(r.sessions))
	for _, h := range r.sessions {
		handles = append(handles, h)
	}

	return handles
}
