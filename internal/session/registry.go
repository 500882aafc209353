package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrUnknownSession indicates the session ID is not registered.
var ErrUnknownSession = errors.New("unknown session")

type entry struct {
	mu    sync.Mutex
	state *State
}

// Registry holds the live dashboard sessions of this process.
type Registry struct {
	sessions map[string]*entry
	mu       sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*entry)}
}

// Create registers a fresh state and returns its ID.
func (r *Registry) Create(init func(*State)) string {
	st := New()
	if init != nil {
		init(st)
	}

	id := uuid.NewString()
	r.mu.Lock()
	r.sessions[id] = &entry{state: st}
	r.mu.Unlock()
	return id
}

// Exists reports whether the ID is registered.
func (r *Registry) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[id]
	return ok
}

// With runs fn against the session state. Calls for the same session are serialized.
func (r *Registry) With(id string, fn func(*State) error) error {
	r.mu.RLock()
	e, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return ErrUnknownSession
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.state)
}

// Delete removes a session.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
