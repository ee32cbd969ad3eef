// Package session tracks browser capture sessions. Each session owns exactly
// one pending-click slot; there is deliberately no ambient global state.
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/joeblew999/plat-landval/internal/service"
)

// CookieName is the cookie that carries the session id.
const CookieName = "landval_session"

// Session is one browser's capture state: a single pending click, or none.
type Session struct {
	ID string

	mu      sync.Mutex
	pending *service.PendingClick
}

// SetPending stores a pending click, replacing any unsaved one.
func (s *Session) SetPending(p service.PendingClick) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = &p
}

// Pending returns the current pending click, if any.
func (s *Session) Pending() (service.PendingClick, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return service.PendingClick{}, false
	}
	return *s.pending, true
}

// ClearPending empties the slot.
func (s *Session) ClearPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
}

// Registry hands out sessions keyed by id.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// New creates a session with a fresh id.
func (r *Registry) New() *Session {
	s := &Session{ID: uuid.NewString()}
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// Get returns the session with the given id.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// GetOrCreate returns the session for id, creating it if unknown. An empty
// id gets a fresh session; callers set the cookie from the returned ID.
func (r *Registry) GetOrCreate(id string) *Session {
	if id == "" {
		return r.New()
	}

	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		return s
	}
	s = &Session{ID: id}
	r.sessions[id] = s
	return s
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
