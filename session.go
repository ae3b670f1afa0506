package authclient

import "sync"

var _ SessionStore = &SessionManager{}

// SessionListener is called after the session changes. ok is false once the
// session has been cleared.
type SessionListener func(identity Identity, ok bool)

type sessionChange struct {
	identity Identity
	ok       bool
}

// SessionManager holds the single current session, if any. Listeners are
// called one at a time, in change order, and always end on the latest state.
type SessionManager struct {
	mu       sync.RWMutex
	identity Identity
	active   bool
	changes  broadcaster[sessionChange]
}

// NewSessionManager returns an anonymous SessionManager.
func NewSessionManager() *SessionManager {
	return &SessionManager{}
}

// Set replaces the current session.
func (s *SessionManager) Set(identity Identity) {
	s.mu.Lock()
	s.identity = identity
	s.active = true
	s.changes.stage(sessionChange{identity: identity, ok: true})
	s.mu.Unlock()

	s.changes.flush()
}

// Clear drops the current session. Clearing an anonymous session does nothing.
func (s *SessionManager) Clear() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.identity = Identity{}
	s.active = false
	s.changes.stage(sessionChange{})
	s.mu.Unlock()

	s.changes.flush()
}

// Current returns the session identity and whether one is set.
func (s *SessionManager) Current() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity, s.active
}

// Authenticated reports whether a session is set.
func (s *SessionManager) Authenticated() bool {
	_, ok := s.Current()
	return ok
}

// Subscribe registers l for session changes and returns a function that
// removes it.
func (s *SessionManager) Subscribe(l SessionListener) func() {
	if l == nil {
		return func() {}
	}
	return s.changes.subscribe(func(c sessionChange) {
		l(c.identity, c.ok)
	})
}
