// Package session owns the per-session enabled-resource set and its lifecycle:
// attach, fork, snapshot/restore, destroy.
package session

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/tokenring-ai/codebase/internal/logging"
)

// Session scopes one enabled set of resource names. A session is exclusively
// owned by one caller; concurrent mutation from multiple goroutines must be
// serialized by the caller. The internal mutex only protects against torn
// reads when another goroutine inspects the set.
type Session struct {
	id string

	mu      sync.RWMutex
	enabled map[string]struct{}
}

// New creates an empty session with a fresh ID. The registry seeds the
// enabled set from configured defaults after creation.
func New() *Session {
	s := &Session{
		id:      uuid.NewString(),
		enabled: make(map[string]struct{}),
	}
	logging.SessionDebug("Session created: %s", s.id)
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Fork returns a child session with a copy of the enabled set and a fresh ID.
// Mutating the child never affects the parent and vice versa.
func (s *Session) Fork() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	child := &Session{
		id:      uuid.NewString(),
		enabled: make(map[string]struct{}, len(s.enabled)),
	}
	for name := range s.enabled {
		child.enabled[name] = struct{}{}
	}
	logging.Session("Session forked: %s -> %s (%d enabled)", s.id, child.id, len(child.enabled))
	return child
}

// Enabled returns the enabled resource names, lexicographically sorted.
func (s *Session) Enabled() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.enabled))
	for name := range s.enabled {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether the named resource is enabled.
func (s *Session) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.enabled[name]
	return ok
}

// Add unions the given resolved names into the enabled set. Adding an
// already-enabled name is a no-op for that name.
func (s *Session) Add(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range names {
		s.enabled[name] = struct{}{}
	}
}

// Remove deletes the given resolved names from the enabled set. Removing a
// name not present is a no-op.
func (s *Session) Remove(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range names {
		delete(s.enabled, name)
	}
}

// Replace discards the current enabled set and installs exactly the given
// resolved names. No prior members survive.
func (s *Session) Replace(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = make(map[string]struct{}, len(names))
	for _, name := range names {
		s.enabled[name] = struct{}{}
	}
}

// Snapshot serializes the enabled set to a plain sorted list of resolved
// names, suitable for persistence.
func (s *Session) Snapshot() []string {
	return s.Enabled()
}

// Restore replaces the enabled set with a previously snapshotted name list.
// The list is installed as-is; the registry's restore path filters out names
// that no longer resolve before calling this.
func (s *Session) Restore(names []string) {
	s.Replace(names...)
	logging.Session("Session restored: %s (%d enabled)", s.id, len(names))
}
