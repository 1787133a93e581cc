package resource

import (
	"sort"
	"strings"
	"sync"

	"github.com/tokenring-ai/codebase/internal/logging"
	"github.com/tokenring-ai/codebase/internal/session"
)

// wildcardSuffix marks a name pattern that expands to every registered name
// sharing the prefix before the suffix.
const wildcardSuffix = "/*"

// Registry stores the registered resources and drives enabled-set mutation
// on sessions. It is populated once at startup and read-mostly afterward;
// concurrent reads from multiple sessions are safe.
type Registry struct {
	mu        sync.RWMutex
	resources map[string]Resource
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{resources: make(map[string]Resource)}
}

// Register inserts or overwrites the mapping for res.Name. Last write wins.
func (r *Registry) Register(res Resource) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.resources[res.Name]; exists {
		logging.Registry("Re-registering resource %q (kind=%s), previous entry replaced", res.Name, res.Kind)
	} else {
		logging.RegistryDebug("Registered resource %q (kind=%s)", res.Name, res.Kind)
	}
	r.resources[res.Name] = res
}

// Get returns the resource registered under name.
func (r *Registry) Get(name string) (Resource, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.resources[name]
	return res, ok
}

// ListAvailable returns all registered names, lexicographically sorted.
func (r *Registry) ListAvailable() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.resources))
	for name := range r.resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve expands a name or wildcard pattern against the registered names.
//
// A pattern without the "/*" suffix must match a registered name exactly. A
// pattern ending in "/*" expands to every registered name equal to the
// prefix or nested one-or-more segments under it. Either form fails with
// ErrUnknownResource when nothing matches.
func (r *Registry) Resolve(pattern string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolveLocked(pattern)
}

func (r *Registry) resolveLocked(pattern string) ([]string, error) {
	if !strings.HasSuffix(pattern, wildcardSuffix) {
		if _, ok := r.resources[pattern]; !ok {
			return nil, unknownResource(pattern)
		}
		return []string{pattern}, nil
	}

	prefix := strings.TrimSuffix(pattern, wildcardSuffix)
	var matches []string
	for name := range r.resources {
		if name == prefix || strings.HasPrefix(name, prefix+"/") {
			matches = append(matches, name)
		}
	}
	if len(matches) == 0 {
		return nil, unknownResource(pattern)
	}
	sort.Strings(matches)
	return matches, nil
}

// resolveAll expands every pattern, failing atomically on the first pattern
// that matches nothing. The result preserves input order with duplicates
// collapsed.
func (r *Registry) resolveAll(patterns []string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	var resolved []string
	for _, pattern := range patterns {
		names, err := r.resolveLocked(pattern)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			resolved = append(resolved, name)
		}
	}
	return resolved, nil
}

// Enable resolves every pattern and unions the resolved names into the
// session's enabled set. If any pattern fails to resolve the whole call
// aborts with ErrUnknownResource and the session is untouched. Enabling an
// already-enabled name is a no-op for that name.
func (r *Registry) Enable(patterns []string, sess *session.Session) error {
	resolved, err := r.resolveAll(patterns)
	if err != nil {
		return err
	}
	sess.Add(resolved...)
	logging.Registry("Enabled %d resource(s) in session %s", len(resolved), sess.ID())
	return nil
}

// Disable resolves every pattern and removes the resolved names from the
// session's enabled set. Resolution failures abort atomically; removing a
// name not present is a no-op.
func (r *Registry) Disable(patterns []string, sess *session.Session) error {
	resolved, err := r.resolveAll(patterns)
	if err != nil {
		return err
	}
	sess.Remove(resolved...)
	logging.Registry("Disabled %d resource(s) in session %s", len(resolved), sess.ID())
	return nil
}

// SetEnabled resolves every pattern and replaces the session's enabled set
// with exactly the resolved names. No prior members survive. Resolution
// failures abort atomically.
func (r *Registry) SetEnabled(patterns []string, sess *session.Session) error {
	resolved, err := r.resolveAll(patterns)
	if err != nil {
		return err
	}
	sess.Replace(resolved...)
	logging.Registry("Set enabled resources in session %s: %d resource(s)", sess.ID(), len(resolved))
	return nil
}

// Restore installs a snapshotted name list into the session, dropping any
// name that is no longer registered. Stale names appear when a resource is
// removed from config between runs; the dropped names are returned so
// callers can report them.
func (r *Registry) Restore(names []string, sess *session.Session) (dropped []string) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kept := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := r.resources[name]; ok {
			kept = append(kept, name)
		} else {
			dropped = append(dropped, name)
		}
	}
	sess.Restore(kept)
	if len(dropped) > 0 {
		logging.Registry("Restore dropped %d stale name(s) in session %s: %s",
			len(dropped), sess.ID(), strings.Join(dropped, ", "))
	}
	return dropped
}

// GetEnabled returns the session's enabled names, lexicographically sorted.
func (r *Registry) GetEnabled(sess *session.Session) []string {
	return sess.Enabled()
}

// GetEnabledResources dereferences the session's enabled names against the
// registry, in sorted name order. Names are validated at mutation and
// restore time and the registry never removes entries, so every enabled
// name dereferences.
func (r *Registry) GetEnabledResources(sess *session.Session) []Resource {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := sess.Enabled()
	resources := make([]Resource, 0, len(names))
	for _, name := range names {
		if res, ok := r.resources[name]; ok {
			resources = append(resources, res)
		}
	}
	return resources
}
