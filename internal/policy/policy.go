// Package policy defines pluggable version policies and the registry used to
// look them up by id.
//
// A policy only proposes versions. Whether a proposal is accepted is decided
// by the caller, which may confirm it with the user first.
package policy

import (
	"sort"
	"sync"
)

// VersionPolicy suggests the next version of a module from a base version.
type VersionPolicy interface {
	// ReleaseVersion returns the version to release, e.g. 1.0 for 1.0-SNAPSHOT.
	ReleaseVersion(base string) (string, error)

	// DevelopmentVersion returns the next development version, e.g. 1.1-SNAPSHOT for 1.0.
	DevelopmentVersion(base string) (string, error)
}

// Registry manages version policies keyed by id.
type Registry struct {
	mu       sync.RWMutex
	policies map[string]VersionPolicy
}

// DefaultRegistry is the global policy registry with the built-in policies.
var DefaultRegistry = NewRegistry()

// NewRegistry creates a registry holding the built-in policies.
func NewRegistry() *Registry {
	r := &Registry{
		policies: make(map[string]VersionPolicy),
	}

	r.Register(DefaultID, DefaultPolicy{})
	r.Register(SemVerID, SemVerPolicy{})

	return r
}

// Register adds or replaces a policy.
func (r *Registry) Register(id string, p VersionPolicy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.policies[id] = p
}

// Get returns the policy registered under id, or a *NotFoundError.
func (r *Registry) Get(id string) (VersionPolicy, error) {
	r.mu.RLock()
	p, ok := r.policies[id]
	r.mu.RUnlock()

	if !ok {
		return nil, &NotFoundError{ID: id, Available: r.IDs()}
	}
	return p, nil
}

// IDs returns the registered policy ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.policies))
	for id := range r.policies {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
