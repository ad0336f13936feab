// SPDX-License-Identifier: MPL-2.0

package qll

import (
	"maps"
	"slices"
	"sync"
)

type (
	// SourceResolver maps a package-relative import path to source text.
	// A missing file yields ok == false, never an error.
	SourceResolver interface {
		Resolve(relPath string) (text string, ok bool)
	}

	// ResolverFunc adapts a function to SourceResolver.
	ResolverFunc func(relPath string) (string, bool)

	// Registry maps package names to their resolvers for one build or run.
	// It is safe for concurrent use.
	Registry struct {
		mu        sync.RWMutex
		resolvers map[string]SourceResolver
	}
)

// Resolve calls f.
func (f ResolverFunc) Resolve(relPath string) (string, bool) { return f(relPath) }

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{resolvers: make(map[string]SourceResolver)}
}

// Register binds r to name. The first registration of a name wins; later
// ones are ignored and reported as false.
func (reg *Registry) Register(name string, r SourceResolver) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, exists := reg.resolvers[name]; exists {
		return false
	}
	reg.resolvers[name] = r
	return true
}

// Resolve returns the text of relPath in package pkg.
func (reg *Registry) Resolve(pkg, relPath string) (string, bool) {
	reg.mu.RLock()
	r, ok := reg.resolvers[pkg]
	reg.mu.RUnlock()
	if !ok {
		return "", false
	}
	return r.Resolve(relPath)
}

// Lookup returns the resolver registered for pkg.
func (reg *Registry) Lookup(pkg string) (SourceResolver, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.resolvers[pkg]
	return r, ok
}

// Names returns the registered package names in lexical order.
func (reg *Registry) Names() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return slices.Sorted(maps.Keys(reg.resolvers))
}
