package qc

import (
	"fmt"
	"sort"
	"sync"
)

// Factory constructs a check from the shared options.
type Factory func(Options) (Check, error)

// Registry maps check names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// NewDefaultRegistry returns a registry holding every built-in check.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(SamePDiffTName, newSamePDiffTFromOptions)
	return r
}

// Register installs a factory. Returns an error if the name already exists.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("qc: check name is required")
	}
	if factory == nil {
		return fmt.Errorf("qc: factory is required for %s", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("qc: %s already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// MustRegister panics if registration fails.
func (r *Registry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic(err)
	}
}

// Resolve constructs a check by name.
func (r *Registry) Resolve(name string, opts Options) (Check, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("qc: unknown check %s", name)
	}
	return factory(opts)
}

// Names returns the registered check names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
