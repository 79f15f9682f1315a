package render

import (
	"fmt"
	"sort"
	"sync"
)

// Factory creates a fresh adapter for one dialog.
type Factory func() (Adapter, error)

// Registry stores adapter factories by name, providing discovery and
// duplication safeguards.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a registry with the headless "nop" adapter registered.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.MustRegister("nop", func() (Adapter, error) { return Nop{}, nil })
	return r
}

// Register adds a factory by name. Duplicate names return an error.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("render: adapter name is required")
	}
	if factory == nil {
		return fmt.Errorf("render: adapter factory is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("render: adapter %q already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic(err)
	}
}

// New builds an adapter using the named factory.
func (r *Registry) New(name string) (Adapter, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("render: adapter %q not found", name)
	}
	return factory()
}

// List returns a sorted list of adapter names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
