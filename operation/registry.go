package operation

import (
	"sort"
	"sync"

	"github.com/kbukum/flowkit/errors"
)

// Factory builds an operation instance from definition options. The result
// must implement Algorithm, Probe or ContextOperation.
type Factory func(options map[string]any) (any, error)

// Registry provides named operation lookup for declarative pipelines.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name, replacing any previous one.
func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// RegisterOperation registers a factory that always returns op. Use it for
// stateless operations that need no options.
func (r *Registry) RegisterOperation(name string, op any) {
	r.Register(name, func(map[string]any) (any, error) { return op, nil })
}

// Create instantiates the operation registered under name.
func (r *Registry) Create(name string, options map[string]any) (any, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.NotFound("operation", name)
	}
	op, err := factory(options)
	if err != nil {
		return nil, errors.Configuration("operation " + name + " could not be created").WithCause(err)
	}
	return op, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// List returns sorted names of all registered operations.
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
