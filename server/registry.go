package server

import (
	"sort"
	"sync"

	"github.com/kbukum/flowkit/errors"
	"github.com/kbukum/flowkit/pipeline"
)

// Registry holds the pipelines exposed for introspection, by name.
type Registry struct {
	mu        sync.RWMutex
	pipelines map[string]*pipeline.Pipeline
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{pipelines: make(map[string]*pipeline.Pipeline)}
}

// Register adds p under its name. Names must be unique.
func (r *Registry) Register(p *pipeline.Pipeline) error {
	if p == nil {
		return errors.Configuration("pipeline is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pipelines[p.Name()]; ok {
		return errors.Configuration("pipeline " + p.Name() + " is already registered")
	}
	r.pipelines[p.Name()] = p
	return nil
}

// Get returns the pipeline registered under name.
func (r *Registry) Get(name string) (*pipeline.Pipeline, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pipelines[name]
	if !ok {
		return nil, errors.NotFound("pipeline", name)
	}
	return p, nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.pipelines))
	for name := range r.pipelines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
