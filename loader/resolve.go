package loader

import (
	"github.com/kbukum/flowkit/errors"
	"github.com/kbukum/flowkit/node"
	"github.com/kbukum/flowkit/operation"
	"github.com/kbukum/flowkit/pipeline"
)

// Resolve expands def into node configurations. Included definitions are
// loaded through l and contribute their nodes first, in include order. An
// include reached twice through different branches contributes once.
func Resolve(def *Definition, reg *operation.Registry, l Loader) ([]node.Config, error) {
	r := &resolver{
		registry: reg,
		loader:   l,
		stack:    make(map[string]bool),
		resolved: make(map[string]bool),
	}
	if err := r.resolve(def); err != nil {
		return nil, err
	}
	return r.configs, nil
}

// Build resolves def and constructs the pipeline, named after the definition
// unless opts set another name.
func Build(def *Definition, reg *operation.Registry, l Loader, opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	configs, err := Resolve(def, reg, l)
	if err != nil {
		return nil, err
	}
	opts = append([]pipeline.Option{pipeline.WithName(def.Name)}, opts...)
	return pipeline.New(configs, opts...)
}

type resolver struct {
	registry *operation.Registry
	loader   Loader
	stack    map[string]bool // current include path
	resolved map[string]bool // fully expanded definitions
	configs  []node.Config
}

func (r *resolver) resolve(def *Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	if r.stack[def.Name] {
		return errors.Configuration("circular include of definition "+def.Name).
			WithDetail("definition", def.Name)
	}
	r.stack[def.Name] = true
	defer delete(r.stack, def.Name)

	for _, name := range def.Includes {
		if r.resolved[name] {
			continue
		}
		if r.stack[name] {
			return errors.Configuration("circular include of definition "+name).
				WithDetail("definition", def.Name)
		}
		if r.loader == nil {
			return errors.Configuration("definition " + def.Name + " has includes but no loader was given")
		}
		sub, err := r.loader.Load(name)
		if err != nil {
			return err
		}
		if sub.Name != name {
			return errors.Configuration("include "+name+" resolved to definition "+sub.Name).
				WithDetail("definition", def.Name)
		}
		if err := r.resolve(sub); err != nil {
			return err
		}
	}

	for i, nd := range def.Nodes {
		cfg, err := r.nodeConfig(nd)
		if err != nil {
			if appErr, ok := errors.AsAppError(err); ok {
				appErr.WithDetails(map[string]any{"definition": def.Name, "node": i})
			}
			return err
		}
		r.configs = append(r.configs, cfg)
	}
	r.resolved[def.Name] = true
	return nil
}

func (r *resolver) nodeConfig(nd NodeDef) (node.Config, error) {
	op, err := r.registry.Create(nd.Factory(), nd.Options)
	if err != nil {
		return node.Config{}, err
	}
	cfg := node.Config{
		Name:           nd.Name,
		Parameters:     nd.Parameters,
		ContextKeyword: nd.ContextKeyword,
	}
	if nd.ContextOperation != "" {
		cfg.ContextOperation = op
	} else {
		cfg.Operation = op
	}
	return cfg, nil
}
