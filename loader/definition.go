package loader

import (
	"github.com/kbukum/flowkit/validation"
)

// Definition is a YAML pipeline definition.
//
//	name: denoise
//	includes: [normalize]
//	nodes:
//	  - operation: GaussianBlur
//	    parameters: {sigma: 1.5}
//	  - operation: MeanProbe
//	    context_keyword: mean
//	  - context_operation: TagSource
type Definition struct {
	// Name identifies the definition; includes refer to it.
	Name string `yaml:"name" validate:"required"`
	// Includes names definitions whose nodes run before this one's, in order.
	Includes []string `yaml:"includes,omitempty" validate:"dive,required"`
	// Nodes are the stages contributed by this definition.
	Nodes []NodeDef `yaml:"nodes" validate:"dive"`
}

// NodeDef declares one node. Exactly one of Operation and ContextOperation
// is set; both name a factory in the operation registry.
type NodeDef struct {
	Name             string         `yaml:"name,omitempty"`
	Operation        string         `yaml:"operation,omitempty" validate:"required_without=ContextOperation,excluded_with=ContextOperation"`
	ContextOperation string         `yaml:"context_operation,omitempty"`
	Parameters       map[string]any `yaml:"parameters,omitempty"`
	ContextKeyword   string         `yaml:"context_keyword,omitempty"`
	// Options are passed to the operation factory, not to the operation call.
	Options map[string]any `yaml:"options,omitempty"`
}

// Factory returns the registry name of the operation.
func (d NodeDef) Factory() string {
	if d.Operation != "" {
		return d.Operation
	}
	return d.ContextOperation
}

// Validate checks struct tags, then the rules tags cannot express.
func (d *Definition) Validate() error {
	if err := validation.Validate(d); err != nil {
		return err
	}

	v := validation.New()
	v.Custom(len(d.Nodes) > 0 || len(d.Includes) > 0, "nodes", "definition has neither nodes nor includes")
	v.Unique("includes", d.Includes)
	for _, inc := range d.Includes {
		v.Custom(inc != d.Name, "includes", "definition "+d.Name+" includes itself")
	}

	names := make([]string, 0, len(d.Nodes))
	for _, n := range d.Nodes {
		if n.Name != "" {
			names = append(names, n.Name)
		}
	}
	v.Unique("nodes.name", names)

	if appErr := v.Validate(); appErr != nil {
		return appErr.WithDetail("definition", d.Name)
	}
	return nil
}
