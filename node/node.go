package node

import (
	"fmt"
	"reflect"

	"github.com/kbukum/flowkit/errors"
	"github.com/kbukum/flowkit/logger"
	"github.com/kbukum/flowkit/operation"
	"github.com/kbukum/flowkit/payload"
	"github.com/kbukum/flowkit/timing"
	"github.com/kbukum/flowkit/util"
)

// Config declares one pipeline stage.
type Config struct {
	// Name optionally labels the node; it defaults to the operation name.
	Name string
	// Operation is an operation.Algorithm, operation.Probe or operation.ContextOperation.
	Operation any
	// Parameters are explicit parameter values. They take precedence over context.
	Parameters map[string]any
	// ContextKeyword turns a probe into a collector storing its result under this key.
	ContextKeyword string
	// ContextOperation declares a context-only node when Operation is nil.
	ContextOperation any
}

// Node is one runtime stage: an operation bound to its configuration.
// Apart from its stopwatch it is immutable after New.
type Node struct {
	kind      Kind
	name      string
	algorithm operation.Algorithm
	probe     operation.Probe
	contextOp operation.ContextOperation
	params    operation.Params
	keyword   string
	stopwatch *timing.Stopwatch
}

type options struct {
	log *logger.Logger
}

// Option configures New.
type Option func(*options)

// WithLogger sets the logger used to report configuration warnings.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// New selects the node variant for cfg and constructs it.
func New(cfg Config, opts ...Option) (*Node, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Get(logger.ComponentNode)
	}

	op := cfg.Operation
	switch {
	case op == nil && cfg.ContextOperation == nil:
		return nil, errors.Configuration("operation is required")
	case op != nil && cfg.ContextOperation != nil:
		return nil, errors.Configuration("operation and context operation are mutually exclusive")
	case op == nil:
		op = cfg.ContextOperation
	}
	if isNilPointer(op) {
		return nil, errors.Configuration(fmt.Sprintf("operation %T is a nil pointer", op))
	}

	n := &Node{
		params:    operation.Params{},
		keyword:   cfg.ContextKeyword,
		stopwatch: timing.New(),
	}
	for k, v := range cfg.Parameters {
		n.params[k] = v
	}

	switch impl := op.(type) {
	case operation.Algorithm:
		if err := checkAlgorithm(impl); err != nil {
			return nil, err
		}
		n.kind, n.algorithm = KindAlgorithm, impl
	case operation.Probe:
		if impl.InputType() == nil {
			return nil, errors.Configuration(fmt.Sprintf("probe %s declares no input type", impl.Name()))
		}
		n.kind, n.probe = KindProbeInjector, impl
		if cfg.ContextKeyword != "" {
			n.kind = KindProbeCollector
		}
	case operation.ContextOperation:
		n.kind, n.contextOp = KindContextOnly, impl
	default:
		return nil, errors.Configuration(fmt.Sprintf("unsupported operation type %T", op))
	}

	if cfg.ContextOperation != nil && n.kind != KindContextOnly {
		return nil, errors.Configuration(fmt.Sprintf("context operation %s is not a context operation", n.OperationName()))
	}
	if cfg.ContextKeyword != "" && !n.kind.IsProbe() {
		return nil, errors.Configuration(fmt.Sprintf("context keyword %q given for %s node %s",
			cfg.ContextKeyword, n.kind, n.OperationName()))
	}
	n.name = util.Coalesce(cfg.Name, n.OperationName())

	if unknown := util.Difference(util.SortedKeys(cfg.Parameters), n.ParameterNames()); len(unknown) > 0 {
		o.log.Warn("parameters not declared by operation", logger.Fields(
			logger.FieldNode, n.name,
			logger.FieldOperation, n.OperationName(),
			"parameters", unknown,
		))
	}
	return n, nil
}

// isNilPointer reports a typed nil stored in an interface, which the plain
// nil checks above let through.
func isNilPointer(op any) bool {
	v := reflect.ValueOf(op)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}

func checkAlgorithm(a operation.Algorithm) error {
	in, out := a.InputType(), a.OutputType()
	switch {
	case in == nil:
		return errors.Configuration(fmt.Sprintf("algorithm %s declares no input type", a.Name()))
	case out == nil:
		return errors.Configuration(fmt.Sprintf("algorithm %s declares no output type", a.Name()))
	case out.IsCollection() && out.Elem() == nil:
		return errors.Configuration(fmt.Sprintf("algorithm %s output %s has no element type", a.Name(), out.Name()))
	}
	return nil
}

// Kind returns the node variant.
func (n *Node) Kind() Kind { return n.kind }

// Name returns the configured name, defaulting to the operation name.
func (n *Node) Name() string { return n.name }

// OperationName returns the name of the wrapped operation.
func (n *Node) OperationName() string {
	switch n.kind {
	case KindAlgorithm:
		return n.algorithm.Name()
	case KindProbeInjector, KindProbeCollector:
		return n.probe.Name()
	case KindContextOnly:
		return n.contextOp.Name()
	}
	return ""
}

// InputType returns the declared input type. Context-only nodes accept any data.
func (n *Node) InputType() *payload.Type {
	switch n.kind {
	case KindAlgorithm:
		return n.algorithm.InputType()
	case KindProbeInjector, KindProbeCollector:
		return n.probe.InputType()
	}
	return payload.AnyData
}

// OutputType returns the declared output type of an algorithm node, or nil
// for nodes that leave the data type unchanged.
func (n *Node) OutputType() *payload.Type {
	if n.kind == KindAlgorithm {
		return n.algorithm.OutputType()
	}
	return nil
}

// ParameterNames returns the parameters the operation declares.
func (n *Node) ParameterNames() []string {
	switch n.kind {
	case KindAlgorithm:
		return n.algorithm.ParameterNames()
	case KindProbeInjector, KindProbeCollector:
		return n.probe.ParameterNames()
	case KindContextOnly:
		return n.contextOp.ParameterNames()
	}
	return nil
}

// Parameters returns a copy of the explicit parameter values.
func (n *Node) Parameters() map[string]any {
	out := make(map[string]any, len(n.params))
	for k, v := range n.params {
		out[k] = v
	}
	return out
}

// Parameter returns the explicit value configured for name.
func (n *Node) Parameter(name string) (any, bool) {
	v, ok := n.params[name]
	return v, ok
}

// ContextKeyword returns the key a probe collector writes to.
func (n *Node) ContextKeyword() string { return n.keyword }

// CreatedKeys returns the context keys the node writes.
func (n *Node) CreatedKeys() []string {
	switch n.kind {
	case KindProbeCollector:
		return []string{n.keyword}
	case KindContextOnly:
		return n.contextOp.CreatedKeys()
	}
	return nil
}

// Algorithm returns the wrapped algorithm of an algorithm node.
func (n *Node) Algorithm() operation.Algorithm { return n.algorithm }

// Probe returns the wrapped probe of a probe node.
func (n *Node) Probe() operation.Probe { return n.probe }

// ContextOperation returns the wrapped operation of a context-only node.
func (n *Node) ContextOperation() operation.ContextOperation { return n.contextOp }

// Stopwatch returns the node's timer.
func (n *Node) Stopwatch() *timing.Stopwatch { return n.stopwatch }

func (n *Node) String() string {
	return fmt.Sprintf("%s(%s)", n.OperationName(), n.kind)
}
