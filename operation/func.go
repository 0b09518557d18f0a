package operation

import (
	"context"

	"github.com/kbukum/flowkit/payload"
)

// AlgorithmFunc is the body of a function-backed Algorithm.
type AlgorithmFunc func(ctx context.Context, data payload.Data, params Params) (payload.Data, error)

// ProbeFunc is the body of a function-backed Probe.
type ProbeFunc func(ctx context.Context, data payload.Data, params Params) (any, error)

// TransformFunc is the body of a function-backed ContextOperation.
type TransformFunc func(ctx context.Context, record *payload.ContextRecord, params Params) (*payload.ContextRecord, error)

// FuncAlgorithm adapts a function to the Algorithm interface.
type FuncAlgorithm struct {
	name   string
	in     *payload.Type
	out    *payload.Type
	params []string
	fn     AlgorithmFunc
}

// NewAlgorithm creates an Algorithm from fn.
func NewAlgorithm(name string, in, out *payload.Type, params []string, fn AlgorithmFunc) *FuncAlgorithm {
	return &FuncAlgorithm{name: name, in: in, out: out, params: params, fn: fn}
}

func (a *FuncAlgorithm) Name() string              { return a.name }
func (a *FuncAlgorithm) InputType() *payload.Type  { return a.in }
func (a *FuncAlgorithm) OutputType() *payload.Type { return a.out }
func (a *FuncAlgorithm) ParameterNames() []string  { return append([]string(nil), a.params...) }

func (a *FuncAlgorithm) Apply(ctx context.Context, data payload.Data, params Params) (payload.Data, error) {
	return a.fn(ctx, data, params)
}

// FuncProbe adapts a function to the Probe interface.
type FuncProbe struct {
	name   string
	in     *payload.Type
	params []string
	fn     ProbeFunc
}

// NewProbe creates a Probe from fn.
func NewProbe(name string, in *payload.Type, params []string, fn ProbeFunc) *FuncProbe {
	return &FuncProbe{name: name, in: in, params: params, fn: fn}
}

func (p *FuncProbe) Name() string             { return p.name }
func (p *FuncProbe) InputType() *payload.Type { return p.in }
func (p *FuncProbe) ParameterNames() []string { return append([]string(nil), p.params...) }

func (p *FuncProbe) Observe(ctx context.Context, data payload.Data, params Params) (any, error) {
	return p.fn(ctx, data, params)
}

// FuncContextOperation adapts a function to the ContextOperation interface.
type FuncContextOperation struct {
	name    string
	params  []string
	created []string
	fn      TransformFunc
}

// NewContextOperation creates a ContextOperation from fn.
func NewContextOperation(name string, params, created []string, fn TransformFunc) *FuncContextOperation {
	return &FuncContextOperation{name: name, params: params, created: created, fn: fn}
}

func (c *FuncContextOperation) Name() string             { return c.name }
func (c *FuncContextOperation) ParameterNames() []string { return append([]string(nil), c.params...) }
func (c *FuncContextOperation) CreatedKeys() []string    { return append([]string(nil), c.created...) }

func (c *FuncContextOperation) Transform(ctx context.Context, record *payload.ContextRecord, params Params) (*payload.ContextRecord, error) {
	return c.fn(ctx, record, params)
}

var (
	_ Algorithm        = (*FuncAlgorithm)(nil)
	_ Probe            = (*FuncProbe)(nil)
	_ ContextOperation = (*FuncContextOperation)(nil)
)
