package operation

import (
	"context"

	"github.com/kbukum/flowkit/payload"
)

// Algorithm transforms data. InputType and OutputType are static
// declarations checked when a pipeline is assembled.
type Algorithm interface {
	Name() string
	InputType() *payload.Type
	OutputType() *payload.Type
	ParameterNames() []string
	Apply(ctx context.Context, data payload.Data, params Params) (payload.Data, error)
}

// Probe observes data and returns a derived value without changing the data.
type Probe interface {
	Name() string
	InputType() *payload.Type
	ParameterNames() []string
	Observe(ctx context.Context, data payload.Data, params Params) (any, error)
}

// ContextOperation transforms a context record and never touches data.
// CreatedKeys lists the keys it writes.
type ContextOperation interface {
	Name() string
	ParameterNames() []string
	CreatedKeys() []string
	Transform(ctx context.Context, record *payload.ContextRecord, params Params) (*payload.ContextRecord, error)
}
