package pipeline

import (
	"context"

	"github.com/kbukum/flowkit/operation"
	"github.com/kbukum/flowkit/payload"
)

// Subpipeline runs a pipeline as a single algorithm inside another one.
// Its parameters are the inner pipeline's required context; the resolved
// values become the inner run's context record.
type Subpipeline struct {
	p   *Pipeline
	in  *payload.Type
	out *payload.Type
}

// AsAlgorithm wraps p as an algorithm declaring in and out, so it can be
// appended to another pipeline and take part in topology checks.
func AsAlgorithm(p *Pipeline, in, out *payload.Type) *Subpipeline {
	return &Subpipeline{p: p, in: in, out: out}
}

func (s *Subpipeline) Name() string              { return s.p.Name() }
func (s *Subpipeline) InputType() *payload.Type  { return s.in }
func (s *Subpipeline) OutputType() *payload.Type { return s.out }
func (s *Subpipeline) ParameterNames() []string  { return s.p.Inspect().RequiredContext }

// Pipeline returns the wrapped pipeline.
func (s *Subpipeline) Pipeline() *Pipeline { return s.p }

// Apply runs the inner pipeline with params as its context.
func (s *Subpipeline) Apply(ctx context.Context, data payload.Data, params operation.Params) (payload.Data, error) {
	out, _, err := s.p.Process(ctx, data, payload.RecordFrom(params))
	return out, err
}

// contains reports whether target is s's pipeline or nested anywhere inside it.
func (s *Subpipeline) contains(target *Pipeline) bool {
	if s.p == target {
		return true
	}
	for _, n := range s.p.Nodes() {
		if sub, ok := n.Algorithm().(*Subpipeline); ok && sub.contains(target) {
			return true
		}
	}
	return false
}

var _ operation.Algorithm = (*Subpipeline)(nil)
