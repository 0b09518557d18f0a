package pipeline

import (
	"github.com/kbukum/flowkit/logger"
	"github.com/kbukum/flowkit/observability"
)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithName sets the pipeline name used in logs, spans and probe reports.
func WithName(name string) Option {
	return func(p *Pipeline) { p.name = name }
}

// WithLogger sets the logger. The default is the "pipeline" component logger.
func WithLogger(l *logger.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// WithParallelism bounds the number of concurrent element calls when a node
// is broadcast over a collection. Values below 2 keep execution sequential.
func WithParallelism(n int) Option {
	return func(p *Pipeline) { p.parallelism = n }
}

// WithTracing opens a span for every run and every node call.
func WithTracing() Option {
	return func(p *Pipeline) { p.tracing = true }
}

// WithMetrics records run and node metrics on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}
