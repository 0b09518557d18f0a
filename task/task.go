package task

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/flowkit/errors"
	"github.com/kbukum/flowkit/logger"
	"github.com/kbukum/flowkit/payload"
)

// Source produces the input payload of a task.
type Source interface {
	Name() string
	GetData(ctx context.Context, params map[string]any) (payload.Data, payload.Context, error)
}

// Sink consumes the output payload of a task.
type Sink interface {
	Name() string
	SendPayload(ctx context.Context, data payload.Data, pctx payload.Context, params map[string]any) error
}

// Processor transforms a payload. *pipeline.Pipeline implements it.
type Processor interface {
	Name() string
	Process(ctx context.Context, data payload.Data, pctx payload.Context) (payload.Data, payload.Context, error)
}

// Task reads a payload from a source, runs it through a processor and hands
// the result to a sink.
type Task struct {
	source       Source
	sourceParams map[string]any
	processor    Processor
	sink         Sink
	sinkParams   map[string]any
	log          *logger.Logger
}

// Option configures a Task.
type Option func(*Task)

// WithSourceParams sets the parameters passed to Source.GetData.
func WithSourceParams(params map[string]any) Option {
	return func(t *Task) { t.sourceParams = params }
}

// WithSinkParams sets the parameters passed to Sink.SendPayload.
func WithSinkParams(params map[string]any) Option {
	return func(t *Task) { t.sinkParams = params }
}

// WithLogger sets the logger. The default is the "task" component logger.
func WithLogger(l *logger.Logger) Option {
	return func(t *Task) { t.log = l }
}

// New creates a task. All three stages are required.
func New(source Source, processor Processor, sink Sink, opts ...Option) (*Task, error) {
	switch {
	case source == nil:
		return nil, errors.Configuration("task source is required")
	case processor == nil:
		return nil, errors.Configuration("task processor is required")
	case sink == nil:
		return nil, errors.Configuration("task sink is required")
	}
	t := &Task{source: source, processor: processor, sink: sink}
	for _, opt := range opts {
		opt(t)
	}
	if t.log == nil {
		t.log = logger.Get(logger.ComponentTask)
	}
	return t, nil
}

// Run executes the task once and returns the processed payload. The sink
// is not called when the source or the processor fails.
func (t *Task) Run(ctx context.Context) (payload.Data, payload.Context, error) {
	start := time.Now()
	fields := logger.Fields("source", t.source.Name(), "processor", t.processor.Name(), "sink", t.sink.Name())

	data, pctx, err := t.source.GetData(ctx, t.sourceParams)
	if err != nil {
		return nil, nil, t.fail("source", t.source.Name(), err, fields)
	}
	data, pctx, err = t.processor.Process(ctx, data, pctx)
	if err != nil {
		return nil, nil, t.fail("processor", t.processor.Name(), err, fields)
	}
	if err := t.sink.SendPayload(ctx, data, pctx, t.sinkParams); err != nil {
		return nil, nil, t.fail("sink", t.sink.Name(), err, fields)
	}

	fields[logger.FieldDuration] = time.Since(start).Milliseconds()
	t.log.Info("task completed", fields)
	return data, pctx, nil
}

func (t *Task) fail(stage, name string, err error, fields map[string]interface{}) error {
	fields["stage"] = stage
	t.log.Error("task failed", logger.MergeWithError(fields, err))

	appErr, ok := errors.AsAppError(err)
	if !ok {
		appErr = errors.Internal(fmt.Errorf("%s %s: %w", stage, name, err))
	}
	return appErr.WithDetail("stage", stage)
}
