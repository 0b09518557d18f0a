package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/flowkit/errors"
)

// Status values recorded on spans and metrics.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// RunObservation holds the observability state of one pipeline run.
// A nil Metrics skips metric recording; Tracing false yields non-recording spans.
type RunObservation struct {
	PipelineName string
	PipelineID   string
	RunID        string
	StartTime    time.Time
	Metrics      *Metrics
	Tracing      bool
}

// NewRunObservation creates the observation for a run starting now.
func NewRunObservation(pipelineName, pipelineID, runID string, metrics *Metrics, tracing bool) *RunObservation {
	return &RunObservation{
		PipelineName: pipelineName,
		PipelineID:   pipelineID,
		RunID:        runID,
		StartTime:    time.Now(),
		Metrics:      metrics,
		Tracing:      tracing,
	}
}

type runObservationKey struct{}

// WithRunObservation stores a RunObservation in the context.
func WithRunObservation(ctx context.Context, ro *RunObservation) context.Context {
	return context.WithValue(ctx, runObservationKey{}, ro)
}

// RunObservationFromContext retrieves the RunObservation from context, or nil.
func RunObservationFromContext(ctx context.Context) *RunObservation {
	if ro, ok := ctx.Value(runObservationKey{}).(*RunObservation); ok {
		return ro
	}
	return nil
}

// StartRun opens the run span and records the run start metric.
func (ro *RunObservation) StartRun(ctx context.Context) (context.Context, trace.Span) {
	ctx = WithRunObservation(ctx, ro)
	if ro.Metrics != nil {
		ro.Metrics.RecordRunStart(ctx)
	}
	if !ro.Tracing {
		return ctx, noopSpan()
	}
	ctx, span := StartSpan(ctx, SpanPipelineRun)
	span.SetAttributes(
		attribute.String(AttrPipelineName, ro.PipelineName),
		attribute.String(AttrPipelineID, ro.PipelineID),
		attribute.String(AttrRunID, ro.RunID),
	)
	return ctx, span
}

// EndRun ends the run span and records the run end metric.
func (ro *RunObservation) EndRun(ctx context.Context, span trace.Span, err error) {
	duration := time.Since(ro.StartTime)
	status := statusOf(err)

	if err != nil {
		recordSpanError(span, err)
	}
	span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	span.End()

	if ro.Metrics != nil {
		ro.Metrics.RecordRunEnd(ctx, ro.PipelineName, status, duration)
	}
}

// StartNode opens a child span for one node invocation.
func (ro *RunObservation) StartNode(ctx context.Context, position int, operation, kind string) (context.Context, trace.Span) {
	if !ro.Tracing {
		return ctx, noopSpan()
	}
	ctx, span := StartSpan(ctx, SpanNodeProcess)
	span.SetAttributes(
		attribute.Int(AttrNodePosition, position),
		attribute.String(AttrOperationName, operation),
		attribute.String(AttrNodeKind, kind),
	)
	return ctx, span
}

// EndNode ends the node span and records the node metrics.
func (ro *RunObservation) EndNode(ctx context.Context, span trace.Span, operation, kind string, slices int, duration time.Duration, err error) {
	status := statusOf(err)
	if err != nil {
		recordSpanError(span, err)
	}
	span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int(AttrNodeSlices, slices),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	span.End()

	if ro.Metrics == nil {
		return
	}
	ro.Metrics.RecordNode(ctx, ro.PipelineName, operation, kind, status, slices, duration)
	if err != nil {
		ro.Metrics.RecordError(ctx, errorCode(err), operation)
	}
}

// Duration returns the elapsed time since the run started.
func (ro *RunObservation) Duration() time.Duration {
	return time.Since(ro.StartTime)
}

func noopSpan() trace.Span {
	return trace.SpanFromContext(context.Background())
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetAttributes(
		attribute.String(AttrErrorCode, errorCode(err)),
		attribute.String(AttrErrorMessage, err.Error()),
	)
}

func statusOf(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusOK
}

func errorCode(err error) string {
	if appErr, ok := errors.AsAppError(err); ok {
		return string(appErr.Code)
	}
	return string(errors.ErrCodeInternal)
}
