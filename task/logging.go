package task

import (
	"context"
	"time"

	"github.com/kbukum/flowkit/logger"
	"github.com/kbukum/flowkit/payload"
)

// SourceWithLogging wraps a Source with call logging.
// Logs: source name, duration, and success/error status.
func SourceWithLogging(src Source, log *logger.Logger) Source {
	return &loggingSource{inner: src, log: log}
}

type loggingSource struct {
	inner Source
	log   *logger.Logger
}

func (s *loggingSource) Name() string { return s.inner.Name() }

func (s *loggingSource) GetData(ctx context.Context, params map[string]any) (payload.Data, payload.Context, error) {
	start := time.Now()
	data, pctx, err := s.inner.GetData(ctx, params)

	fields := map[string]interface{}{
		"source":             s.inner.Name(),
		logger.FieldDuration: time.Since(start).Milliseconds(),
	}
	if err != nil {
		fields[logger.FieldError] = err.Error()
		s.log.Error("source read failed", fields)
	} else {
		fields["data"] = data.DataType().Name()
		s.log.Debug("source read", fields)
	}
	return data, pctx, err
}

// SinkWithLogging wraps a Sink with call logging.
func SinkWithLogging(sink Sink, log *logger.Logger) Sink {
	return &loggingSink{inner: sink, log: log}
}

type loggingSink struct {
	inner Sink
	log   *logger.Logger
}

func (s *loggingSink) Name() string { return s.inner.Name() }

func (s *loggingSink) SendPayload(ctx context.Context, data payload.Data, pctx payload.Context, params map[string]any) error {
	start := time.Now()
	err := s.inner.SendPayload(ctx, data, pctx, params)

	fields := map[string]interface{}{
		"sink":               s.inner.Name(),
		logger.FieldDuration: time.Since(start).Milliseconds(),
	}
	if err != nil {
		fields[logger.FieldError] = err.Error()
		s.log.Error("sink write failed", fields)
	} else {
		s.log.Debug("sink written", fields)
	}
	return err
}
