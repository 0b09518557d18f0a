package observability

import (
	"context"
	stderrors "errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

const defaultEndpoint = "localhost:4318"

// Config holds the OTLP export settings for pipeline telemetry.
//
//	telemetry:
//	  tracer:
//	    endpoint: collector:4318
//	    sample_rate: 0.25
//	  meter:
//	    endpoint: collector:4318
//	    interval: 30s
type Config struct {
	Tracer TracerConfig `yaml:"tracer" mapstructure:"tracer"`
	Meter  MeterConfig  `yaml:"meter" mapstructure:"meter"`
}

// ExporterConfig points an OTLP HTTP exporter at a collector.
type ExporterConfig struct {
	// Endpoint is host:port of the collector.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure bool   `yaml:"insecure" mapstructure:"insecure"`
}

// TracerConfig configures span export for pipeline runs.
type TracerConfig struct {
	ExporterConfig `yaml:",inline" mapstructure:",squash"`
	// SampleRate is the fraction of runs traced. Zero means every run;
	// disable tracing with execution.tracing instead.
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

// MeterConfig configures metric export for pipeline runs.
type MeterConfig struct {
	ExporterConfig `yaml:",inline" mapstructure:",squash"`
	// Interval between exports.
	Interval time.Duration `yaml:"interval" mapstructure:"interval" validate:"gte=0"`
}

// ApplyDefaults fills unset endpoints, the sample rate and the export interval.
func (c *Config) ApplyDefaults() {
	if c.Tracer.Endpoint == "" {
		c.Tracer.Endpoint = defaultEndpoint
	}
	if c.Tracer.SampleRate == 0 {
		c.Tracer.SampleRate = 1.0
	}
	if c.Meter.Endpoint == "" {
		c.Meter.Endpoint = defaultEndpoint
	}
	if c.Meter.Interval == 0 {
		c.Meter.Interval = 15 * time.Second
	}
}

// Service identifies the host process on exported telemetry.
type Service struct {
	Name        string
	Version     string
	Environment string
}

func (s Service) resource() *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(s.Name),
		semconv.ServiceVersion(s.Version),
		semconv.DeploymentEnvironment(s.Environment),
		attribute.String("flowkit.component", "engine"),
	)
}

// Providers are the SDK providers a host started. Either may be nil.
type Providers struct {
	Tracer *sdktrace.TracerProvider
	Meter  *sdkmetric.MeterProvider
}

// Shutdown flushes and stops the started providers.
func (p *Providers) Shutdown(ctx context.Context) error {
	var errs []error
	if p.Tracer != nil {
		errs = append(errs, p.Tracer.Shutdown(ctx))
	}
	if p.Meter != nil {
		errs = append(errs, p.Meter.Shutdown(ctx))
	}
	return stderrors.Join(errs...)
}

// Start initializes the tracer and meter providers that are enabled. If the
// meter fails after the tracer started, the tracer is shut down again.
func Start(ctx context.Context, svc Service, cfg Config, tracing, metrics bool) (*Providers, error) {
	p := &Providers{}
	if tracing {
		tp, err := InitTracer(ctx, svc, cfg.Tracer)
		if err != nil {
			return nil, err
		}
		p.Tracer = tp
	}
	if metrics {
		mp, err := InitMeter(ctx, svc, cfg.Meter)
		if err != nil {
			return nil, stderrors.Join(err, p.Shutdown(ctx))
		}
		p.Meter = mp
	}
	return p, nil
}
