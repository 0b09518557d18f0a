package config

import (
	"context"

	"github.com/kbukum/flowkit/loader"
	"github.com/kbukum/flowkit/observability"
	"github.com/kbukum/flowkit/pipeline"
	"github.com/kbukum/flowkit/server"
	"github.com/kbukum/flowkit/util"
	"github.com/kbukum/flowkit/validation"
	"github.com/kbukum/flowkit/version"
)

// EngineConfig configures pipeline execution for a host process.
//
//	name: denoise-service
//	logging:
//	  level: debug
//	execution:
//	  parallelism: 4
//	  tracing: true
//	telemetry:
//	  tracer:
//	    endpoint: collector:4318
//	pipelines:
//	  dirs: ["./pipelines"]
//	server:
//	  enabled: true
//	  port: 9090
type EngineConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Execution     ExecutionConfig      `yaml:"execution" mapstructure:"execution"`
	Telemetry     observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
	Pipelines     PipelinesConfig      `yaml:"pipelines" mapstructure:"pipelines"`
	Server        server.Config        `yaml:"server" mapstructure:"server"`
}

// ExecutionConfig controls how pipelines run.
type ExecutionConfig struct {
	// Parallelism bounds concurrent element calls during slicing; 0 or 1 runs sequentially.
	Parallelism int `yaml:"parallelism" mapstructure:"parallelism" validate:"gte=0,lte=1024"`
	// Tracing opens a span per run and per node.
	Tracing bool `yaml:"tracing" mapstructure:"tracing"`
	// Metrics records run and node instruments on the global meter.
	Metrics bool `yaml:"metrics" mapstructure:"metrics"`
}

// PipelinesConfig locates YAML pipeline definitions.
type PipelinesConfig struct {
	Dirs []string `yaml:"dirs" mapstructure:"dirs" validate:"dive,required"`
}

// ApplyDefaults applies defaults to the engine configuration.
func (c *EngineConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	if len(c.Pipelines.Dirs) == 0 {
		c.Pipelines.Dirs = []string{"./pipelines"}
	}
	c.Server.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
}

// Validate runs struct-tag validation and the base checks.
func (c *EngineConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	return validation.Validate(c)
}

// Loader returns a file loader over the configured definition directories.
func (c *EngineConfig) Loader() *loader.FileLoader {
	return loader.NewFileLoader(c.Pipelines.Dirs...)
}

// StartTelemetry starts the OTLP providers for the enabled execution
// settings. Call it before PipelineOptions so metrics bind to the exporting
// meter provider, and shut the result down on exit.
func (c *EngineConfig) StartTelemetry(ctx context.Context) (*observability.Providers, error) {
	svc := observability.Service{
		Name:        c.Name,
		Version:     util.Coalesce(c.Version, version.GetShortVersion()),
		Environment: c.Environment,
	}
	return observability.Start(ctx, svc, c.Telemetry, c.Execution.Tracing, c.Execution.Metrics)
}

// PipelineOptions translates the execution settings into pipeline options.
func (c *EngineConfig) PipelineOptions() ([]pipeline.Option, error) {
	opts := []pipeline.Option{
		pipeline.WithParallelism(c.Execution.Parallelism),
	}
	if c.Execution.Tracing {
		opts = append(opts, pipeline.WithTracing())
	}
	if c.Execution.Metrics {
		m, err := observability.NewMetrics(observability.Meter(c.Name))
		if err != nil {
			return nil, err
		}
		opts = append(opts, pipeline.WithMetrics(m))
	}
	return opts, nil
}

// Load reads, defaults and validates an EngineConfig for serviceName.
func Load(serviceName string, opts ...LoaderOption) (*EngineConfig, error) {
	var cfg EngineConfig
	if err := LoadConfig(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.Name == "" {
		cfg.Name = serviceName
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
