// Package observability provides OpenTelemetry tracing and metrics for
// pipeline runs.
//
// Providers export over OTLP HTTP. Hosts normally start them through
// config.EngineConfig.StartTelemetry; directly:
//
//	svc := observability.Service{Name: "denoise", Version: "v1.2.0", Environment: "production"}
//	var cfg observability.Config
//	cfg.ApplyDefaults()
//	providers, err := observability.Start(ctx, svc, cfg, true, true)
//	defer providers.Shutdown(ctx)
//
// Run instrumentation, as used by the pipeline engine. Each run gets a
// "pipeline.run" span with one "pipeline.node" child per node invocation;
// position, operation and kind are span attributes.
//
//	metrics, err := observability.NewMetrics(observability.Meter("denoise"))
//	ro := observability.NewRunObservation(name, pipelineID, runID, metrics, true)
//	ctx, span := ro.StartRun(ctx)
//	defer ro.EndRun(ctx, span, err)
package observability
