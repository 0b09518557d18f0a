// Package config loads flowkit host configuration with Viper.
//
// Configuration comes from a YAML file, an optional .env file and the
// process environment, in that order of increasing precedence.
//
// # Usage
//
//	cfg, err := config.Load("denoise-service", config.WithEnvPrefix("FLOWKIT"))
//	opts, err := cfg.PipelineOptions()
//	p, err := pipeline.New(nodes, opts...)
//
// With the FLOWKIT prefix, FLOWKIT_EXECUTION_PARALLELISM=4 overrides
// execution.parallelism.
package config
