// Package logger provides structured logging for flowkit using zerolog.
//
// It supports JSON and console output, level configuration, component-scoped
// loggers, and a registry of named loggers. Pipelines log through
// logger.Get("pipeline") unless a logger is injected.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("loader")
//	log.Info("definition loaded", logger.Fields("pipeline", "denoise", "nodes", 4))
package logger
