// Package timing provides the CPU and wall-clock stopwatch used for per-node
// and per-pipeline timers.
package timing
