// Package server exposes registered pipelines over HTTP for read-only
// introspection: structure, probe ledgers, timers and build info.
//
// Hosts either run the bundled Server or mount the routes on their own
// Gin router with RegisterRoutes.
package server
