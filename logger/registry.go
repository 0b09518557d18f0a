package logger

import (
	"sort"
	"sync"
)

// Component names used by flowkit packages.
const (
	ComponentPipeline  = "pipeline"
	ComponentNode      = "node"
	ComponentLoader    = "loader"
	ComponentTask      = "task"
	ComponentServer    = "server"
	ComponentTelemetry = "telemetry"
)

// registry is the global named-logger registry.
var registry = &loggerRegistry{
	loggers: make(map[string]*Logger),
}

type loggerRegistry struct {
	mu      sync.RWMutex
	loggers map[string]*Logger
}

// Register stores a named logger in the registry.
func Register(name string, l *Logger) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.loggers[name] = l
}

// Get retrieves a named logger. If the name is not registered it returns the
// global logger tagged with the requested component name.
func Get(name string) *Logger {
	registry.mu.RLock()
	l, ok := registry.loggers[name]
	registry.mu.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}

// Names returns the sorted names of registered loggers.
func Names() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	names := make([]string, 0, len(registry.loggers))
	for name := range registry.loggers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterDefaults registers component loggers derived from the global logger.
// With no names it seeds every flowkit component.
func RegisterDefaults(names ...string) {
	if len(names) == 0 {
		names = []string{ComponentPipeline, ComponentNode, ComponentLoader, ComponentTask, ComponentServer, ComponentTelemetry}
	}
	for _, name := range names {
		Register(name, GetGlobalLogger().WithComponent(name))
	}
}
