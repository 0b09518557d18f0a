package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kbukum/flowkit/timing"
	"github.com/kbukum/flowkit/util"
)

// Summary describes a pipeline's structure. RequiredContext lists the
// context-sourced parameters that no earlier node creates.
type Summary struct {
	Name            string        `json:"name"`
	ID              string        `json:"id"`
	RequiredContext []string      `json:"required_context"`
	Nodes           []NodeSummary `json:"nodes"`
}

// NodeSummary describes one node.
type NodeSummary struct {
	Position    int            `json:"position"`
	Name        string         `json:"name"`
	Operation   string         `json:"operation"`
	Kind        string         `json:"kind"`
	InputType   string         `json:"input_type"`
	OutputType  string         `json:"output_type,omitempty"`
	Parameters  []string       `json:"parameters"`
	FromConfig  map[string]any `json:"from_config"`
	FromContext []string       `json:"from_context"`
	CreatedKeys []string       `json:"created_keys"`
}

// Inspect returns the structure of the pipeline: per node, its declared
// parameters split by source and the context keys it creates.
func (p *Pipeline) Inspect() Summary {
	s := Summary{Name: p.name, ID: p.id, RequiredContext: []string{}}
	available := map[string]bool{}

	for i, n := range p.Nodes() {
		declared := append([]string{}, n.ParameterNames()...)
		sort.Strings(declared)
		explicit := n.Parameters()

		ns := NodeSummary{
			Position:    i + 1,
			Name:        n.Name(),
			Operation:   n.OperationName(),
			Kind:        n.Kind().String(),
			InputType:   n.InputType().Name(),
			Parameters:  declared,
			FromConfig:  explicit,
			FromContext: util.Difference(declared, util.SortedKeys(explicit)),
			CreatedKeys: append([]string{}, n.CreatedKeys()...),
		}
		if out := n.OutputType(); out != nil {
			ns.OutputType = out.Name()
		}
		sort.Strings(ns.CreatedKeys)

		for _, name := range ns.FromContext {
			if !available[name] {
				s.RequiredContext = append(s.RequiredContext, name)
			}
		}
		for _, key := range ns.CreatedKeys {
			available[key] = true
		}
		s.Nodes = append(s.Nodes, ns)
	}

	s.RequiredContext = util.Unique(s.RequiredContext)
	sort.Strings(s.RequiredContext)
	return s
}

// String renders the summary as text.
func (s Summary) String() string {
	var b strings.Builder
	b.WriteString("Pipeline Structure:\n")
	fmt.Fprintf(&b, "Context parameters needed: %s\n", formatList(s.RequiredContext))
	for _, n := range s.Nodes {
		fmt.Fprintf(&b, "%d. Node: %s(%s)\n", n.Position, n.Operation, n.Kind)
		fmt.Fprintf(&b, "\tParameters: %s\n", formatList(n.Parameters))
		fmt.Fprintf(&b, "\t\tFrom pipeline configuration: %s\n", formatValues(n.FromConfig))
		fmt.Fprintf(&b, "\t\tFrom context: %s\n", formatList(n.FromContext))
		fmt.Fprintf(&b, "\tContext additions: %s\n", formatList(n.CreatedKeys))
	}
	return b.String()
}

func formatList(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}

func formatValues(values map[string]any) string {
	if len(values) == 0 {
		return "None"
	}
	parts := make([]string, 0, len(values))
	for _, k := range util.SortedKeys(values) {
		parts = append(parts, fmt.Sprintf("%s=%v", k, values[k]))
	}
	return strings.Join(parts, ", ")
}

// NodeTiming reports a node's stopwatch.
type NodeTiming struct {
	Position  int            `json:"position"`
	Operation string         `json:"operation"`
	Kind      string         `json:"kind"`
	Calls     int            `json:"calls"`
	Last      timing.Reading `json:"last"`
	Total     timing.Reading `json:"total"`
}

// Timers returns the per-node timing in execution order.
func (p *Pipeline) Timers() []NodeTiming {
	nodes := p.Nodes()
	timings := make([]NodeTiming, len(nodes))
	for i, n := range nodes {
		sw := n.Stopwatch()
		timings[i] = NodeTiming{
			Position:  i + 1,
			Operation: n.OperationName(),
			Kind:      n.Kind().String(),
			Calls:     sw.Laps(),
			Last:      sw.Last(),
			Total:     sw.Total(),
		}
	}
	return timings
}

// TimersString renders the per-node timers, one line per node.
func (p *Pipeline) TimersString() string {
	lines := make([]string, 0, p.Len())
	for _, t := range p.Timers() {
		lines = append(lines, fmt.Sprintf("\tNode %d: %s; \tElapsed CPU Time: %.6fs; \tElapsed Wall Time: %.6fs",
			t.Position, t.Operation, t.Total.CPU.Seconds(), t.Total.Wall.Seconds()))
	}
	return strings.Join(lines, "\n")
}

// Elapsed returns the cumulative time spent in Process.
func (p *Pipeline) Elapsed() timing.Reading {
	return p.stopwatch.Total()
}

// Runs returns the number of completed or failed Process calls.
func (p *Pipeline) Runs() int {
	return p.stopwatch.Laps()
}
