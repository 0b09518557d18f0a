// Package pipeline assembles nodes into a linear, type-checked pipeline and
// runs (data, context) payloads through it.
//
// Each Append checks the new node's input type against the output of the
// last algorithm node. At run time every node is dispatched in one of three
// ways:
//
//   - data assignable to the node input: one call with the whole payload
//   - a collection whose element type is the node input: one call per
//     element (slicing), paired index-wise with a context collection or
//     reading a single shared context record
//   - anything else: TOPOLOGY_MISMATCH
//
// When the context is a single record and the node is sliced, results the
// per-element calls could produce for the record are not propagated; only a
// probe collector writes its ordered per-slice values into that record. This
// asymmetry is deliberate and kept stable.
//
// Probe collectors also append one record per run to the pipeline's Ledger,
// exposed through ProbeResults. Inspect and Timers report structure and
// per-node timing.
//
//	p, err := pipeline.New([]node.Config{
//	    {Operation: addConstant, Parameters: map[string]any{"addend": 5}},
//	    {Operation: mean, ContextKeyword: "mean"},
//	}, pipeline.WithName("demo"), pipeline.WithParallelism(4))
//	data, ctx, err := p.Process(ctx, input, payload.NewContextRecord())
package pipeline
