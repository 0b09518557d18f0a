package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kbukum/flowkit/errors"
	"github.com/kbukum/flowkit/node"
	"github.com/kbukum/flowkit/operation"
	"github.com/kbukum/flowkit/payload"
)

// runNode dispatches one node against the current payload. Data whose type
// is assignable to the node input is passed whole; a collection whose
// element type equals the node input is broadcast element-wise; anything
// else is a topology mismatch. The returned int is the number of slices, 0
// for a whole call.
func (p *Pipeline) runNode(ctx context.Context, pos int, n *node.Node, data payload.Data, pctx payload.Context) (payload.Data, payload.Context, int, error) {
	in, got := n.InputType(), data.DataType()
	if got.AssignableTo(in) {
		out, outCtx, err := p.callWhole(ctx, pos, n, data, pctx)
		return out, outCtx, 0, err
	}
	if coll, ok := data.(payload.Collection); ok && got.IsCollection() && payload.ElemType(coll) == in {
		out, outCtx, err := p.broadcast(ctx, pos, n, coll, pctx)
		return out, outCtx, coll.Len(), err
	}
	return nil, nil, 0, errors.TopologyMismatch(pos, n.OperationName(), in.Name(), got.Name())
}

// callWhole runs the node once on the whole payload.
func (p *Pipeline) callWhole(ctx context.Context, pos int, n *node.Node, data payload.Data, pctx payload.Context) (payload.Data, payload.Context, error) {
	switch c := pctx.(type) {
	case *payload.ContextRecord:
		return p.callWithRecord(ctx, pos, n, data, c)
	case *payload.ContextCollection:
		return p.callWithCollection(ctx, pos, n, data, c)
	}
	return nil, nil, errors.Internal(fmt.Errorf("unsupported context type %T", pctx))
}

func (p *Pipeline) callWithRecord(ctx context.Context, pos int, n *node.Node, data payload.Data, rec *payload.ContextRecord) (payload.Data, payload.Context, error) {
	if n.Kind() == node.KindContextOnly {
		out, err := transform(ctx, pos, n, rec)
		if err != nil {
			return nil, nil, err
		}
		return data, out, nil
	}

	params, err := resolveParams(pos, n, rec)
	if err != nil {
		return nil, nil, err
	}
	switch n.Kind() {
	case node.KindAlgorithm:
		out, err := apply(ctx, pos, n, data, params)
		if err != nil {
			return nil, nil, err
		}
		return out, rec, nil
	case node.KindProbeInjector, node.KindProbeCollector:
		v, err := observe(ctx, pos, n, data, params)
		if err != nil {
			return nil, nil, err
		}
		if n.Kind() == node.KindProbeCollector {
			rec.Set(n.ContextKeyword(), v)
			p.ledger.Append(NodeKey(pos, n), v)
		}
		return data, rec, nil
	}
	return nil, nil, errors.Internal(fmt.Errorf("unknown node kind %d", n.Kind()))
}

// callWithCollection runs the node once on unsliced data paired with a
// context collection. Context-only nodes transform each record index-wise.
func (p *Pipeline) callWithCollection(ctx context.Context, pos int, n *node.Node, data payload.Data, cc *payload.ContextCollection) (payload.Data, payload.Context, error) {
	if n.Kind() == node.KindContextOnly {
		records := make([]*payload.ContextRecord, cc.Len())
		for i, rec := range cc.Records() {
			out, err := transform(ctx, pos, n, rec)
			if err != nil {
				return nil, nil, withElement(err, i)
			}
			records[i] = out
		}
		return data, payload.NewContextCollection(records...), nil
	}

	params, err := resolveSharedParams(pos, n, cc)
	if err != nil {
		return nil, nil, err
	}
	switch n.Kind() {
	case node.KindAlgorithm:
		out, err := apply(ctx, pos, n, data, params)
		if err != nil {
			return nil, nil, err
		}
		return out, cc, nil
	case node.KindProbeInjector, node.KindProbeCollector:
		v, err := observe(ctx, pos, n, data, params)
		if err != nil {
			return nil, nil, err
		}
		if n.Kind() == node.KindProbeCollector {
			for _, rec := range cc.Records() {
				rec.Set(n.ContextKeyword(), v)
			}
			p.ledger.Append(NodeKey(pos, n), v)
		}
		return data, cc, nil
	}
	return nil, nil, errors.Internal(fmt.Errorf("unknown node kind %d", n.Kind()))
}

// broadcast runs the node once per element of coll.
//
// With a context collection, element i is paired with record i and both
// results replace the running payload. With a single record, every element
// call reads the same record and only the data results are kept: the record
// handed to the next node is the original one, into which a probe collector
// writes its per-slice values.
func (p *Pipeline) broadcast(ctx context.Context, pos int, n *node.Node, coll payload.Collection, pctx payload.Context) (payload.Data, payload.Context, error) {
	elems := coll.Elements()

	switch c := pctx.(type) {
	case *payload.ContextCollection:
		if c.Len() != len(elems) {
			return nil, nil, errors.ShapeMismatch(pos, n.OperationName(), len(elems), c.Len())
		}
		records := c.Records()
		results, err := p.eachElement(ctx, pos, n, elems, func(i int) (operation.Params, error) {
			return resolveParams(pos, n, records[i])
		})
		if err != nil {
			return nil, nil, err
		}
		out, err := p.reassemble(pos, n, coll, results)
		if err != nil {
			return nil, nil, err
		}
		if n.Kind() == node.KindProbeCollector {
			values := make([]any, len(results))
			for i, r := range results {
				rec := records[i].Clone()
				rec.Set(n.ContextKeyword(), r.value)
				records[i] = rec
				values[i] = r.value
			}
			p.ledger.Append(NodeKey(pos, n), values)
		}
		return out, payload.NewContextCollection(records...), nil

	case *payload.ContextRecord:
		results, err := p.eachElement(ctx, pos, n, elems, func(int) (operation.Params, error) {
			return resolveParams(pos, n, c)
		})
		if err != nil {
			return nil, nil, err
		}
		out, err := p.reassemble(pos, n, coll, results)
		if err != nil {
			return nil, nil, err
		}
		if n.Kind() == node.KindProbeCollector {
			values := make([]any, len(results))
			for i, r := range results {
				values[i] = r.value
			}
			c.Set(n.ContextKeyword(), values)
			p.ledger.Append(NodeKey(pos, n), values)
		}
		return out, c, nil
	}
	return nil, nil, errors.Internal(fmt.Errorf("unsupported context type %T", pctx))
}

type elementResult struct {
	data  payload.Data
	value any
}

// eachElement calls the node on every element, sequentially or on a bounded
// errgroup. Results are stored by index; the first error aborts the call.
func (p *Pipeline) eachElement(ctx context.Context, pos int, n *node.Node, elems []payload.Data,
	paramsFor func(i int) (operation.Params, error)) ([]elementResult, error) {
	results := make([]elementResult, len(elems))

	call := func(ctx context.Context, i int) error {
		if err := ctx.Err(); err != nil {
			return errors.Canceled(err)
		}
		params, err := paramsFor(i)
		if err != nil {
			return withElement(err, i)
		}
		switch n.Kind() {
		case node.KindAlgorithm:
			out, err := apply(ctx, pos, n, elems[i], params)
			if err != nil {
				return withElement(err, i)
			}
			results[i] = elementResult{data: out}
		case node.KindProbeInjector, node.KindProbeCollector:
			v, err := observe(ctx, pos, n, elems[i], params)
			if err != nil {
				return withElement(err, i)
			}
			results[i] = elementResult{data: elems[i], value: v}
		default:
			return errors.Internal(fmt.Errorf("node kind %s cannot be broadcast", n.Kind()))
		}
		return nil
	}

	if p.parallelism < 2 || len(elems) < 2 {
		for i := range elems {
			if err := call(ctx, i); err != nil {
				return nil, err
			}
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.parallelism)
	for i := range elems {
		i := i
		g.Go(func() error { return call(gctx, i) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// reassemble rebuilds a collection of the same concrete type from the
// element results of an algorithm. Probes leave the collection untouched.
func (p *Pipeline) reassemble(pos int, n *node.Node, coll payload.Collection, results []elementResult) (payload.Data, error) {
	if n.Kind() != node.KindAlgorithm {
		return coll, nil
	}
	elems := make([]payload.Data, len(results))
	for i, r := range results {
		elems[i] = r.data
	}
	out, err := coll.Rebuild(elems)
	if err != nil {
		return nil, errors.OperationFailed(pos, n.OperationName(), err).
			WithDetail("reason", "element results do not fit "+coll.DataType().Name())
	}
	return out, nil
}

func apply(ctx context.Context, pos int, n *node.Node, data payload.Data, params operation.Params) (payload.Data, error) {
	out, err := n.Algorithm().Apply(ctx, data, params)
	if err != nil {
		return nil, operationError(ctx, pos, n, err)
	}
	if out == nil {
		return nil, errors.OperationFailed(pos, n.OperationName(), fmt.Errorf("algorithm returned nil data"))
	}
	return out, nil
}

func observe(ctx context.Context, pos int, n *node.Node, data payload.Data, params operation.Params) (any, error) {
	v, err := n.Probe().Observe(ctx, data, params)
	if err != nil {
		return nil, operationError(ctx, pos, n, err)
	}
	return v, nil
}

func transform(ctx context.Context, pos int, n *node.Node, rec *payload.ContextRecord) (*payload.ContextRecord, error) {
	params, err := resolveParams(pos, n, rec)
	if err != nil {
		return nil, err
	}
	out, err := n.ContextOperation().Transform(ctx, rec, params)
	if err != nil {
		return nil, operationError(ctx, pos, n, err)
	}
	if out == nil {
		return nil, errors.OperationFailed(pos, n.OperationName(), fmt.Errorf("context operation returned nil record"))
	}
	return out, nil
}

func operationError(ctx context.Context, pos int, n *node.Node, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.Canceled(ctxErr).WithDetail("position", pos)
	}
	return errors.OperationFailed(pos, n.OperationName(), err)
}

func withElement(err error, i int) error {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr.WithDetail("element", i)
	}
	return err
}
