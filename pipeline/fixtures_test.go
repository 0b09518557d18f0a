package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/kbukum/flowkit/logger"
	"github.com/kbukum/flowkit/node"
	"github.com/kbukum/flowkit/operation"
	"github.com/kbukum/flowkit/payload"
)

var (
	number     = payload.NewType("Number", nil)
	integer    = payload.NewType("Integer", number)
	text       = payload.NewType("Text", nil)
	integerSet = payload.NewCollectionType("IntegerSet", integer, nil)
	textSet    = payload.NewCollectionType("TextSet", text, nil)
)

func intValue(v int) *payload.Value[int] { return payload.NewValue(integer, v) }

func intSet(t *testing.T, values ...int) *payload.List {
	t.Helper()
	elems := make([]payload.Data, len(values))
	for i, v := range values {
		elems[i] = intValue(v)
	}
	l, err := payload.NewList(integerSet, elems...)
	if err != nil {
		t.Fatalf("NewList() error = %v", err)
	}
	return l
}

func ints(t *testing.T, d payload.Data) []int {
	t.Helper()
	coll, ok := d.(payload.Collection)
	if !ok {
		t.Fatalf("expected collection, got %T", d)
	}
	out := make([]int, coll.Len())
	for i, e := range coll.Elements() {
		out[i] = e.(*payload.Value[int]).Get()
	}
	return out
}

func addConstant() *operation.FuncAlgorithm {
	return operation.NewAlgorithm("AddConstant", integer, integer, []string{"addend"},
		func(_ context.Context, d payload.Data, p operation.Params) (payload.Data, error) {
			addend, err := p.Int("addend")
			if err != nil {
				return nil, err
			}
			return intValue(d.(*payload.Value[int]).Get() + addend), nil
		})
}

func sum() *operation.FuncAlgorithm {
	return operation.NewAlgorithm("Sum", integerSet, integer, nil,
		func(_ context.Context, d payload.Data, _ operation.Params) (payload.Data, error) {
			total := 0
			for _, e := range d.(payload.Collection).Elements() {
				total += e.(*payload.Value[int]).Get()
			}
			return intValue(total), nil
		})
}

func toText() *operation.FuncAlgorithm {
	return operation.NewAlgorithm("ToText", integer, text, nil,
		func(_ context.Context, d payload.Data, _ operation.Params) (payload.Data, error) {
			return payload.NewValue(text, fmt.Sprint(d.(*payload.Value[int]).Get())), nil
		})
}

func upper() *operation.FuncAlgorithm {
	return operation.NewAlgorithm("Upper", text, text, nil,
		func(_ context.Context, d payload.Data, _ operation.Params) (payload.Data, error) {
			return d, nil
		})
}

// valueProbe returns the element value times factor.
func valueProbe(calls *atomic.Int32) *operation.FuncProbe {
	return operation.NewProbe("ValueProbe", integer, []string{"factor"},
		func(_ context.Context, d payload.Data, p operation.Params) (any, error) {
			if calls != nil {
				calls.Add(1)
			}
			factor, err := p.Int("factor")
			if err != nil {
				return nil, err
			}
			return d.(*payload.Value[int]).Get() * factor, nil
		})
}

func lenProbe() *operation.FuncProbe {
	return operation.NewProbe("LenProbe", integerSet, nil,
		func(_ context.Context, d payload.Data, _ operation.Params) (any, error) {
			return d.(payload.Collection).Len(), nil
		})
}

// setKey writes the "value" parameter under the "derived" key.
func setKey() *operation.FuncContextOperation {
	return operation.NewContextOperation("SetDerived", []string{"value"}, []string{"derived"},
		func(_ context.Context, r *payload.ContextRecord, p operation.Params) (*payload.ContextRecord, error) {
			out := r.Clone()
			out.Set("derived", p["value"])
			return out, nil
		})
}

func mustPipeline(t *testing.T, configs []node.Config, opts ...Option) *Pipeline {
	t.Helper()
	opts = append([]Option{WithLogger(logger.Nop())}, opts...)
	p, err := New(configs, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return p
}
