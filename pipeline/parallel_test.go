package pipeline

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/kbukum/flowkit/errors"
	"github.com/kbukum/flowkit/node"
	"github.com/kbukum/flowkit/operation"
	"github.com/kbukum/flowkit/payload"
)

// slowIncrement sleeps longer for smaller values so that completion order
// differs from element order.
func slowIncrement(active, peak *atomic.Int32) *operation.FuncAlgorithm {
	return operation.NewAlgorithm("SlowIncrement", integer, integer, nil,
		func(_ context.Context, d payload.Data, _ operation.Params) (payload.Data, error) {
			now := active.Add(1)
			defer active.Add(-1)
			for {
				prev := peak.Load()
				if now <= prev || peak.CompareAndSwap(prev, now) {
					break
				}
			}
			v := d.(*payload.Value[int]).Get()
			time.Sleep(time.Duration(10-v) * time.Millisecond)
			return intValue(v + 1), nil
		})
}

func TestProcess_ParallelPreservesOrder(t *testing.T) {
	var active, peak atomic.Int32
	p := mustPipeline(t, []node.Config{{Operation: slowIncrement(&active, &peak)}}, WithParallelism(3))

	out, _, err := p.Process(context.Background(), intSet(t, 1, 2, 3, 4, 5, 6), nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if diff := cmp.Diff([]int{2, 3, 4, 5, 6, 7}, ints(t, out)); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
	if got := peak.Load(); got > 3 {
		t.Errorf("peak concurrency = %d, want at most 3", got)
	}
}

func TestProcess_ParallelCollectorOrder(t *testing.T) {
	p := mustPipeline(t, []node.Config{
		{Operation: valueProbe(nil), Parameters: map[string]any{"factor": 1}, ContextKeyword: "seen"},
	}, WithParallelism(4))
	rec := payload.NewContextRecord()

	if _, _, err := p.Process(context.Background(), intSet(t, 5, 4, 3, 2, 1), rec); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	got, _ := rec.Get("seen")
	if diff := cmp.Diff([]any{5, 4, 3, 2, 1}, got); diff != "" {
		t.Errorf("collected values mismatch (-want +got):\n%s", diff)
	}
}

func TestProcess_ParallelFailureIsAllOrNothing(t *testing.T) {
	failing := operation.NewAlgorithm("FailOnThree", integer, integer, nil,
		func(ctx context.Context, d payload.Data, _ operation.Params) (payload.Data, error) {
			if d.(*payload.Value[int]).Get() == 3 {
				return nil, errors.InvalidInput("value", "three is not allowed")
			}
			return d, nil
		})
	p := mustPipeline(t, []node.Config{{Operation: failing}}, WithParallelism(2))
	rec := payload.NewContextRecord()

	out, outCtx, err := p.Process(context.Background(), intSet(t, 1, 2, 3, 4), rec)
	if !errors.HasCode(err, errors.ErrCodeOperationFailed) {
		t.Fatalf("expected OPERATION_FAILED, got %v", err)
	}
	if out != nil || outCtx != nil {
		t.Error("expected no partial result")
	}
	appErr, _ := errors.AsAppError(err)
	if appErr.Details["element"] != 2 {
		t.Errorf("expected element 2 in details, got %v", appErr.Details["element"])
	}
	if !errors.HasCode(appErr.Cause, errors.ErrCodeInvalidInput) {
		t.Errorf("expected the operation error as cause, got %v", appErr.Cause)
	}
}

func TestProcess_ParallelCanceledMidRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	blocking := operation.NewAlgorithm("CancelOnFirst", integer, integer, nil,
		func(ctx context.Context, d payload.Data, _ operation.Params) (payload.Data, error) {
			if d.(*payload.Value[int]).Get() == 1 {
				cancel()
			}
			<-ctx.Done()
			return nil, ctx.Err()
		})
	p := mustPipeline(t, []node.Config{{Operation: blocking}}, WithParallelism(2))

	_, _, err := p.Process(ctx, intSet(t, 1, 2, 3), nil)
	if !errors.HasCode(err, errors.ErrCodeCanceled) {
		t.Fatalf("expected CANCELED, got %v", err)
	}
}
