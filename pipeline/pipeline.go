package pipeline

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kbukum/flowkit/errors"
	"github.com/kbukum/flowkit/logger"
	"github.com/kbukum/flowkit/node"
	"github.com/kbukum/flowkit/observability"
	"github.com/kbukum/flowkit/payload"
	"github.com/kbukum/flowkit/timing"
)

const defaultName = "pipeline"

// Pipeline is an ordered list of nodes validated at append time and run by
// Process. It owns the probe ledger and the cumulative stopwatch.
type Pipeline struct {
	id          string
	name        string
	log         *logger.Logger
	parallelism int
	tracing     bool
	metrics     *observability.Metrics

	// runMu serializes runs and appends; mu guards nodes for readers.
	runMu         sync.Mutex
	mu            sync.RWMutex
	nodes         []*node.Node
	lastAlgorithm *node.Node

	ledger    *Ledger
	stopwatch *timing.Stopwatch
}

// New builds a pipeline from node configurations, validating each node's
// configuration and its compatibility with the nodes before it.
func New(configs []node.Config, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		id:        uuid.NewString(),
		name:      defaultName,
		ledger:    NewLedger(),
		stopwatch: timing.New(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logger.Get(logger.ComponentPipeline)
	}
	p.log = p.log.WithFields(logger.Fields(
		logger.FieldPipeline, p.name,
		logger.FieldPipelineID, p.id,
	))

	for i, cfg := range configs {
		n, err := node.New(cfg, node.WithLogger(p.log))
		if err != nil {
			return nil, withPosition(err, i+1)
		}
		if err := p.Append(n); err != nil {
			return nil, withPosition(err, i+1)
		}
	}

	p.log.Info("pipeline initialized", logger.Fields("nodes", len(configs)))
	if p.log.Enabled(zerolog.DebugLevel) {
		p.log.Debug(p.Inspect().String())
	}
	return p, nil
}

// ID returns the unique identifier assigned at construction.
func (p *Pipeline) ID() string { return p.id }

// Name returns the pipeline name.
func (p *Pipeline) Name() string { return p.name }

// Nodes returns the nodes in execution order.
func (p *Pipeline) Nodes() []*node.Node {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]*node.Node(nil), p.nodes...)
}

// Len returns the number of nodes.
func (p *Pipeline) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.nodes)
}

// Ledger returns the probe ledger.
func (p *Pipeline) Ledger() *Ledger { return p.ledger }

// Process runs data and context through every node in order. A nil context
// starts from an empty record. On error no partial result is returned.
func (p *Pipeline) Process(ctx context.Context, data payload.Data, pctx payload.Context) (payload.Data, payload.Context, error) {
	if data == nil {
		return nil, nil, errors.InvalidInput("data", "pipeline input data must not be nil")
	}
	pctx = normalizeContext(pctx)

	p.runMu.Lock()
	defer p.runMu.Unlock()
	nodes := p.Nodes()

	runID := uuid.NewString()
	ctx = logger.ContextWithPipeline(ctx, p.id, runID)
	log := p.log.WithContext(ctx)
	obs := observability.NewRunObservation(p.name, p.id, runID, p.metrics, p.tracing)
	ctx, span := obs.StartRun(ctx)

	log.Debug("start processing pipeline", logger.Fields("data", data.DataType().Name()))
	p.stopwatch.Start()
	data, pctx, err := p.run(ctx, log, obs, nodes, data, pctx)
	lap := p.stopwatch.Stop()
	obs.EndRun(ctx, span, err)

	if err != nil {
		log.Error("pipeline run failed", logger.MergeWithError(logger.Fields(
			logger.FieldDuration, lap.Wall.Milliseconds(),
		), err))
		return nil, nil, err
	}
	log.Debug("finished pipeline", logger.Fields(logger.FieldDuration, lap.Wall.Milliseconds()))
	return data, pctx, nil
}

func (p *Pipeline) run(ctx context.Context, log *logger.Logger, obs *observability.RunObservation,
	nodes []*node.Node, data payload.Data, pctx payload.Context) (payload.Data, payload.Context, error) {
	for i, n := range nodes {
		pos := i + 1
		if err := ctx.Err(); err != nil {
			return nil, nil, errors.Canceled(err)
		}

		op, kind := n.OperationName(), n.Kind().String()
		nctx, span := obs.StartNode(ctx, pos, op, kind)
		n.Stopwatch().Start()
		next, nextCtx, slices, err := p.runNode(nctx, pos, n, data, pctx)
		lap := n.Stopwatch().Stop()
		obs.EndNode(nctx, span, op, kind, slices, lap.Wall, err)

		fields := logger.Fields(
			logger.FieldPosition, pos,
			logger.FieldNode, n.Name(),
			logger.FieldKind, kind,
			logger.FieldSlices, slices,
			logger.FieldDuration, lap.Wall.Milliseconds(),
		)
		if err != nil {
			log.Error("node failed", logger.MergeWithError(fields, err))
			return nil, nil, err
		}
		log.Debug("node processed", fields)
		data, pctx = next, nextCtx
	}
	return data, pctx, nil
}

func normalizeContext(pctx payload.Context) payload.Context {
	switch c := pctx.(type) {
	case nil:
		return payload.NewContextRecord()
	case *payload.ContextRecord:
		if c == nil {
			return payload.NewContextRecord()
		}
	case *payload.ContextCollection:
		if c == nil {
			return payload.NewContextCollection()
		}
	}
	return pctx
}

func withPosition(err error, position int) error {
	if appErr, ok := errors.AsAppError(err); ok {
		if _, set := appErr.Details["position"]; !set {
			appErr.WithDetail("position", position)
		}
		return appErr
	}
	return err
}
