package pipeline

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kbukum/flowkit/node"
)

// Ledger is the append-only history of probe collector results. Each run of
// a collector appends one record: the scalar value, or the []any of per-slice
// values when the node was broadcast over a collection.
type Ledger struct {
	mu      sync.RWMutex
	records map[string][]any
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{records: make(map[string][]any)}
}

// Append records one run for key.
func (l *Ledger) Append(key string, record any) {
	if values, ok := record.([]any); ok {
		record = append([]any(nil), values...)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records[key] = append(l.records[key], record)
}

// History returns the run records for key in run order.
func (l *Ledger) History(key string) []any {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]any{}, l.records[key]...)
}

// Runs returns the number of records for key.
func (l *Ledger) Runs(key string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records[key])
}

// Keys returns the keys with at least one record, sorted.
func (l *Ledger) Keys() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	keys := make([]string, 0, len(l.records))
	for k := range l.records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NodeKey identifies a node by 1-based position and operation name,
// e.g. "Node 2/MeanProbe".
func NodeKey(position int, n *node.Node) string {
	return fmt.Sprintf("Node %d/%s", position, n.OperationName())
}

// ProbeResults returns, for every probe collector node, its full ledger
// history keyed by NodeKey.
func (p *Pipeline) ProbeResults() map[string][]any {
	results := make(map[string][]any)
	for i, n := range p.Nodes() {
		if n.Kind() != node.KindProbeCollector {
			continue
		}
		key := NodeKey(i+1, n)
		results[key] = p.ledger.History(key)
	}
	return results
}
