package pipeline

import (
	"github.com/kbukum/flowkit/errors"
	"github.com/kbukum/flowkit/node"
)

// Append adds n after checking that its declared input type is compatible
// with the output of the last algorithm node. Probe and context-only nodes
// never change the data type, so only algorithms constrain what follows.
func (p *Pipeline) Append(n *node.Node) error {
	if n == nil {
		return errors.Configuration("node is required")
	}
	if sub, ok := n.Algorithm().(*Subpipeline); ok && sub.contains(p) {
		return errors.Configuration("pipeline " + p.name + " cannot contain itself")
	}

	p.runMu.Lock()
	defer p.runMu.Unlock()
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := checkTopology(p.lastAlgorithm, n); err != nil {
		return err
	}
	p.nodes = append(p.nodes, n)
	if n.Kind() == node.KindAlgorithm {
		p.lastAlgorithm = n
	}
	return nil
}

func checkTopology(last, n *node.Node) error {
	if last == nil || n.Kind() == node.KindContextOnly {
		return nil
	}
	out, in := last.OutputType(), n.InputType()
	if out.IsCollection() && out.Elem() == in {
		return nil
	}
	if out.AssignableTo(in) || in.AssignableTo(out) {
		return nil
	}
	return errors.Topology(last.OperationName(), out.Name(), n.OperationName(), in.Name())
}
