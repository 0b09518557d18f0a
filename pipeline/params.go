package pipeline

import (
	"reflect"

	"github.com/kbukum/flowkit/errors"
	"github.com/kbukum/flowkit/node"
	"github.com/kbukum/flowkit/operation"
	"github.com/kbukum/flowkit/payload"
)

// resolveParams builds the parameters for one call: explicit values first,
// then declared names looked up in the record.
func resolveParams(pos int, n *node.Node, rec *payload.ContextRecord) (operation.Params, error) {
	params := operation.Params(n.Parameters())
	for _, name := range n.ParameterNames() {
		if _, ok := params[name]; ok {
			continue
		}
		v, ok := rec.Get(name)
		if !ok {
			return nil, errors.MissingParameter(pos, n.OperationName(), name)
		}
		params[name] = v
	}
	return params, nil
}

// resolveSharedParams resolves parameters for a single call that sees a whole
// context collection. A context-sourced parameter resolves only when every
// record carries an equal value.
func resolveSharedParams(pos int, n *node.Node, cc *payload.ContextCollection) (operation.Params, error) {
	params := operation.Params(n.Parameters())
	for _, name := range n.ParameterNames() {
		if _, ok := params[name]; ok {
			continue
		}
		if cc.Len() == 0 {
			return nil, errors.MissingParameter(pos, n.OperationName(), name).
				WithDetail("reason", "context collection is empty")
		}
		first, ok := cc.At(0).Get(name)
		if !ok {
			return nil, errors.MissingParameter(pos, n.OperationName(), name)
		}
		for i := 1; i < cc.Len(); i++ {
			v, ok := cc.At(i).Get(name)
			if !ok || !reflect.DeepEqual(v, first) {
				return nil, errors.MissingParameter(pos, n.OperationName(), name).
					WithDetail("reason", "context records disagree on the value").
					WithDetail("record", i)
			}
		}
		params[name] = first
	}
	return params, nil
}
