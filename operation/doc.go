// Package operation defines the contracts pipeline stages implement:
// Algorithm transforms data, Probe observes it, and ContextOperation rewrites
// context records. NewAlgorithm, NewProbe and NewContextOperation adapt plain
// functions, and Registry maps names to factories for YAML definitions.
//
//	addConstant := operation.NewAlgorithm("AddConstant", Integer, Integer, []string{"addend"},
//	    func(ctx context.Context, d payload.Data, p operation.Params) (payload.Data, error) {
//	        addend, err := p.Int("addend")
//	        if err != nil {
//	            return nil, err
//	        }
//	        return payload.NewValue(Integer, d.(*payload.Value[int]).Get()+addend), nil
//	    })
package operation
