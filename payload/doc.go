// Package payload defines the values that flow through a pipeline: typed
// data, data collections, and the context records that accompany them.
//
// Types are static descriptors declared once:
//
//	var (
//	    Number     = payload.NewType("Number", nil)
//	    Integer    = payload.NewType("Integer", Number)
//	    IntegerSet = payload.NewCollectionType("IntegerSet", Integer, nil)
//	)
//
//	data := payload.MustList(IntegerSet,
//	    payload.NewValue(Integer, 1),
//	    payload.NewValue(Integer, 2),
//	)
//	ctx := payload.RecordFrom(map[string]any{"addend": 5})
package payload
