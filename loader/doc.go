// Package loader builds pipelines from YAML definitions.
//
// A definition lists nodes by operation name; Resolve instantiates each one
// through an operation.Registry and expands includes, so shared stages can
// live in their own file:
//
//	reg := operation.NewRegistry()
//	reg.RegisterOperation("GaussianBlur", blur)
//	l := loader.NewFileLoader("./pipelines")
//	def, err := l.Load("denoise")
//	p, err := loader.Build(def, reg, l)
package loader
