// Package validation validates pipeline definitions and configuration.
//
// Struct tag validation uses go-playground/validator and reports fields by
// their yaml names; the programmatic Validator collects cross-field errors.
// Both produce an *errors.AppError with code INVALID_INPUT.
//
//	type NodeDef struct {
//	    Operation string `yaml:"operation" validate:"required"`
//	}
//	err := validation.Validate(def)
//
//	v := validation.New()
//	v.Unique("nodes.name", names)
//	if appErr := v.Validate(); appErr != nil { ... }
package validation
