package operation

import (
	"fmt"

	"github.com/kbukum/flowkit/errors"
	"github.com/kbukum/flowkit/util"
)

// Params holds the resolved parameters for one operation call.
type Params map[string]any

// Get returns the raw value of name.
func (p Params) Get(name string) (any, bool) {
	v, ok := p[name]
	return v, ok
}

// Float returns name as a float64, converting from any numeric type.
func (p Params) Float(name string) (float64, error) {
	v, ok := p[name]
	if !ok {
		return 0, missing(name)
	}
	f, ok := util.ToFloat64(v)
	if !ok {
		return 0, mistyped(name, "number", v)
	}
	return f, nil
}

// Int returns name as an int, converting from integral values.
func (p Params) Int(name string) (int, error) {
	v, ok := p[name]
	if !ok {
		return 0, missing(name)
	}
	i, ok := util.ToInt(v)
	if !ok {
		return 0, mistyped(name, "integer", v)
	}
	return i, nil
}

// String returns name as a string.
func (p Params) String(name string) (string, error) {
	return Param[string](p, name)
}

// Param returns name asserted to type T.
func Param[T any](p Params, name string) (T, error) {
	var zero T
	v, ok := p[name]
	if !ok {
		return zero, missing(name)
	}
	t, ok := v.(T)
	if !ok {
		return zero, mistyped(name, fmt.Sprintf("%T", zero), v)
	}
	return t, nil
}

func missing(name string) error {
	return errors.InvalidInput(name, fmt.Sprintf("parameter %q not provided", name))
}

func mistyped(name, want string, got any) error {
	return errors.InvalidInput(name, fmt.Sprintf("parameter %q: expected %s, got %T", name, want, got))
}
