package payload

import (
	"fmt"

	"github.com/kbukum/flowkit/errors"
)

// Value is a Data holding a Go value of type T tagged with a declared Type.
type Value[T any] struct {
	typ *Type
	v   T
}

// NewValue wraps v as data of type typ.
func NewValue[T any](typ *Type, v T) *Value[T] {
	return &Value[T]{typ: typ, v: v}
}

// DataType implements Data.
func (d *Value[T]) DataType() *Type { return d.typ }

// Get returns the wrapped value.
func (d *Value[T]) Get() T { return d.v }

func (d *Value[T]) String() string { return fmt.Sprintf("%s(%v)", d.typ.Name(), d.v) }

// List is the general purpose Collection implementation.
type List struct {
	typ   *Type
	elems []Data
}

// NewList builds a collection of type typ. Every element must have exactly
// the declared element type of typ, or, when typ is abstract, the same type as
// every other element.
func NewList(typ *Type, elems ...Data) (*List, error) {
	if !typ.IsCollection() {
		return nil, errors.InvalidInput("type", fmt.Sprintf("%s is not a collection type", typ.Name()))
	}
	want := typ.Elem()
	for i, e := range elems {
		if e == nil {
			return nil, errors.InvalidInput("elements", fmt.Sprintf("element %d is nil", i))
		}
		if want == nil {
			want = e.DataType()
		}
		if e.DataType() != want {
			return nil, errors.InvalidInput("elements", fmt.Sprintf(
				"element %d of %s has type %s, want %s", i, typ.Name(), e.DataType().Name(), want.Name()))
		}
	}
	return &List{typ: typ, elems: append([]Data(nil), elems...)}, nil
}

// MustList is like NewList but panics on error.
func MustList(typ *Type, elems ...Data) *List {
	l, err := NewList(typ, elems...)
	if err != nil {
		panic(err)
	}
	return l
}

// DataType implements Data.
func (l *List) DataType() *Type { return l.typ }

// Len returns the number of elements.
func (l *List) Len() int { return len(l.elems) }

// At returns element i.
func (l *List) At(i int) Data { return l.elems[i] }

// Elements returns a copy of the elements.
func (l *List) Elements() []Data { return append([]Data(nil), l.elems...) }

// Rebuild returns a new List of the same type holding elems.
func (l *List) Rebuild(elems []Data) (Collection, error) {
	return NewList(l.typ, elems...)
}

func (l *List) String() string { return fmt.Sprintf("%s%v", l.typ.Name(), l.elems) }
