package payload

import "fmt"

// Type describes a data type declared by an operation. Types form a single
// inheritance tree rooted at AnyData; collection types additionally name the
// type of their elements. Identity is pointer identity: create each Type once,
// usually as a package-level variable.
type Type struct {
	name   string
	parent *Type
	elem   *Type
	coll   bool
}

var (
	// AnyData is the root of every data type.
	AnyData = &Type{name: "AnyData"}
	// AnyCollection is the root of every collection type.
	AnyCollection = &Type{name: "AnyCollection", parent: AnyData, coll: true}
)

// NewType declares a scalar data type. A nil parent means AnyData.
// It panics if parent is a collection type.
func NewType(name string, parent *Type) *Type {
	if parent == nil {
		parent = AnyData
	}
	if parent.coll {
		panic(fmt.Sprintf("payload: data type %q cannot derive from collection type %q", name, parent.name))
	}
	return &Type{name: name, parent: parent}
}

// NewCollectionType declares a collection type holding elements of elem.
// A nil parent means AnyCollection. A nil elem declares an abstract
// collection whose elements are only known at run time.
// It panics if parent is not a collection type or elem is one.
func NewCollectionType(name string, elem, parent *Type) *Type {
	if parent == nil {
		parent = AnyCollection
	}
	if !parent.coll {
		panic(fmt.Sprintf("payload: collection type %q must derive from a collection type, got %q", name, parent.name))
	}
	if elem != nil && elem.coll {
		panic(fmt.Sprintf("payload: collection type %q cannot hold collection type %q", name, elem.name))
	}
	return &Type{name: name, parent: parent, elem: elem, coll: true}
}

// Name returns the declared type name.
func (t *Type) Name() string {
	if t == nil {
		return "<nil>"
	}
	return t.name
}

func (t *Type) String() string { return t.Name() }

// Parent returns the supertype, or nil for AnyData.
func (t *Type) Parent() *Type { return t.parent }

// Elem returns the element type of a collection type, or nil.
func (t *Type) Elem() *Type { return t.elem }

// IsCollection reports whether t is AnyCollection or derives from it.
func (t *Type) IsCollection() bool { return t != nil && t.coll }

// AssignableTo reports whether a value of type t may be used where other is
// expected, i.e. whether other is t or one of its ancestors.
func (t *Type) AssignableTo(other *Type) bool {
	if other == nil {
		return false
	}
	for cur := t; cur != nil; cur = cur.parent {
		if cur == other {
			return true
		}
	}
	return false
}
