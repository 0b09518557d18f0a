package payload

// Data is one unit of domain data. The engine never mutates it; operations
// return new values.
type Data interface {
	DataType() *Type
}

// Collection is an ordered, homogeneous sequence of Data. Every element has
// the same concrete type, and Rebuild produces a new instance of the same
// concrete collection from a sequence of elements.
type Collection interface {
	Data
	Len() int
	At(i int) Data
	Elements() []Data
	Rebuild(elems []Data) (Collection, error)
}

// ElemType returns the element type of a collection value: the declared
// element type when present, otherwise the type of its first element.
func ElemType(c Collection) *Type {
	if elem := c.DataType().Elem(); elem != nil {
		return elem
	}
	if c.Len() > 0 {
		return c.At(0).DataType()
	}
	return nil
}
