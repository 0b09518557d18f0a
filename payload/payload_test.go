package payload

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kbukum/flowkit/errors"
)

var (
	number     = NewType("Number", nil)
	integer    = NewType("Integer", number)
	text       = NewType("Text", nil)
	integerSet = NewCollectionType("IntegerSet", integer, nil)
	sortedSet  = NewCollectionType("SortedIntegerSet", integer, integerSet)
	anyList    = NewCollectionType("AnyList", nil, nil)
)

func TestType_AssignableTo(t *testing.T) {
	tests := []struct {
		name string
		from *Type
		to   *Type
		want bool
	}{
		{"identity", integer, integer, true},
		{"subtype to parent", integer, number, true},
		{"parent to subtype", number, integer, false},
		{"everything is data", integerSet, AnyData, true},
		{"collection root", sortedSet, AnyCollection, true},
		{"collection subtype", sortedSet, integerSet, true},
		{"unrelated", text, number, false},
		{"scalar not collection", integer, AnyCollection, false},
		{"nil target", integer, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.AssignableTo(tt.to); got != tt.want {
				t.Errorf("%s.AssignableTo(%s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestType_Metadata(t *testing.T) {
	if !integerSet.IsCollection() || integer.IsCollection() {
		t.Error("IsCollection mismatch")
	}
	if integerSet.Elem() != integer {
		t.Errorf("Elem() = %v, want Integer", integerSet.Elem())
	}
	if integer.Parent() != number || number.Parent() != AnyData {
		t.Error("unexpected parent chain")
	}
	var nilType *Type
	if nilType.Name() != "<nil>" {
		t.Errorf("nil type name = %q", nilType.Name())
	}
}

func TestNewType_Panics(t *testing.T) {
	expectPanic := func(name string, fn func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Errorf("%s: expected panic", name)
			}
		}()
		fn()
	}
	expectPanic("scalar from collection", func() { NewType("Bad", integerSet) })
	expectPanic("collection from scalar", func() { NewCollectionType("Bad", integer, number) })
	expectPanic("collection of collections", func() { NewCollectionType("Bad", integerSet, nil) })
}

func TestNewList(t *testing.T) {
	l, err := NewList(integerSet, NewValue(integer, 1), NewValue(integer, 2))
	if err != nil {
		t.Fatalf("NewList() error = %v", err)
	}
	if l.Len() != 2 || l.At(1).(*Value[int]).Get() != 2 {
		t.Errorf("unexpected list %v", l)
	}

	if _, err := NewList(integerSet, NewValue(number, 1.5)); !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for wrong element type, got %v", err)
	}
	if _, err := NewList(integer); err == nil {
		t.Error("expected error for scalar list type")
	}
	if _, err := NewList(integerSet, nil); err == nil {
		t.Error("expected error for nil element")
	}
}

func TestNewList_AbstractIsHomogeneous(t *testing.T) {
	if _, err := NewList(anyList, NewValue(text, "a"), NewValue(text, "b")); err != nil {
		t.Fatalf("expected homogeneous abstract list, got %v", err)
	}
	if _, err := NewList(anyList, NewValue(text, "a"), NewValue(integer, 1)); err == nil {
		t.Error("expected heterogeneous abstract list to be rejected")
	}
}

func TestList_Rebuild(t *testing.T) {
	l := MustList(sortedSet, NewValue(integer, 1))
	elems := l.Elements()
	elems[0] = NewValue(integer, 9)

	if l.At(0).(*Value[int]).Get() != 1 {
		t.Error("Elements must return a copy")
	}

	rebuilt, err := l.Rebuild(elems)
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if rebuilt.DataType() != sortedSet {
		t.Errorf("rebuilt type = %s, want %s", rebuilt.DataType(), sortedSet)
	}
	if rebuilt.At(0).(*Value[int]).Get() != 9 {
		t.Error("unexpected rebuilt element")
	}
}

func TestElemType(t *testing.T) {
	if got := ElemType(MustList(integerSet)); got != integer {
		t.Errorf("declared elem = %v", got)
	}
	if got := ElemType(MustList(anyList, NewValue(text, "x"))); got != text {
		t.Errorf("inferred elem = %v", got)
	}
	if got := ElemType(MustList(anyList)); got != nil {
		t.Errorf("empty abstract elem = %v, want nil", got)
	}
}

func TestContextRecord(t *testing.T) {
	r := NewContextRecord()
	r.Set("b", 2)
	r.Set("a", 1)

	if v, ok := r.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %v, %v", v, ok)
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("expected missing key")
	}
	if diff := cmp.Diff([]string{"a", "b"}, r.Keys()); diff != "" {
		t.Errorf("Keys mismatch (-want +got):\n%s", diff)
	}

	clone := r.Clone()
	clone.Set("c", 3)
	clone.Delete("a")
	if r.Has("c") || !r.Has("a") {
		t.Error("clone must not share storage")
	}
	if r.Equal(clone) {
		t.Error("records should differ")
	}
	if !r.Equal(RecordFrom(map[string]any{"a": 1, "b": 2})) {
		t.Error("records should be equal")
	}
	if r.String() != "{a: 1, b: 2}" {
		t.Errorf("String() = %q", r.String())
	}

	var zero ContextRecord
	zero.Set("k", "v")
	if zero.Len() != 1 {
		t.Error("zero record must accept writes")
	}
}

func TestContextCollection(t *testing.T) {
	first := RecordFrom(map[string]any{"i": 0})
	c := NewContextCollection(first, nil)

	if c.Len() != 2 {
		t.Fatalf("Len() = %d", c.Len())
	}
	if c.At(0) != first {
		t.Error("expected first record to be kept")
	}
	if c.At(1) == nil || c.At(1).Len() != 0 {
		t.Error("nil record should become empty")
	}

	records := c.Records()
	records[0] = nil
	if c.At(0) != first {
		t.Error("Records must return a copy")
	}
}

func TestContext_Sealed(t *testing.T) {
	var ctxs []Context
	ctxs = append(ctxs, NewContextRecord(), NewContextCollection())
	for _, c := range ctxs {
		switch c.(type) {
		case *ContextRecord, *ContextCollection:
		default:
			t.Errorf("unexpected context type %T", c)
		}
	}
}
