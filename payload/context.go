package payload

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Context is the side channel travelling with data: either a single
// *ContextRecord or a *ContextCollection with one record per data element.
type Context interface {
	isContext()
}

// ContextRecord maps string keys to arbitrary values.
// It is not safe for concurrent writes.
type ContextRecord struct {
	values map[string]any
}

// NewContextRecord creates an empty record.
func NewContextRecord() *ContextRecord {
	return &ContextRecord{values: make(map[string]any)}
}

// RecordFrom creates a record holding a copy of values.
func RecordFrom(values map[string]any) *ContextRecord {
	r := &ContextRecord{values: make(map[string]any, len(values))}
	for k, v := range values {
		r.values[k] = v
	}
	return r
}

func (*ContextRecord) isContext() {}

// Get returns the value stored under key.
func (r *ContextRecord) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Set stores value under key, replacing any previous value.
func (r *ContextRecord) Set(key string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	r.values[key] = value
}

// Delete removes key.
func (r *ContextRecord) Delete(key string) {
	delete(r.values, key)
}

// Has reports whether key is present.
func (r *ContextRecord) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Keys returns the keys in sorted order.
func (r *ContextRecord) Keys() []string {
	keys := make([]string, 0, len(r.values))
	for k := range r.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of keys.
func (r *ContextRecord) Len() int { return len(r.values) }

// Clone returns a shallow copy of the record.
func (r *ContextRecord) Clone() *ContextRecord {
	return RecordFrom(r.values)
}

// ToMap returns a copy of the record's values.
func (r *ContextRecord) ToMap() map[string]any {
	return r.Clone().values
}

// Equal reports whether both records hold deeply equal values under the same keys.
func (r *ContextRecord) Equal(other *ContextRecord) bool {
	if r == other {
		return true
	}
	if r == nil || other == nil {
		return false
	}
	return reflect.DeepEqual(r.values, other.values)
}

func (r *ContextRecord) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range r.Keys() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %v", k, r.values[k])
	}
	b.WriteByte('}')
	return b.String()
}

// ContextCollection is an ordered sequence of records, paired index-wise with
// the elements of a data collection.
type ContextCollection struct {
	records []*ContextRecord
}

// NewContextCollection creates a collection of records. Nil records are
// replaced with empty ones.
func NewContextCollection(records ...*ContextRecord) *ContextCollection {
	rs := make([]*ContextRecord, len(records))
	for i, r := range records {
		if r == nil {
			r = NewContextRecord()
		}
		rs[i] = r
	}
	return &ContextCollection{records: rs}
}

func (*ContextCollection) isContext() {}

// Len returns the number of records.
func (c *ContextCollection) Len() int { return len(c.records) }

// At returns record i.
func (c *ContextCollection) At(i int) *ContextRecord { return c.records[i] }

// Records returns a copy of the record slice.
func (c *ContextCollection) Records() []*ContextRecord {
	return append([]*ContextRecord(nil), c.records...)
}

func (c *ContextCollection) String() string {
	parts := make([]string, len(c.records))
	for i, r := range c.records {
		parts[i] = r.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
