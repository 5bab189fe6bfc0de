package layout

import (
	"fmt"
	"iter"

	"github.com/hupe1980/colgo/arraydata"
	"github.com/hupe1980/colgo/bitmap"
	"github.com/hupe1980/colgo/contracts"
	"github.com/hupe1980/colgo/datatype"
	"github.com/hupe1980/colgo/nullable"
)

// StructLayout is the view over struct columns: no buffers of its own
// beyond validity, one child column per field, all sharing the parent's
// length.
type StructLayout struct {
	data   *arraydata.ArrayData
	fields []datatype.Field
}

// NewStruct wraps a struct column.
func NewStruct(d *arraydata.ArrayData) (*StructLayout, error) {
	dt, ok := d.Type().(*datatype.Struct)
	if !ok {
		return nil, fmt.Errorf("layout: %s is not a struct", d.Type().Name())
	}
	// Row i maps to child element d.Offset()+i in each child's logical
	// coordinates.
	phys := d.Offset() + d.Len()
	for i, c := range d.Children() {
		if c.Len() < phys {
			return nil, fmt.Errorf("layout: field %q holds %d rows, need %d",
				dt.Fields[i].Name, c.Len(), phys)
		}
	}
	return &StructLayout{data: d, fields: dt.Fields}, nil
}

// StructData builds an owned struct column record from per-field columns.
// All fields must share the same length.
func StructData(fields []datatype.Field, columns []*arraydata.ArrayData, valid []bool) *arraydata.ArrayData {
	contracts.Assertf(len(fields) == len(columns), "one column per field",
		"%d columns for %d fields", len(columns), len(fields))
	contracts.Assert(len(columns) > 0, "struct has at least one field")
	n := columns[0].Len()
	for i, c := range columns {
		contracts.Assertf(c.Len() == n, "field lengths agree",
			"field %q holds %d rows, first holds %d", fields[i].Name, c.Len(), n)
	}
	contracts.Assertf(valid == nil || len(valid) == n,
		"validity matches rows", "%d validity flags for %d rows", len(valid), n)
	var bm *bitmap.Bitmap
	if valid != nil {
		bm = bitmap.FromBools(valid)
	}
	return arraydata.New(datatype.StructOf(fields...), n, 0, bm, nil, columns, nil)
}

// Data returns the underlying column record.
func (s *StructLayout) Data() *arraydata.ArrayData { return s.data }

// Len returns the logical row count.
func (s *StructLayout) Len() int { return s.data.Len() }

// IsValid reports the validity of row i.
func (s *StructLayout) IsValid(i int) bool { return s.data.IsValid(i) }

// NullCount returns the number of null rows in the logical range.
func (s *StructLayout) NullCount() int { return s.data.NullCount() }

// NumFields returns the field count.
func (s *StructLayout) NumFields() int { return len(s.fields) }

// FieldName returns the name of field i.
func (s *StructLayout) FieldName(i int) string {
	contracts.CheckBounds(i, len(s.fields))
	return s.fields[i].Name
}

// Field returns field i as a view aligned with the parent's logical
// range.
func (s *StructLayout) Field(i int) (Layout, error) {
	contracts.CheckBounds(i, len(s.fields))
	// Align the child with the parent's window.
	child := s.data.Child(i).Slice(s.data.Offset(), s.data.Len())
	return Dispatch(child)
}

// FieldByName returns the field with the given name.
func (s *StructLayout) FieldByName(name string) (Layout, error) {
	for i, f := range s.fields {
		if f.Name == name {
			return s.Field(i)
		}
	}
	return nil, fmt.Errorf("layout: struct has no field %q", name)
}

// Row is a cursor over one logical struct element: the tuple of child
// elements sharing its index.
type Row struct {
	s   *StructLayout
	idx int
}

// Index returns the row's position in the parent column.
func (r Row) Index() int { return r.idx }

// IsValid reports the parent validity of the row.
func (r Row) IsValid() bool { return r.s.IsValid(r.idx) }

// Field returns field j aligned with the parent; the row's cell is
// element Index() of it.
func (r Row) Field(j int) (Layout, error) { return r.s.Field(j) }

// Value returns row i regardless of validity.
func (s *StructLayout) Value(i int) Row {
	contracts.CheckBounds(i, s.data.Len())
	return Row{s: s, idx: i}
}

// At returns row i.
func (s *StructLayout) At(i int) nullable.Value[Row] {
	contracts.CheckBounds(i, s.data.Len())
	if !s.data.IsValid(i) {
		return nullable.Null[Row]()
	}
	return nullable.Of(Row{s: s, idx: i})
}

// All iterates rows front to back.
func (s *StructLayout) All() iter.Seq2[int, nullable.Value[Row]] {
	return forward(s.data.Len(), s.At)
}

// Backward iterates rows back to front.
func (s *StructLayout) Backward() iter.Seq2[int, nullable.Value[Row]] {
	return backward(s.data.Len(), s.At)
}

// Values iterates row cursors for every element, nulls included.
func (s *StructLayout) Values() iter.Seq[Row] {
	return rawValues(s.data.Len(), s.Value)
}

// MapLayout is the view over map columns: a list of key/item entry pairs
// per element, the entries held in a child struct column.
type MapLayout struct {
	data    *arraydata.ArrayData
	list    *List[int32]
	entries *StructLayout
}

// NewMap wraps a map column.
func NewMap(d *arraydata.ArrayData) (*MapLayout, error) {
	if _, ok := d.Type().(*datatype.Map); !ok {
		return nil, fmt.Errorf("layout: %s is not a map", d.Type().Name())
	}
	list, err := NewList[int32](d)
	if err != nil {
		return nil, err
	}
	entries, err := NewStruct(d.Child(0))
	if err != nil {
		return nil, err
	}
	return &MapLayout{data: d, list: list, entries: entries}, nil
}

// Data returns the underlying column record.
func (m *MapLayout) Data() *arraydata.ArrayData { return m.data }

// Len returns the logical map count.
func (m *MapLayout) Len() int { return m.data.Len() }

// IsValid reports the validity of map i.
func (m *MapLayout) IsValid(i int) bool { return m.data.IsValid(i) }

// NullCount returns the number of null maps in the logical range.
func (m *MapLayout) NullCount() int { return m.data.NullCount() }

// Bounds returns the entry range of map i in the flattened entry column.
func (m *MapLayout) Bounds(i int) (start, end int) { return m.list.Bounds(i) }

// Keys returns the flattened key column.
func (m *MapLayout) Keys() (Layout, error) {
	return Dispatch(m.entries.data.Child(0))
}

// Items returns the flattened item column.
func (m *MapLayout) Items() (Layout, error) {
	return Dispatch(m.entries.data.Child(1))
}

// Value returns map i as a struct view over its entries regardless of
// the map's own validity.
func (m *MapLayout) Value(i int) *StructLayout {
	start, end := m.Bounds(i)
	sub, err := NewStruct(m.entries.data.Slice(start, end-start))
	contracts.Assertf(err == nil, "entry layout dispatches", "map entries: %v", err)
	return sub
}

// At returns map i as a struct view over its entries.
func (m *MapLayout) At(i int) nullable.Value[*StructLayout] {
	if !m.data.IsValid(i) {
		contracts.CheckBounds(i, m.data.Len())
		return nullable.Null[*StructLayout]()
	}
	return nullable.Of(m.Value(i))
}

// All iterates maps front to back.
func (m *MapLayout) All() iter.Seq2[int, nullable.Value[*StructLayout]] {
	return forward(m.data.Len(), m.At)
}

// Backward iterates maps back to front.
func (m *MapLayout) Backward() iter.Seq2[int, nullable.Value[*StructLayout]] {
	return backward(m.data.Len(), m.At)
}

// Values iterates the entry view of every map, nulls included.
func (m *MapLayout) Values() iter.Seq[*StructLayout] {
	return rawValues(m.data.Len(), m.Value)
}
