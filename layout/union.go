package layout

import (
	"fmt"
	"iter"

	"github.com/hupe1980/colgo/arraydata"
	"github.com/hupe1980/colgo/buffer"
	"github.com/hupe1980/colgo/contracts"
	"github.com/hupe1980/colgo/datatype"
	"github.com/hupe1980/colgo/nullable"
)

// Union is the view over union columns. The type-ids buffer names the
// child holding each element; dense unions add an offsets buffer with the
// element's slot in that child, sparse unions keep every child at the
// parent's length. Unions carry no validity bitmap: an element is null
// exactly when its selected child element is.
type Union struct {
	data    *arraydata.ArrayData
	dt      *datatype.Union
	typeIDs []int8
	offsets []int32 // dense mode only
}

// NewUnion wraps a union column.
func NewUnion(d *arraydata.ArrayData) (*Union, error) {
	dt, ok := d.Type().(*datatype.Union)
	if !ok {
		return nil, fmt.Errorf("layout: %s is not a union", d.Type().Name())
	}
	phys := d.Offset() + d.Len()
	typeIDs := buffer.View[int8](d.Buffer(0))
	if len(typeIDs) < phys {
		return nil, fmt.Errorf("layout: union type-ids buffer holds %d entries, need %d", len(typeIDs), phys)
	}
	u := &Union{data: d, dt: dt, typeIDs: typeIDs}
	if dt.Mode == datatype.DenseMode {
		offsets := buffer.View[int32](d.Buffer(1))
		if len(offsets) < phys {
			return nil, fmt.Errorf("layout: union offsets buffer holds %d entries, need %d", len(offsets), phys)
		}
		u.offsets = offsets
	} else {
		for i, c := range d.Children() {
			if c.Len() < phys {
				return nil, fmt.Errorf("layout: sparse union child %d holds %d rows, need %d", i, c.Len(), phys)
			}
		}
	}
	return u, nil
}

// DenseUnionData builds an owned dense union column record.
func DenseUnionData(dt *datatype.Union, typeIDs []int8, offsets []int32, children []*arraydata.ArrayData) *arraydata.ArrayData {
	contracts.Assert(dt.Mode == datatype.DenseMode, "dense mode type")
	contracts.Assertf(len(typeIDs) == len(offsets), "one offset per element",
		"%d offsets for %d elements", len(offsets), len(typeIDs))
	return arraydata.New(dt, len(typeIDs), 0, nil, []*buffer.Buffer{
		buffer.FromSlice(typeIDs),
		buffer.FromSlice(offsets),
	}, children, nil)
}

// SparseUnionData builds an owned sparse union column record. Every child
// must be at least as long as the type-ids sequence.
func SparseUnionData(dt *datatype.Union, typeIDs []int8, children []*arraydata.ArrayData) *arraydata.ArrayData {
	contracts.Assert(dt.Mode == datatype.SparseMode, "sparse mode type")
	for i, c := range children {
		contracts.Assertf(c.Len() >= len(typeIDs), "children cover every row",
			"child %d holds %d rows, need %d", i, c.Len(), len(typeIDs))
	}
	return arraydata.New(dt, len(typeIDs), 0, nil,
		[]*buffer.Buffer{buffer.FromSlice(typeIDs)}, children, nil)
}

// Data returns the underlying column record.
func (u *Union) Data() *arraydata.ArrayData { return u.data }

// Len returns the logical element count.
func (u *Union) Len() int { return u.data.Len() }

// NullCount counts elements whose selected child element is null.
func (u *Union) NullCount() int {
	n := 0
	for i := range u.data.Len() {
		if !u.IsValid(i) {
			n++
		}
	}
	return n
}

// TypeID returns the type id selecting the child of element i.
func (u *Union) TypeID(i int) int8 {
	contracts.CheckBounds(i, u.data.Len())
	return u.typeIDs[u.data.Offset()+i]
}

// Select resolves element i to its child slot: the child index and the
// element's position within that child.
func (u *Union) Select(i int) (child, pos int) {
	id := u.TypeID(i)
	child = u.dt.ChildIndex(id)
	contracts.Assertf(child >= 0, "type id registered with the union", "type id %d", id)
	if u.dt.Mode == datatype.DenseMode {
		return child, int(u.offsets[u.data.Offset()+i])
	}
	return child, u.data.Offset() + i
}

// IsValid reports whether the selected child element of i is valid.
func (u *Union) IsValid(i int) bool {
	child, pos := u.Select(i)
	return u.data.Child(child).IsValid(pos)
}

// Field returns child i as a view over its full extent.
func (u *Union) Field(i int) (Layout, error) {
	contracts.CheckBounds(i, len(u.dt.Fields))
	return Dispatch(u.data.Child(i))
}

// Value returns element i as a one-element view of the selected child,
// regardless of validity.
func (u *Union) Value(i int) Layout {
	child, pos := u.Select(i)
	sub, err := Dispatch(u.data.Child(child).Slice(pos, 1))
	contracts.Assertf(err == nil, "child layout dispatches", "union child %d: %v", child, err)
	return sub
}

// At returns element i as a one-element view of the selected child.
func (u *Union) At(i int) nullable.Value[Layout] {
	if !u.IsValid(i) {
		return nullable.Null[Layout]()
	}
	return nullable.Of(u.Value(i))
}

// All iterates elements front to back.
func (u *Union) All() iter.Seq2[int, nullable.Value[Layout]] {
	return forward(u.data.Len(), u.At)
}

// Backward iterates elements back to front.
func (u *Union) Backward() iter.Seq2[int, nullable.Value[Layout]] {
	return backward(u.data.Len(), u.At)
}

// Values iterates the selected child view of every element, nulls
// included.
func (u *Union) Values() iter.Seq[Layout] {
	return rawValues(u.data.Len(), u.Value)
}
