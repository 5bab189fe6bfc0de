package layout

import (
	"fmt"
	"iter"

	"github.com/hupe1980/colgo/arraydata"
	"github.com/hupe1980/colgo/bitmap"
	"github.com/hupe1980/colgo/buffer"
	"github.com/hupe1980/colgo/contracts"
	"github.com/hupe1980/colgo/datatype"
	"github.com/hupe1980/colgo/nullable"
)

// List is the view over list columns: an offsets buffer framing ranges of
// a single flattened element column. O selects the 32 or 64 bit offset
// flavor, covering both the list and large list logical types.
type List[O buffer.Offset] struct {
	data    *arraydata.ArrayData
	offsets []O
	elem    *arraydata.ArrayData
}

// NewList wraps a list column.
func NewList[O buffer.Offset](d *arraydata.ArrayData) (*List[O], error) {
	offsets := buffer.View[O](d.Buffer(0))
	phys := d.Offset() + d.Len()
	if len(offsets) < phys+1 {
		return nil, fmt.Errorf("layout: %s offsets buffer holds %d entries, need %d",
			d.Type().Name(), len(offsets), phys+1)
	}
	return &List[O]{data: d, offsets: offsets, elem: d.Child(0)}, nil
}

// ListData builds an owned list column record from a flattened element
// column and per-list sizes. The sizes must sum to the element count.
func ListData(elem *arraydata.ArrayData, sizes []int, valid []bool) *arraydata.ArrayData {
	contracts.Assertf(valid == nil || len(valid) == len(sizes),
		"validity matches lists", "%d validity flags for %d lists", len(valid), len(sizes))
	total := 0
	for _, n := range sizes {
		total += n
	}
	contracts.Assertf(total == elem.Len(), "sizes cover the element column",
		"sizes sum to %d, element column has %d", total, elem.Len())
	var bm *bitmap.Bitmap
	if valid != nil {
		bm = bitmap.FromBools(valid)
	}
	dt := &datatype.List{Elem: datatype.Field{Name: "item", Type: elem.Type(), Nullable: true}}
	return arraydata.New(dt, len(sizes), 0, bm,
		[]*buffer.Buffer{buffer.OffsetBufferFromSizes[int32](sizes)},
		[]*arraydata.ArrayData{elem}, nil)
}

// Data returns the underlying column record.
func (l *List[O]) Data() *arraydata.ArrayData { return l.data }

// Len returns the logical list count.
func (l *List[O]) Len() int { return l.data.Len() }

// IsValid reports the validity of list i.
func (l *List[O]) IsValid(i int) bool { return l.data.IsValid(i) }

// NullCount returns the number of null lists in the logical range.
func (l *List[O]) NullCount() int { return l.data.NullCount() }

// Bounds returns the element range of list i in the flattened column.
func (l *List[O]) Bounds(i int) (start, end int) {
	contracts.CheckBounds(i, l.data.Len())
	j := l.data.Offset() + i
	return int(l.offsets[j]), int(l.offsets[j+1])
}

// Elem returns list i as a slice of the flattened element column. The
// slice shares storage with the parent.
func (l *List[O]) Elem(i int) *arraydata.ArrayData {
	start, end := l.Bounds(i)
	return l.elem.Slice(start, end-start)
}

// Value returns list i as a view over its elements regardless of the
// list's own validity.
func (l *List[O]) Value(i int) Layout {
	sub, err := Dispatch(l.Elem(i))
	contracts.Assertf(err == nil, "element layout dispatches", "list element: %v", err)
	return sub
}

// At returns list i as a view over its elements.
func (l *List[O]) At(i int) nullable.Value[Layout] {
	if !l.data.IsValid(i) {
		return nullable.Null[Layout]()
	}
	return nullable.Of(l.Value(i))
}

// All iterates lists front to back.
func (l *List[O]) All() iter.Seq2[int, nullable.Value[Layout]] {
	return forward(l.data.Len(), l.At)
}

// Backward iterates lists back to front.
func (l *List[O]) Backward() iter.Seq2[int, nullable.Value[Layout]] {
	return backward(l.data.Len(), l.At)
}

// Values iterates the element view of every list, nulls included.
func (l *List[O]) Values() iter.Seq[Layout] {
	return rawValues(l.data.Len(), l.Value)
}

// ListView is the view over list-view columns, where each list names its
// start and size independently so ranges may overlap or sit out of order.
type ListView[O buffer.Offset] struct {
	data   *arraydata.ArrayData
	starts []O
	sizes  []O
	elem   *arraydata.ArrayData
}

// NewListView wraps a list-view column.
func NewListView[O buffer.Offset](d *arraydata.ArrayData) (*ListView[O], error) {
	starts := buffer.View[O](d.Buffer(0))
	sizes := buffer.View[O](d.Buffer(1))
	phys := d.Offset() + d.Len()
	if len(starts) < phys || len(sizes) < phys {
		return nil, fmt.Errorf("layout: %s view buffers hold %d/%d entries, need %d",
			d.Type().Name(), len(starts), len(sizes), phys)
	}
	return &ListView[O]{data: d, starts: starts, sizes: sizes, elem: d.Child(0)}, nil
}

// Data returns the underlying column record.
func (l *ListView[O]) Data() *arraydata.ArrayData { return l.data }

// Len returns the logical list count.
func (l *ListView[O]) Len() int { return l.data.Len() }

// IsValid reports the validity of list i.
func (l *ListView[O]) IsValid(i int) bool { return l.data.IsValid(i) }

// NullCount returns the number of null lists in the logical range.
func (l *ListView[O]) NullCount() int { return l.data.NullCount() }

// Bounds returns the element range of list i in the flattened column.
func (l *ListView[O]) Bounds(i int) (start, end int) {
	contracts.CheckBounds(i, l.data.Len())
	j := l.data.Offset() + i
	return int(l.starts[j]), int(l.starts[j] + l.sizes[j])
}

// Value returns list i as a view over its elements regardless of the
// list's own validity.
func (l *ListView[O]) Value(i int) Layout {
	start, end := l.Bounds(i)
	sub, err := Dispatch(l.elem.Slice(start, end-start))
	contracts.Assertf(err == nil, "element layout dispatches", "list element: %v", err)
	return sub
}

// At returns list i as a view over its elements.
func (l *ListView[O]) At(i int) nullable.Value[Layout] {
	if !l.data.IsValid(i) {
		return nullable.Null[Layout]()
	}
	return nullable.Of(l.Value(i))
}

// All iterates lists front to back.
func (l *ListView[O]) All() iter.Seq2[int, nullable.Value[Layout]] {
	return forward(l.data.Len(), l.At)
}

// Backward iterates lists back to front.
func (l *ListView[O]) Backward() iter.Seq2[int, nullable.Value[Layout]] {
	return backward(l.data.Len(), l.At)
}

// Values iterates the element view of every list, nulls included.
func (l *ListView[O]) Values() iter.Seq[Layout] {
	return rawValues(l.data.Len(), l.Value)
}

// FixedSizeListLayout is the view over fixed-size list columns: no offsets
// buffer, every list holds exactly N elements of the flattened column.
type FixedSizeListLayout struct {
	data *arraydata.ArrayData
	n    int
	elem *arraydata.ArrayData
}

// NewFixedSizeList wraps a fixed-size list column.
func NewFixedSizeList(d *arraydata.ArrayData) (*FixedSizeListLayout, error) {
	dt, ok := d.Type().(*datatype.FixedSizeList)
	if !ok {
		return nil, fmt.Errorf("layout: %s is not a fixed-size list", d.Type().Name())
	}
	elem := d.Child(0)
	if need := dt.N * (d.Offset() + d.Len()); elem.Len() < need {
		return nil, fmt.Errorf("layout: element column holds %d values, need %d", elem.Len(), need)
	}
	return &FixedSizeListLayout{data: d, n: dt.N, elem: elem}, nil
}

// FixedSizeListData builds an owned fixed-size list column record. The
// element count must be a multiple of n.
func FixedSizeListData(n int, elem *arraydata.ArrayData, valid []bool) *arraydata.ArrayData {
	contracts.Assertf(n > 0, "list size positive", "fixed list size %d", n)
	contracts.Assertf(elem.Len()%n == 0, "element column splits evenly",
		"%d elements for lists of %d", elem.Len(), n)
	count := elem.Len() / n
	contracts.Assertf(valid == nil || len(valid) == count,
		"validity matches lists", "%d validity flags for %d lists", len(valid), count)
	var bm *bitmap.Bitmap
	if valid != nil {
		bm = bitmap.FromBools(valid)
	}
	return arraydata.New(datatype.FixedSizeListOf(n, elem.Type()), count, 0, bm,
		nil, []*arraydata.ArrayData{elem}, nil)
}

// Data returns the underlying column record.
func (f *FixedSizeListLayout) Data() *arraydata.ArrayData { return f.data }

// Len returns the logical list count.
func (f *FixedSizeListLayout) Len() int { return f.data.Len() }

// IsValid reports the validity of list i.
func (f *FixedSizeListLayout) IsValid(i int) bool { return f.data.IsValid(i) }

// NullCount returns the number of null lists in the logical range.
func (f *FixedSizeListLayout) NullCount() int { return f.data.NullCount() }

// Size returns the fixed element count per list.
func (f *FixedSizeListLayout) Size() int { return f.n }

// Value returns list i as a view over its n elements regardless of the
// list's own validity.
func (f *FixedSizeListLayout) Value(i int) Layout {
	contracts.CheckBounds(i, f.data.Len())
	j := f.data.Offset() + i
	sub, err := Dispatch(f.elem.Slice(j*f.n, f.n))
	contracts.Assertf(err == nil, "element layout dispatches", "list element: %v", err)
	return sub
}

// At returns list i as a view over its n elements.
func (f *FixedSizeListLayout) At(i int) nullable.Value[Layout] {
	contracts.CheckBounds(i, f.data.Len())
	if !f.data.IsValid(i) {
		return nullable.Null[Layout]()
	}
	return nullable.Of(f.Value(i))
}

// All iterates lists front to back.
func (f *FixedSizeListLayout) All() iter.Seq2[int, nullable.Value[Layout]] {
	return forward(f.data.Len(), f.At)
}

// Backward iterates lists back to front.
func (f *FixedSizeListLayout) Backward() iter.Seq2[int, nullable.Value[Layout]] {
	return backward(f.data.Len(), f.At)
}

// Values iterates the element view of every list, nulls included.
func (f *FixedSizeListLayout) Values() iter.Seq[Layout] {
	return rawValues(f.data.Len(), f.Value)
}
