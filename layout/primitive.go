package layout

import (
	"iter"

	"github.com/hupe1980/colgo/arraydata"
	"github.com/hupe1980/colgo/bitmap"
	"github.com/hupe1980/colgo/buffer"
	"github.com/hupe1980/colgo/contracts"
	"github.com/hupe1980/colgo/datatype"
	"github.com/hupe1980/colgo/nullable"
)

// Primitive is the view over fixed-width value buffers. T must match the
// byte width of the column's logical type.
type Primitive[T any] struct {
	data   *arraydata.ArrayData
	values []T // physical, indexed with the column offset applied
}

// NewPrimitive wraps a fixed-width column.
func NewPrimitive[T any](d *arraydata.ArrayData) *Primitive[T] {
	return &Primitive[T]{
		data:   d,
		values: buffer.View[T](d.Buffer(0)),
	}
}

// PrimitiveData builds an owned fixed-width column record from native
// values. A nil valid slice means every element is valid.
func PrimitiveData[T any](dt datatype.DataType, values []T, valid []bool) *arraydata.ArrayData {
	contracts.Assertf(valid == nil || len(valid) == len(values),
		"validity matches values", "%d validity flags for %d values", len(valid), len(values))
	var bm *bitmap.Bitmap
	if valid != nil {
		bm = bitmap.FromBools(valid)
	}
	return arraydata.New(dt, len(values), 0, bm,
		[]*buffer.Buffer{buffer.FromSlice(values)}, nil, nil)
}

// Data returns the underlying column record.
func (p *Primitive[T]) Data() *arraydata.ArrayData { return p.data }

// Len returns the logical element count.
func (p *Primitive[T]) Len() int { return p.data.Len() }

// IsValid reports the validity of element i.
func (p *Primitive[T]) IsValid(i int) bool { return p.data.IsValid(i) }

// NullCount returns the number of nulls in the logical range.
func (p *Primitive[T]) NullCount() int { return p.data.NullCount() }

// Value returns the raw storage of element i regardless of validity.
func (p *Primitive[T]) Value(i int) T {
	contracts.CheckBounds(i, p.data.Len())
	return p.values[p.data.Offset()+i]
}

// At returns element i.
func (p *Primitive[T]) At(i int) nullable.Value[T] {
	if !p.data.IsValid(i) {
		return nullable.Null[T]()
	}
	return nullable.Of(p.values[p.data.Offset()+i])
}

// All iterates elements front to back.
func (p *Primitive[T]) All() iter.Seq2[int, nullable.Value[T]] {
	return forward(p.data.Len(), p.At)
}

// Backward iterates elements back to front.
func (p *Primitive[T]) Backward() iter.Seq2[int, nullable.Value[T]] {
	return backward(p.data.Len(), p.At)
}

// Values iterates the raw storage of every element, nulls included.
func (p *Primitive[T]) Values() iter.Seq[T] {
	return rawValues(p.data.Len(), p.Value)
}

// Bool is the view over bit-packed boolean columns.
type Bool struct {
	data *arraydata.ArrayData
	bits []byte
}

// NewBool wraps a boolean column.
func NewBool(d *arraydata.ArrayData) *Bool {
	return &Bool{data: d, bits: d.Buffer(0).Bytes()}
}

// BoolData builds an owned boolean column record from native values.
func BoolData(values []bool, valid []bool) *arraydata.ArrayData {
	contracts.Assertf(valid == nil || len(valid) == len(values),
		"validity matches values", "%d validity flags for %d values", len(valid), len(values))
	var bm *bitmap.Bitmap
	if valid != nil {
		bm = bitmap.FromBools(valid)
	}
	packed := bitmap.FromBools(values)
	return arraydata.New(datatype.Bool, len(values), 0, bm,
		[]*buffer.Buffer{packed.Buffer()}, nil, nil)
}

// Data returns the underlying column record.
func (b *Bool) Data() *arraydata.ArrayData { return b.data }

// Len returns the logical element count.
func (b *Bool) Len() int { return b.data.Len() }

// IsValid reports the validity of element i.
func (b *Bool) IsValid(i int) bool { return b.data.IsValid(i) }

// NullCount returns the number of nulls in the logical range.
func (b *Bool) NullCount() int { return b.data.NullCount() }

// Value returns the raw bit of element i regardless of validity.
func (b *Bool) Value(i int) bool {
	contracts.CheckBounds(i, b.data.Len())
	j := b.data.Offset() + i
	return b.bits[j>>3]&(1<<(j&7)) != 0
}

// At returns element i.
func (b *Bool) At(i int) nullable.Value[bool] {
	if !b.data.IsValid(i) {
		return nullable.Null[bool]()
	}
	return nullable.Of(b.Value(i))
}

// All iterates elements front to back.
func (b *Bool) All() iter.Seq2[int, nullable.Value[bool]] {
	return forward(b.data.Len(), b.At)
}

// Backward iterates elements back to front.
func (b *Bool) Backward() iter.Seq2[int, nullable.Value[bool]] {
	return backward(b.data.Len(), b.At)
}

// Values iterates the raw bit of every element, nulls included.
func (b *Bool) Values() iter.Seq[bool] {
	return rawValues(b.data.Len(), b.Value)
}

// NullLayout is the view over null columns, which carry no buffers at all.
type NullLayout struct {
	data *arraydata.ArrayData
}

// NewNull wraps a null column.
func NewNull(d *arraydata.ArrayData) *NullLayout {
	return &NullLayout{data: d}
}

// NullData builds a null column record of n elements.
func NullData(n int) *arraydata.ArrayData {
	return arraydata.New(datatype.Null, n, 0, nil, nil, nil, nil)
}

// Data returns the underlying column record.
func (n *NullLayout) Data() *arraydata.ArrayData { return n.data }

// Len returns the logical element count.
func (n *NullLayout) Len() int { return n.data.Len() }

// IsValid reports false for every in-range element.
func (n *NullLayout) IsValid(i int) bool {
	contracts.CheckBounds(i, n.data.Len())
	return false
}

// NullCount returns the element count; every element is null.
func (n *NullLayout) NullCount() int { return n.data.Len() }

// At returns element i, which is always null.
func (n *NullLayout) At(i int) nullable.Value[struct{}] {
	contracts.CheckBounds(i, n.data.Len())
	return nullable.Null[struct{}]()
}

// All iterates elements front to back.
func (n *NullLayout) All() iter.Seq2[int, nullable.Value[struct{}]] {
	return forward(n.data.Len(), n.At)
}

// Backward iterates elements back to front.
func (n *NullLayout) Backward() iter.Seq2[int, nullable.Value[struct{}]] {
	return backward(n.data.Len(), n.At)
}
