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

// VarBinary is the view over variable-size binary columns: one offsets
// buffer framing a shared values buffer. It serves both the string and
// the binary logical types; O selects the 32 or 64 bit offset flavor.
type VarBinary[O buffer.Offset] struct {
	data    *arraydata.ArrayData
	offsets []O
	values  []byte
}

// NewVarBinary wraps a variable-size binary column.
func NewVarBinary[O buffer.Offset](d *arraydata.ArrayData) (*VarBinary[O], error) {
	offsets := buffer.View[O](d.Buffer(0))
	phys := d.Offset() + d.Len()
	if len(offsets) < phys+1 {
		return nil, fmt.Errorf("layout: %s offsets buffer holds %d entries, need %d",
			d.Type().Name(), len(offsets), phys+1)
	}
	return &VarBinary[O]{
		data:    d,
		offsets: offsets,
		values:  d.Buffer(1).Bytes(),
	}, nil
}

// StringData builds an owned string column record from native values.
func StringData(values []string, valid []bool) *arraydata.ArrayData {
	contracts.Assertf(valid == nil || len(valid) == len(values),
		"validity matches values", "%d validity flags for %d values", len(valid), len(values))
	sizes := make([]int, len(values))
	total := 0
	for i, s := range values {
		sizes[i] = len(s)
		total += len(s)
	}
	raw := make([]byte, 0, total)
	for _, s := range values {
		raw = append(raw, s...)
	}
	return varBinaryData(datatype.String, raw, sizes, valid)
}

// BytesData builds an owned binary column record from native values.
func BytesData(values [][]byte, valid []bool) *arraydata.ArrayData {
	contracts.Assertf(valid == nil || len(valid) == len(values),
		"validity matches values", "%d validity flags for %d values", len(valid), len(values))
	sizes := make([]int, len(values))
	total := 0
	for i, b := range values {
		sizes[i] = len(b)
		total += len(b)
	}
	raw := make([]byte, 0, total)
	for _, b := range values {
		raw = append(raw, b...)
	}
	return varBinaryData(datatype.Binary, raw, sizes, valid)
}

func varBinaryData(dt datatype.DataType, raw []byte, sizes []int, valid []bool) *arraydata.ArrayData {
	var bm *bitmap.Bitmap
	if valid != nil {
		bm = bitmap.FromBools(valid)
	}
	return arraydata.New(dt, len(sizes), 0, bm, []*buffer.Buffer{
		buffer.OffsetBufferFromSizes[int32](sizes),
		buffer.FromBytes(raw),
	}, nil, nil)
}

// Data returns the underlying column record.
func (v *VarBinary[O]) Data() *arraydata.ArrayData { return v.data }

// Len returns the logical element count.
func (v *VarBinary[O]) Len() int { return v.data.Len() }

// IsValid reports the validity of element i.
func (v *VarBinary[O]) IsValid(i int) bool { return v.data.IsValid(i) }

// NullCount returns the number of nulls in the logical range.
func (v *VarBinary[O]) NullCount() int { return v.data.NullCount() }

// Value returns the raw bytes of element i regardless of validity. The
// slice aliases the shared values buffer.
func (v *VarBinary[O]) Value(i int) []byte {
	contracts.CheckBounds(i, v.data.Len())
	j := v.data.Offset() + i
	return v.values[v.offsets[j]:v.offsets[j+1]]
}

// At returns the bytes of element i.
func (v *VarBinary[O]) At(i int) nullable.Value[[]byte] {
	if !v.data.IsValid(i) {
		return nullable.Null[[]byte]()
	}
	return nullable.Of(v.Value(i))
}

// StringAt returns element i as a string.
func (v *VarBinary[O]) StringAt(i int) nullable.Value[string] {
	if !v.data.IsValid(i) {
		return nullable.Null[string]()
	}
	return nullable.Of(string(v.Value(i)))
}

// All iterates elements front to back.
func (v *VarBinary[O]) All() iter.Seq2[int, nullable.Value[[]byte]] {
	return forward(v.data.Len(), v.At)
}

// Backward iterates elements back to front.
func (v *VarBinary[O]) Backward() iter.Seq2[int, nullable.Value[[]byte]] {
	return backward(v.data.Len(), v.At)
}

// Values iterates the raw bytes of every element, nulls included.
func (v *VarBinary[O]) Values() iter.Seq[[]byte] {
	return rawValues(v.data.Len(), v.Value)
}

// FixedWidthBinary is the view over fixed-width binary columns.
type FixedWidthBinary struct {
	data  *arraydata.ArrayData
	width int
	raw   []byte
}

// NewFixedWidthBinary wraps a fixed-width binary column.
func NewFixedWidthBinary(d *arraydata.ArrayData) (*FixedWidthBinary, error) {
	dt, ok := d.Type().(*datatype.FixedWidthBinary)
	if !ok {
		return nil, fmt.Errorf("layout: %s is not fixed-width binary", d.Type().Name())
	}
	raw := d.Buffer(0).Bytes()
	if need := dt.ByteWidth * (d.Offset() + d.Len()); len(raw) < need {
		return nil, fmt.Errorf("layout: fixed-width binary buffer holds %d bytes, need %d", len(raw), need)
	}
	return &FixedWidthBinary{data: d, width: dt.ByteWidth, raw: raw}, nil
}

// FixedWidthBinaryData builds an owned fixed-width binary column record.
// Every value must be exactly width bytes.
func FixedWidthBinaryData(width int, values [][]byte, valid []bool) *arraydata.ArrayData {
	contracts.Assertf(valid == nil || len(valid) == len(values),
		"validity matches values", "%d validity flags for %d values", len(valid), len(values))
	raw := make([]byte, 0, width*len(values))
	for i, b := range values {
		contracts.Assertf(len(b) == width, "value width matches type",
			"value %d has %d bytes, want %d", i, len(b), width)
		raw = append(raw, b...)
	}
	var bm *bitmap.Bitmap
	if valid != nil {
		bm = bitmap.FromBools(valid)
	}
	return arraydata.New(&datatype.FixedWidthBinary{ByteWidth: width}, len(values), 0, bm,
		[]*buffer.Buffer{buffer.FromBytes(raw)}, nil, nil)
}

// Data returns the underlying column record.
func (f *FixedWidthBinary) Data() *arraydata.ArrayData { return f.data }

// Len returns the logical element count.
func (f *FixedWidthBinary) Len() int { return f.data.Len() }

// IsValid reports the validity of element i.
func (f *FixedWidthBinary) IsValid(i int) bool { return f.data.IsValid(i) }

// NullCount returns the number of nulls in the logical range.
func (f *FixedWidthBinary) NullCount() int { return f.data.NullCount() }

// Value returns the raw bytes of element i regardless of validity.
func (f *FixedWidthBinary) Value(i int) []byte {
	contracts.CheckBounds(i, f.data.Len())
	j := f.data.Offset() + i
	return f.raw[j*f.width : (j+1)*f.width]
}

// At returns the bytes of element i.
func (f *FixedWidthBinary) At(i int) nullable.Value[[]byte] {
	if !f.data.IsValid(i) {
		return nullable.Null[[]byte]()
	}
	return nullable.Of(f.Value(i))
}

// All iterates elements front to back.
func (f *FixedWidthBinary) All() iter.Seq2[int, nullable.Value[[]byte]] {
	return forward(f.data.Len(), f.At)
}

// Backward iterates elements back to front.
func (f *FixedWidthBinary) Backward() iter.Seq2[int, nullable.Value[[]byte]] {
	return backward(f.data.Len(), f.At)
}

// Values iterates the raw bytes of every element, nulls included.
func (f *FixedWidthBinary) Values() iter.Seq[[]byte] {
	return rawValues(f.data.Len(), f.Value)
}
