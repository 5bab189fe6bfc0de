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

// Dictionary is the view over dictionary-encoded columns: an integer
// index column referencing a column of distinct values. Validity nests:
// an element is null when its index is null or when the referenced
// dictionary entry is.
type Dictionary struct {
	data   *arraydata.ArrayData
	index  func(i int) int // raw index lookup over the physical buffer
	values Layout
}

// NewDictionary wraps a dictionary-encoded column.
func NewDictionary(d *arraydata.ArrayData) (*Dictionary, error) {
	dt, ok := d.Type().(*datatype.Dictionary)
	if !ok {
		return nil, fmt.Errorf("layout: %s is not dictionary-encoded", d.Type().Name())
	}
	idx, err := indexLookup(dt.Index, d.Buffer(0))
	if err != nil {
		return nil, err
	}
	values, err := Dispatch(d.Dictionary())
	if err != nil {
		return nil, err
	}
	return &Dictionary{data: d, index: idx, values: values}, nil
}

func indexLookup(dt datatype.DataType, buf *buffer.Buffer) (func(int) int, error) {
	switch dt.ID() {
	case datatype.INT8:
		v := buffer.View[int8](buf)
		return func(i int) int { return int(v[i]) }, nil
	case datatype.UINT8:
		v := buffer.View[uint8](buf)
		return func(i int) int { return int(v[i]) }, nil
	case datatype.INT16:
		v := buffer.View[int16](buf)
		return func(i int) int { return int(v[i]) }, nil
	case datatype.UINT16:
		v := buffer.View[uint16](buf)
		return func(i int) int { return int(v[i]) }, nil
	case datatype.INT32:
		v := buffer.View[int32](buf)
		return func(i int) int { return int(v[i]) }, nil
	case datatype.UINT32:
		v := buffer.View[uint32](buf)
		return func(i int) int { return int(v[i]) }, nil
	case datatype.INT64:
		v := buffer.View[int64](buf)
		return func(i int) int { return int(v[i]) }, nil
	case datatype.UINT64:
		v := buffer.View[uint64](buf)
		return func(i int) int { return int(v[i]) }, nil
	default:
		return nil, fmt.Errorf("layout: dictionary index of type %s", dt.Name())
	}
}

// Data returns the underlying column record.
func (d *Dictionary) Data() *arraydata.ArrayData { return d.data }

// Len returns the logical element count.
func (d *Dictionary) Len() int { return d.data.Len() }

// Values returns the distinct-values view.
func (d *Dictionary) Values() Layout { return d.values }

// Index returns the dictionary slot element i references. Null when the
// index itself is null.
func (d *Dictionary) Index(i int) nullable.Value[int] {
	contracts.CheckBounds(i, d.data.Len())
	if !d.data.IsValid(i) {
		return nullable.Null[int]()
	}
	return nullable.Of(d.index(d.data.Offset() + i))
}

// IsValid reports the nested validity: the index must be valid and the
// referenced dictionary entry must be valid too.
func (d *Dictionary) IsValid(i int) bool {
	idx := d.Index(i)
	if !idx.HasValue() {
		return false
	}
	return d.values.IsValid(idx.Get())
}

// NullCount counts elements that are null under nested validity.
func (d *Dictionary) NullCount() int {
	n := 0
	for i := range d.data.Len() {
		if !d.IsValid(i) {
			n++
		}
	}
	return n
}

// Value returns the raw index of element i regardless of validity.
func (d *Dictionary) Value(i int) int {
	contracts.CheckBounds(i, d.data.Len())
	return d.index(d.data.Offset() + i)
}

// At returns the dictionary slot of element i under nested validity:
// null when the index or the referenced entry is.
func (d *Dictionary) At(i int) nullable.Value[int] {
	if !d.IsValid(i) {
		contracts.CheckBounds(i, d.data.Len())
		return nullable.Null[int]()
	}
	return nullable.Of(d.Value(i))
}

// All iterates resolved dictionary slots front to back.
func (d *Dictionary) All() iter.Seq2[int, nullable.Value[int]] {
	return forward(d.data.Len(), d.At)
}

// Backward iterates resolved dictionary slots back to front.
func (d *Dictionary) Backward() iter.Seq2[int, nullable.Value[int]] {
	return backward(d.data.Len(), d.At)
}

// Indices iterates the raw index of every element, nulls included.
func (d *Dictionary) Indices() iter.Seq[int] {
	return rawValues(d.data.Len(), d.Value)
}

// EncodeStrings dictionary-encodes native strings: distinct values in
// first-appearance order, one int32 index per element. A nil valid slice
// means every element is valid; null elements get a null index.
func EncodeStrings(values []string, valid []bool) *arraydata.ArrayData {
	contracts.Assertf(valid == nil || len(valid) == len(values),
		"validity matches values", "%d validity flags for %d values", len(valid), len(values))

	slots := make(map[string]int32)
	var distinct []string
	indices := make([]int32, len(values))
	for i, s := range values {
		if valid != nil && !valid[i] {
			continue
		}
		slot, ok := slots[s]
		if !ok {
			slot = int32(len(distinct))
			slots[s] = slot
			distinct = append(distinct, s)
		}
		indices[i] = slot
	}

	var bm *bitmap.Bitmap
	if valid != nil {
		bm = bitmap.FromBools(valid)
	}
	dt := datatype.DictionaryOf(datatype.Int32, datatype.String)
	return arraydata.New(dt, len(values), 0, bm,
		[]*buffer.Buffer{buffer.FromSlice(indices)},
		nil, StringData(distinct, nil))
}
