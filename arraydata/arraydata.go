// Package arraydata defines the canonical, ABI-independent record of one
// column: its logical type, length, read offset, validity bitmap, raw
// buffers, child columns and optional dictionary.
//
// An ArrayData either owns everything (built from native data) or borrows
// everything (imported from a foreign C ABI structure, in which case it
// tracks the release obligation it must forward exactly once). Slicing
// produces views that share physical state; Clone produces an independent
// deep copy.
package arraydata

import (
	"github.com/hupe1980/colgo/bitmap"
	"github.com/hupe1980/colgo/buffer"
	"github.com/hupe1980/colgo/contracts"
	"github.com/hupe1980/colgo/datatype"
)

// ArrayData is the column record.
type ArrayData struct {
	dtype  datatype.DataType
	length int
	offset int
	// bitmap covers the unsliced physical range [0, offset+length).
	bitmap *bitmap.Bitmap
	// buffers holds the non-validity buffers in ABI order (offsets before
	// data, type ids before union offsets).
	buffers    []*buffer.Buffer
	children   []*ArrayData
	dictionary *ArrayData
	// release forwards a foreign release obligation; nil once spent or for
	// arrays that own their memory.
	release func()
}

// New builds a column record and asserts the structural invariants the
// logical type imposes: child arity, dictionary presence, bitmap coverage.
func New(dtype datatype.DataType, length, offset int, bm *bitmap.Bitmap, buffers []*buffer.Buffer, children []*ArrayData, dictionary *ArrayData) *ArrayData {
	contracts.Assertf(dtype != nil, "dtype != nil", "column record without a type")
	contracts.Assertf(length >= 0 && offset >= 0, "length >= 0 && offset >= 0",
		"negative extent: length %d, offset %d", length, offset)

	if _, isDict := dtype.(*datatype.Dictionary); isDict {
		contracts.Assertf(dictionary != nil, "dictionary present",
			"dictionary-encoded column without a dictionary")
	} else {
		contracts.Assertf(dictionary == nil, "dictionary absent",
			"%s column with a dictionary", dtype.Name())
	}

	want := datatype.ChildCount(dtype)
	contracts.Assertf(len(children) == want, "child arity matches type",
		"%s requires %d children, got %d", dtype.Name(), want, len(children))
	for i, c := range children {
		contracts.Assertf(c != nil, "children non-nil", "nil child %d", i)
	}

	if bm != nil {
		contracts.Assertf(bm.Len() >= offset+length, "bitmap covers physical range",
			"bitmap of %d bits for physical range %d", bm.Len(), offset+length)
	}

	return &ArrayData{
		dtype:      dtype,
		length:     length,
		offset:     offset,
		bitmap:     bm,
		buffers:    buffers,
		children:   children,
		dictionary: dictionary,
	}
}

// Type returns the logical type.
func (d *ArrayData) Type() datatype.DataType { return d.dtype }

// Len returns the logical element count (after the offset).
func (d *ArrayData) Len() int { return d.length }

// Offset returns the number of leading physical elements hidden from this
// view.
func (d *ArrayData) Offset() int { return d.offset }

// Bitmap returns the validity bitmap over the unsliced physical range, or
// nil when every element is valid.
func (d *ArrayData) Bitmap() *bitmap.Bitmap { return d.bitmap }

// Buffers returns the non-validity buffers in ABI order.
func (d *ArrayData) Buffers() []*buffer.Buffer { return d.buffers }

// Buffer returns buffer i.
func (d *ArrayData) Buffer(i int) *buffer.Buffer {
	contracts.CheckBounds(i, len(d.buffers))
	return d.buffers[i]
}

// Children returns the child columns.
func (d *ArrayData) Children() []*ArrayData { return d.children }

// Child returns child i.
func (d *ArrayData) Child(i int) *ArrayData {
	contracts.CheckBounds(i, len(d.children))
	return d.children[i]
}

// Dictionary returns the distinct-values column of a dictionary-encoded
// array, or nil.
func (d *ArrayData) Dictionary() *ArrayData { return d.dictionary }

// IsValid reports the validity of logical element i.
func (d *ArrayData) IsValid(i int) bool {
	contracts.CheckBounds(i, d.length)
	return d.bitmap.Get(d.offset + i)
}

// NullCount returns the number of nulls in the logical range. A view over
// the whole bitmap reuses its cached count; windows are counted directly.
func (d *ArrayData) NullCount() int {
	if d.offset == 0 && d.length == d.bitmap.Len() {
		return d.bitmap.NullCount()
	}
	return d.bitmap.CountNull(d.offset, d.length)
}

// Slice returns a sub-view of length elements starting at logical element
// offset. Buffers, children and dictionary are shared, not copied;
// mutations through either view are visible through the other.
func (d *ArrayData) Slice(offset, length int) *ArrayData {
	contracts.Assertf(offset >= 0 && length >= 0 && offset+length <= d.length,
		"slice within logical range",
		"slice [%d, %d) of column with %d elements", offset, offset+length, d.length)
	return &ArrayData{
		dtype:      d.dtype,
		length:     length,
		offset:     d.offset + offset,
		bitmap:     d.bitmap,
		buffers:    d.buffers,
		children:   d.children,
		dictionary: d.dictionary,
	}
}

// Clone returns an independent deep copy: owned state is duplicated, never
// aliased. Cloning drops any foreign release obligation; the copy owns its
// memory outright.
func (d *ArrayData) Clone() *ArrayData {
	if d == nil {
		return nil
	}
	buffers := make([]*buffer.Buffer, len(d.buffers))
	for i, b := range d.buffers {
		buffers[i] = b.Clone()
	}
	children := make([]*ArrayData, len(d.children))
	for i, c := range d.children {
		children[i] = c.Clone()
	}
	return &ArrayData{
		dtype:      d.dtype,
		length:     d.length,
		offset:     d.offset,
		bitmap:     d.bitmap.Clone(),
		buffers:    buffers,
		children:   children,
		dictionary: d.dictionary.Clone(),
	}
}

// SetRelease records the foreign release obligation of an imported column.
func (d *ArrayData) SetRelease(fn func()) {
	contracts.Assert(d.release == nil, "no release obligation recorded yet")
	d.release = fn
}

// Release forwards the foreign release obligation, if any, exactly once.
// Further calls are no-ops; the memory must not be touched afterwards.
func (d *ArrayData) Release() {
	if d.release != nil {
		fn := d.release
		d.release = nil
		fn()
	}
}
