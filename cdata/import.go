package cdata

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/hupe1980/colgo/arraydata"
	"github.com/hupe1980/colgo/bitmap"
	"github.com/hupe1980/colgo/buffer"
	"github.com/hupe1980/colgo/datatype"
	"github.com/hupe1980/colgo/internal/conv"
)

// ErrReleased is returned when an interchange record has already been
// released and carries no data.
var ErrReleased = errors.New("cdata: record already released")

// ImportError describes a malformed interchange record.
type ImportError struct {
	Reason string
	Err    error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cdata: %s: %v", e.Reason, e.Err)
	}
	return "cdata: " + e.Reason
}

func (e *ImportError) Unwrap() error { return e.Err }

// ImportSchema reconstructs the field description an interchange record
// carries. The record stays live; the caller keeps the obligation to
// release it.
func ImportSchema(s *Schema) (datatype.Field, error) {
	if s.Released() {
		return datatype.Field{}, ErrReleased
	}

	children := make([]datatype.Field, len(s.Children))
	for i, c := range s.Children {
		if c == nil {
			return datatype.Field{}, &ImportError{Reason: fmt.Sprintf("%q record with nil child %d", s.Format, i)}
		}
		cf, err := ImportSchema(c)
		if err != nil {
			return datatype.Field{}, err
		}
		children[i] = cf
	}

	dt, err := datatype.Parse(s.Format, children...)
	if err != nil {
		return datatype.Field{}, &ImportError{Reason: fmt.Sprintf("unparseable format %q", s.Format), Err: err}
	}

	if mp, ok := dt.(*datatype.Map); ok {
		mp.KeysSorted = s.Flags&MapKeysSorted != 0
	}

	if s.Dictionary != nil {
		values, err := ImportSchema(s.Dictionary)
		if err != nil {
			return datatype.Field{}, err
		}
		dict := datatype.DictionaryOf(dt, values.Type)
		dict.Ordered = s.Flags&DictionaryOrdered != 0
		dt = dict
	}

	return datatype.Field{
		Name:     s.Name,
		Type:     dt,
		Nullable: s.Flags&Nullable != 0,
	}, nil
}

// ImportArray wraps the memory of a data interchange record as a column
// record of the given type, zero-copy. The returned column carries the
// obligation to release the record; releasing the column forwards it
// exactly once.
//
// Buffer extents are validated against the lengths the type and the
// record's length and offset imply, so a truncated producer buffer is a
// recoverable error rather than a latent out-of-bounds read.
func ImportArray(a *Array, dt datatype.DataType) (*arraydata.ArrayData, error) {
	if a.Released() {
		return nil, ErrReleased
	}
	d, err := importArray(a, dt)
	if err != nil {
		return nil, err
	}
	d.SetRelease(func() { ReleaseArray(a) })
	return d, nil
}

func importArray(a *Array, dt datatype.DataType) (*arraydata.ArrayData, error) {
	if a.Length < 0 || a.Offset < 0 {
		return nil, &ImportError{Reason: fmt.Sprintf("negative extent: length %d, offset %d", a.Length, a.Offset)}
	}
	length, err := conv.Int64ToInt(a.Length)
	if err != nil {
		return nil, &ImportError{Reason: "record length", Err: err}
	}
	offset, err := conv.Int64ToInt(a.Offset)
	if err != nil {
		return nil, &ImportError{Reason: "record offset", Err: err}
	}
	phys := offset + length

	wantBufs := datatype.BufferCount(dt)
	if len(a.Buffers) < wantBufs {
		return nil, &ImportError{Reason: fmt.Sprintf("%s record with %d buffers, want %d", dt.Name(), len(a.Buffers), wantBufs)}
	}

	var (
		bm   *bitmap.Bitmap
		bufs []*buffer.Buffer
	)
	rest := a.Buffers[:wantBufs]
	if datatype.HasValidity(dt) {
		if raw := rest[0]; raw != nil {
			if need := (phys + 7) / 8; len(raw) < need {
				return nil, &ImportError{Reason: fmt.Sprintf("validity bitmap of %d bytes for %d slots", len(raw), phys)}
			}
			nulls := int(a.NullCount) // -1 keeps the count lazy
			if a.Offset != 0 {
				// The producer counted nulls over its logical window,
				// not the whole bitmap.
				nulls = -1
			}
			bm = bitmap.Wrap(buffer.FromForeign(raw, nil), phys, nulls)
		} else if a.NullCount > 0 {
			return nil, &ImportError{Reason: fmt.Sprintf("null count %d without a validity bitmap", a.NullCount)}
		}
		rest = rest[1:]
	}

	sizes, err := bufferSizes(dt, rest, phys)
	if err != nil {
		return nil, err
	}
	bufs = make([]*buffer.Buffer, len(rest))
	for i, raw := range rest {
		if len(raw) < sizes[i] {
			return nil, &ImportError{Reason: fmt.Sprintf("%s buffer %d holds %d bytes, need %d", dt.Name(), i, len(raw), sizes[i])}
		}
		bufs[i] = buffer.FromForeign(raw, nil)
	}

	childFields := datatype.Children(dt)
	if len(a.Children) != len(childFields) {
		return nil, &ImportError{Reason: fmt.Sprintf("%s record with %d children, want %d", dt.Name(), len(a.Children), len(childFields))}
	}
	children := make([]*arraydata.ArrayData, len(a.Children))
	for i, c := range a.Children {
		if c == nil {
			return nil, &ImportError{Reason: fmt.Sprintf("%s record with nil child %d", dt.Name(), i)}
		}
		if c.Released() {
			return nil, ErrReleased
		}
		cd, err := importArray(c, childFields[i].Type)
		if err != nil {
			return nil, err
		}
		children[i] = cd
	}

	var dictionary *arraydata.ArrayData
	if dict, ok := dt.(*datatype.Dictionary); ok {
		if a.Dictionary == nil {
			return nil, &ImportError{Reason: "dictionary-encoded record without a dictionary"}
		}
		if a.Dictionary.Released() {
			return nil, ErrReleased
		}
		dictionary, err = importArray(a.Dictionary, dict.Value)
		if err != nil {
			return nil, err
		}
	} else if a.Dictionary != nil {
		return nil, &ImportError{Reason: dt.Name() + " record with a stray dictionary"}
	}

	return arraydata.New(dt, length, offset, bm, bufs, children, dictionary), nil
}

// bufferSizes computes the minimum byte length of each non-validity buffer
// from the type and the physical element count. Variable-size value
// buffers take their extent from the last offset, which requires the
// offsets buffer to be large enough first.
func bufferSizes(dt datatype.DataType, raw [][]byte, phys int) ([]int, error) {
	sizes := make([]int, len(raw))
	if len(raw) == 0 {
		return sizes, nil
	}

	switch t := dt.(type) {
	case *datatype.Primitive:
		switch t.ID() {
		case datatype.BOOL:
			sizes[0] = (phys + 7) / 8
		case datatype.STRING, datatype.BINARY:
			sizes[0] = 4 * (phys + 1)
			n, err := offsetsTail[int32](raw[0], phys)
			if err != nil {
				return nil, err
			}
			sizes[1] = n
		case datatype.LARGE_STRING, datatype.LARGE_BINARY:
			sizes[0] = 8 * (phys + 1)
			n, err := offsetsTail[int64](raw[0], phys)
			if err != nil {
				return nil, err
			}
			sizes[1] = n
		default:
			w, ok := datatype.FixedByteWidth(dt)
			if !ok {
				return nil, &ImportError{Reason: "unsupported format " + dt.Format()}
			}
			sizes[0] = w * phys
		}
	case *datatype.List, *datatype.Map:
		sizes[0] = 4 * (phys + 1)
	case *datatype.LargeList:
		sizes[0] = 8 * (phys + 1)
	case *datatype.ListView:
		sizes[0] = 4 * phys
		sizes[1] = 4 * phys
	case *datatype.LargeListView:
		sizes[0] = 8 * phys
		sizes[1] = 8 * phys
	case *datatype.Union:
		sizes[0] = phys // one type id byte per slot
		if t.Mode == datatype.DenseMode {
			sizes[1] = 4 * phys
		}
	case *datatype.Dictionary:
		return bufferSizes(t.Index, raw, phys)
	default:
		w, ok := datatype.FixedByteWidth(dt)
		if !ok {
			return nil, &ImportError{Reason: "unsupported format " + dt.Format()}
		}
		sizes[0] = w * phys
	}
	return sizes, nil
}

// offsetsTail reads the final offset, which bounds the values buffer.
func offsetsTail[O buffer.Offset](raw []byte, phys int) (int, error) {
	var zero O
	width := int(unsafe.Sizeof(zero))
	if len(raw) < width*(phys+1) {
		return 0, &ImportError{Reason: fmt.Sprintf("offsets buffer holds %d bytes, need %d", len(raw), width*(phys+1))}
	}
	offs := buffer.View[O](buffer.FromForeign(raw, nil))
	tail := offs[phys]
	if tail < 0 {
		return 0, &ImportError{Reason: fmt.Sprintf("negative final offset %d", tail)}
	}
	return int(tail), nil
}
