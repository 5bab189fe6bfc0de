package arraydata

import (
	"fmt"

	"github.com/hupe1980/colgo/buffer"
	"github.com/hupe1980/colgo/datatype"
)

// ValidationError describes a structural defect found in a column record,
// typically one imported from a foreign producer.
type ValidationError struct {
	Type   datatype.DataType
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("arraydata: invalid %s column: %s", e.Type.Name(), e.Reason)
}

func (d *ArrayData) invalid(format string, args ...any) error {
	return &ValidationError{Type: d.dtype, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks the structural invariants that depend on buffer contents
// and therefore cannot be asserted at construction time for borrowed data:
// buffer arity and extents, offset monotonicity, run-end monotonicity.
// Children and the dictionary are validated recursively.
func (d *ArrayData) Validate() error {
	wantBufs := datatype.BufferCount(d.dtype)
	if datatype.HasValidity(d.dtype) {
		wantBufs-- // validity lives in the bitmap, not in buffers
	}
	if len(d.buffers) != wantBufs {
		return d.invalid("%d buffers, want %d", len(d.buffers), wantBufs)
	}

	phys := d.offset + d.length

	if w, ok := datatype.FixedByteWidth(d.dtype); ok && wantBufs > 0 {
		if _, isDict := d.dtype.(*datatype.Dictionary); !isDict {
			if got := d.buffers[0].Len(); got < w*phys {
				return d.invalid("value buffer of %d bytes for %d elements of width %d", got, phys, w)
			}
		}
	}

	switch dt := d.dtype.(type) {
	case *datatype.Primitive:
		switch dt.ID() {
		case datatype.STRING, datatype.BINARY:
			if err := checkOffsets[int32](d, d.buffers[0], phys); err != nil {
				return err
			}
		case datatype.LARGE_STRING, datatype.LARGE_BINARY:
			if err := checkOffsets[int64](d, d.buffers[0], phys); err != nil {
				return err
			}
		}
	case *datatype.List:
		if err := checkOffsets[int32](d, d.buffers[0], phys); err != nil {
			return err
		}
	case *datatype.LargeList:
		if err := checkOffsets[int64](d, d.buffers[0], phys); err != nil {
			return err
		}
	case *datatype.Map:
		if err := checkOffsets[int32](d, d.buffers[0], phys); err != nil {
			return err
		}
	case *datatype.FixedSizeList:
		if got := d.children[0].Len(); got < phys*dt.N {
			return d.invalid("element child of %d values for %d lists of size %d", got, phys, dt.N)
		}
	case *datatype.Struct:
		for i, c := range d.children {
			if c.Len() < phys {
				return d.invalid("field %d shorter than parent: %d < %d", i, c.Len(), phys)
			}
		}
	case *datatype.RunEndEncoded:
		if err := d.checkRunEnds(); err != nil {
			return err
		}
	case *datatype.Dictionary:
		if w, ok := datatype.FixedByteWidth(dt.Index); ok {
			if got := d.buffers[0].Len(); got < w*phys {
				return d.invalid("index buffer of %d bytes for %d indices", got, phys)
			}
		}
	}

	for _, c := range d.children {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	if d.dictionary != nil {
		if err := d.dictionary.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func checkOffsets[O buffer.Offset](d *ArrayData, buf *buffer.Buffer, phys int) error {
	offs := buffer.View[O](buf)
	if len(offs) < phys+1 {
		return d.invalid("offsets buffer of %d entries for %d elements", len(offs), phys)
	}
	for i := 1; i <= phys; i++ {
		if offs[i] < offs[i-1] {
			return d.invalid("offsets decrease at %d: %d < %d", i, offs[i], offs[i-1])
		}
	}
	return nil
}

// checkRunEnds enforces strictly increasing accumulated run ends whose last
// entry covers the logical range.
func (d *ArrayData) checkRunEnds() error {
	ends := d.children[0]
	values := d.children[1]
	if ends.Len() != values.Len() {
		return d.invalid("%d run ends for %d values", ends.Len(), values.Len())
	}
	if ends.NullCount() != 0 {
		return d.invalid("null run end")
	}
	check := func(acc []int64) error {
		var prev int64
		for i, e := range acc {
			if e <= prev {
				return d.invalid("run end %d not increasing: %d after %d", i, e, prev)
			}
			prev = e
		}
		if n := len(acc); n > 0 && int(acc[n-1]) < d.offset+d.length {
			return d.invalid("last run end %d short of logical range %d", acc[n-1], d.offset+d.length)
		}
		if len(acc) == 0 && d.length > 0 {
			return d.invalid("no runs for %d elements", d.length)
		}
		return nil
	}
	buf := ends.Buffer(0)
	switch ends.Type().ID() {
	case datatype.INT16:
		return check(widen(buffer.View[int16](buf)[:ends.Offset()+ends.Len()]))
	case datatype.INT32:
		return check(widen(buffer.View[int32](buf)[:ends.Offset()+ends.Len()]))
	case datatype.INT64:
		return check(buffer.View[int64](buf)[:ends.Offset()+ends.Len()])
	default:
		return d.invalid("run ends of type %s", ends.Type().Name())
	}
}

func widen[T int16 | int32](s []T) []int64 {
	out := make([]int64, len(s))
	for i, v := range s {
		out[i] = int64(v)
	}
	return out
}
