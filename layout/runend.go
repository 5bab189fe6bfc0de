package layout

import (
	"fmt"
	"iter"
	"sort"

	"github.com/hupe1980/colgo/arraydata"
	"github.com/hupe1980/colgo/buffer"
	"github.com/hupe1980/colgo/contracts"
	"github.com/hupe1980/colgo/datatype"
	"github.com/hupe1980/colgo/nullable"
)

// RunEnd is the view over run-end encoded columns: a run-ends child of
// strictly increasing accumulated lengths paired with a values child, one
// value per run. Element lookup is a binary search over the run ends.
// The layout itself carries no validity bitmap; an element is null when
// the value of its run is.
type RunEnd struct {
	data   *arraydata.ArrayData
	ends   []int64 // accumulated, widened to int64
	values *arraydata.ArrayData
}

// NewRunEnd wraps a run-end encoded column.
func NewRunEnd(d *arraydata.ArrayData) (*RunEnd, error) {
	if _, ok := d.Type().(*datatype.RunEndEncoded); !ok {
		return nil, fmt.Errorf("layout: %s is not run-end encoded", d.Type().Name())
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	endsCol := d.Child(0)
	buf := endsCol.Buffer(0)
	var acc []int64
	switch endsCol.Type().ID() {
	case datatype.INT16:
		acc = widenEnds(buffer.View[int16](buf), endsCol)
	case datatype.INT32:
		acc = widenEnds(buffer.View[int32](buf), endsCol)
	case datatype.INT64:
		acc = append([]int64(nil), buffer.View[int64](buf)[endsCol.Offset():endsCol.Offset()+endsCol.Len()]...)
	default:
		return nil, fmt.Errorf("layout: run ends of type %s", endsCol.Type().Name())
	}
	return &RunEnd{data: d, ends: acc, values: d.Child(1)}, nil
}

func widenEnds[T int16 | int32](raw []T, col *arraydata.ArrayData) []int64 {
	out := make([]int64, col.Len())
	for i := range out {
		out[i] = int64(raw[col.Offset()+i])
	}
	return out
}

// RunEndData builds an owned run-end encoded column record from
// accumulated run ends and the per-run values column. The logical length
// is the last accumulated end.
func RunEndData(ends []int32, values *arraydata.ArrayData) *arraydata.ArrayData {
	contracts.Assertf(len(ends) == values.Len(), "one value per run",
		"%d run ends for %d values", len(ends), values.Len())
	var prev int32
	for i, e := range ends {
		contracts.Assertf(e > prev, "run ends strictly increase",
			"run end %d is %d after %d", i, e, prev)
		prev = e
	}
	length := 0
	if len(ends) > 0 {
		length = int(ends[len(ends)-1])
	}
	endsCol := arraydata.New(datatype.Int32, len(ends), 0, nil,
		[]*buffer.Buffer{buffer.FromSlice(ends)}, nil, nil)
	dt := datatype.RunEndEncodedOf(datatype.Int32, values.Type())
	return arraydata.New(dt, length, 0, nil, nil,
		[]*arraydata.ArrayData{endsCol, values}, nil)
}

// Data returns the underlying column record.
func (r *RunEnd) Data() *arraydata.ArrayData { return r.data }

// Len returns the logical element count.
func (r *RunEnd) Len() int { return r.data.Len() }

// RunCount returns the number of runs.
func (r *RunEnd) RunCount() int { return len(r.ends) }

// RunLength returns the length of run i, the difference of adjacent
// accumulated ends.
func (r *RunEnd) RunLength(i int) int {
	contracts.CheckBounds(i, len(r.ends))
	if i == 0 {
		return int(r.ends[0])
	}
	return int(r.ends[i] - r.ends[i-1])
}

// RunIndex returns the run covering logical element i.
func (r *RunEnd) RunIndex(i int) int {
	contracts.CheckBounds(i, r.data.Len())
	phys := int64(r.data.Offset() + i)
	// First run whose accumulated end exceeds the physical position.
	return sort.Search(len(r.ends), func(k int) bool { return r.ends[k] > phys })
}

// Values returns the per-run values column.
func (r *RunEnd) Values() *arraydata.ArrayData { return r.values }

// IsValid reports whether the run value covering element i is valid.
func (r *RunEnd) IsValid(i int) bool {
	return r.values.IsValid(r.RunIndex(i))
}

// Value returns element i as a one-element view of its run's value,
// regardless of validity.
func (r *RunEnd) Value(i int) Layout {
	sub, err := Dispatch(r.values.Slice(r.RunIndex(i), 1))
	contracts.Assertf(err == nil, "values layout dispatches", "run values: %v", err)
	return sub
}

// At returns element i as a one-element view of its run's value.
func (r *RunEnd) At(i int) nullable.Value[Layout] {
	if !r.IsValid(i) {
		return nullable.Null[Layout]()
	}
	return nullable.Of(r.Value(i))
}

// All iterates elements front to back. Lookup is sequential per run, so
// iteration does not pay the per-element binary search.
func (r *RunEnd) All() iter.Seq2[int, nullable.Value[Layout]] {
	return func(yield func(int, nullable.Value[Layout]) bool) {
		i := 0
		for k, n := range r.Runs() {
			var v nullable.Value[Layout]
			if r.values.IsValid(k) {
				sub, err := Dispatch(r.values.Slice(k, 1))
				contracts.Assertf(err == nil, "values layout dispatches", "run values: %v", err)
				v = nullable.Of(sub)
			} else {
				v = nullable.Null[Layout]()
			}
			for range n {
				if !yield(i, v) {
					return
				}
				i++
			}
		}
	}
}

// NullCount sums the lengths of runs whose value is null, clipped to the
// logical window.
func (r *RunEnd) NullCount() int {
	n := 0
	lo := int64(r.data.Offset())
	hi := lo + int64(r.data.Len())
	var start int64
	for k := range r.ends {
		end := r.ends[k]
		if end > lo && start < hi && !r.values.IsValid(k) {
			s, e := max(start, lo), min(end, hi)
			n += int(e - s)
		}
		start = end
	}
	return n
}

// Runs iterates (runIndex, runLength) pairs clipped to the logical
// window, front to back.
func (r *RunEnd) Runs() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		lo := int64(r.data.Offset())
		hi := lo + int64(r.data.Len())
		var start int64
		for k := range r.ends {
			end := r.ends[k]
			if end > lo && start < hi {
				s, e := max(start, lo), min(end, hi)
				if !yield(k, int(e-s)) {
					return
				}
			}
			start = end
		}
	}
}
