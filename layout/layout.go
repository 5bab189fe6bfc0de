// Package layout provides typed, read-oriented views over column records.
//
// Each physical layout (primitive, variable-size binary, list, struct,
// union, dictionary, run-end encoded, null) gets its own view type with
// an At accessor returning a nullable value. Dispatch selects the view
// for a column from its logical type, which is how imported data becomes
// readable without the caller knowing the layout taxonomy.
//
// Reads past the logical range are programming errors and fail fast;
// malformed column structure surfaces as recoverable errors from the
// view constructors.
package layout

import (
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/apache/arrow-go/v18/arrow/decimal256"
	"github.com/apache/arrow-go/v18/arrow/float16"

	"github.com/hupe1980/colgo/arraydata"
	"github.com/hupe1980/colgo/datatype"
)

// ErrUnsupported is returned by Dispatch for logical types whose physical
// layout has no view implementation yet.
var ErrUnsupported = errors.New("layout: unsupported layout")

// Layout is the read API every physical layout shares. Typed accessors
// live on the concrete view types.
type Layout interface {
	// Data returns the underlying column record.
	Data() *arraydata.ArrayData
	// Len returns the logical element count.
	Len() int
	// IsValid reports the validity of element i. Out of range fails fast.
	IsValid(i int) bool
	// NullCount returns the number of nulls in the logical range.
	NullCount() int
}

// DayTime is a day/millisecond interval element.
type DayTime struct {
	Days   int32
	Millis int32
}

// MonthDayNano is a month/day/nanosecond interval element.
type MonthDayNano struct {
	Months int32
	Days   int32
	Nanos  int64
}

// Dispatch selects the view for a column from its logical type.
func Dispatch(d *arraydata.ArrayData) (Layout, error) {
	switch dt := d.Type().(type) {
	case *datatype.Primitive:
		return dispatchPrimitive(d, dt)
	case *datatype.Time32:
		return NewPrimitive[int32](d), nil
	case *datatype.Time64:
		return NewPrimitive[int64](d), nil
	case *datatype.Timestamp:
		return NewPrimitive[int64](d), nil
	case *datatype.Duration:
		return NewPrimitive[int64](d), nil
	case *datatype.Decimal:
		switch dt.BitWidth {
		case 32:
			return NewPrimitive[int32](d), nil
		case 64:
			return NewPrimitive[int64](d), nil
		case 128:
			return NewPrimitive[decimal128.Num](d), nil
		case 256:
			return NewPrimitive[decimal256.Num](d), nil
		default:
			return nil, fmt.Errorf("%w: decimal%d", ErrUnsupported, dt.BitWidth)
		}
	case *datatype.FixedWidthBinary:
		return NewFixedWidthBinary(d)
	case *datatype.List:
		return NewList[int32](d)
	case *datatype.LargeList:
		return NewList[int64](d)
	case *datatype.ListView:
		return NewListView[int32](d)
	case *datatype.LargeListView:
		return NewListView[int64](d)
	case *datatype.FixedSizeList:
		return NewFixedSizeList(d)
	case *datatype.Struct:
		return NewStruct(d)
	case *datatype.Map:
		return NewMap(d)
	case *datatype.Union:
		return NewUnion(d)
	case *datatype.RunEndEncoded:
		return NewRunEnd(d)
	case *datatype.Dictionary:
		return NewDictionary(d)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, d.Type().Name())
	}
}

func dispatchPrimitive(d *arraydata.ArrayData, dt *datatype.Primitive) (Layout, error) {
	switch dt.ID() {
	case datatype.NULL:
		return NewNull(d), nil
	case datatype.BOOL:
		return NewBool(d), nil
	case datatype.INT8:
		return NewPrimitive[int8](d), nil
	case datatype.UINT8:
		return NewPrimitive[uint8](d), nil
	case datatype.INT16:
		return NewPrimitive[int16](d), nil
	case datatype.UINT16:
		return NewPrimitive[uint16](d), nil
	case datatype.INT32:
		return NewPrimitive[int32](d), nil
	case datatype.UINT32:
		return NewPrimitive[uint32](d), nil
	case datatype.INT64:
		return NewPrimitive[int64](d), nil
	case datatype.UINT64:
		return NewPrimitive[uint64](d), nil
	case datatype.FLOAT16:
		return NewPrimitive[float16.Num](d), nil
	case datatype.FLOAT32:
		return NewPrimitive[float32](d), nil
	case datatype.FLOAT64:
		return NewPrimitive[float64](d), nil
	case datatype.DATE32:
		return NewPrimitive[int32](d), nil
	case datatype.DATE64:
		return NewPrimitive[int64](d), nil
	case datatype.INTERVAL_MONTHS:
		return NewPrimitive[int32](d), nil
	case datatype.INTERVAL_DAY_TIME:
		return NewPrimitive[DayTime](d), nil
	case datatype.INTERVAL_MONTH_DAY_NANO:
		return NewPrimitive[MonthDayNano](d), nil
	case datatype.STRING, datatype.BINARY:
		return NewVarBinary[int32](d)
	case datatype.LARGE_STRING, datatype.LARGE_BINARY:
		return NewVarBinary[int64](d)
	case datatype.STRING_VIEW, datatype.BINARY_VIEW:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, dt.Name())
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, dt.Name())
	}
}
