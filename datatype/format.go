package datatype

import (
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidFormat reports a malformed or unrecognized ABI format string.
// This is a recoverable input error, not a contract violation: foreign
// producers are allowed to hand us formats we cannot make sense of.
type ErrInvalidFormat struct {
	Format string
	Reason string
}

// Error implements the error interface.
func (e *ErrInvalidFormat) Error() string {
	return fmt.Sprintf("invalid format %q: %s", e.Format, e.Reason)
}

func invalidf(format, reason string, args ...any) error {
	return &ErrInvalidFormat{Format: format, Reason: fmt.Sprintf(reason, args...)}
}

var simpleFormats = map[string]DataType{
	"n":   Null,
	"b":   Bool,
	"c":   Int8,
	"C":   Uint8,
	"s":   Int16,
	"S":   Uint16,
	"i":   Int32,
	"I":   Uint32,
	"l":   Int64,
	"L":   Uint64,
	"e":   Float16,
	"f":   Float32,
	"g":   Float64,
	"u":   String,
	"U":   LargeString,
	"vu":  StringView,
	"z":   Binary,
	"Z":   LargeBinary,
	"vz":  BinaryView,
	"tdD": Date32,
	"tdm": Date64,
	"tts": &Time32{Unit: Second},
	"ttm": &Time32{Unit: Millisecond},
	"ttu": &Time64{Unit: Microsecond},
	"ttn": &Time64{Unit: Nanosecond},
	"tDs": &Duration{Unit: Second},
	"tDm": &Duration{Unit: Millisecond},
	"tDu": &Duration{Unit: Microsecond},
	"tDn": &Duration{Unit: Nanosecond},
	"tiM": IntervalMonths,
	"tiD": IntervalDayTime,
	"tin": IntervalMonthDayNano,
}

// Parse decodes an ABI format string into a DataType. Nested formats take
// their child types from children; flat formats reject children. The
// dictionary encoding is not visible in the format string and is layered on
// by the schema importer.
func Parse(format string, children ...Field) (DataType, error) {
	if format == "" {
		return nil, invalidf(format, "empty format string")
	}

	if dt, ok := simpleFormats[format]; ok {
		if len(children) != 0 {
			return nil, invalidf(format, "flat type cannot have %d children", len(children))
		}
		return dt, nil
	}

	if ts, ok := strings.CutPrefix(format, "ts"); ok {
		return parseTimestamp(format, ts, children)
	}
	if args, ok := strings.CutPrefix(format, "w:"); ok {
		if len(children) != 0 {
			return nil, invalidf(format, "flat type cannot have %d children", len(children))
		}
		width, err := strconv.Atoi(args)
		if err != nil || width <= 0 {
			return nil, invalidf(format, "bad byte width %q", args)
		}
		return &FixedWidthBinary{ByteWidth: width}, nil
	}
	if args, ok := strings.CutPrefix(format, "d:"); ok {
		if len(children) != 0 {
			return nil, invalidf(format, "flat type cannot have %d children", len(children))
		}
		return parseDecimal(format, args)
	}
	if strings.HasPrefix(format, "+") {
		return parseNested(format, children)
	}

	return nil, invalidf(format, "unrecognized format")
}

func parseTimestamp(format, args string, children []Field) (DataType, error) {
	if len(children) != 0 {
		return nil, invalidf(format, "flat type cannot have %d children", len(children))
	}
	if len(args) < 2 || args[1] != ':' {
		return nil, invalidf(format, "timestamp needs a unit and a timezone separator")
	}
	var unit TimeUnit
	switch args[0] {
	case 's':
		unit = Second
	case 'm':
		unit = Millisecond
	case 'u':
		unit = Microsecond
	case 'n':
		unit = Nanosecond
	default:
		return nil, invalidf(format, "bad timestamp unit %q", args[0])
	}
	return &Timestamp{Unit: unit, TimeZone: args[2:]}, nil
}

func parseDecimal(format, args string) (DataType, error) {
	props := strings.Split(args, ",")
	if len(props) < 2 || len(props) > 3 {
		return nil, invalidf(format, "decimal needs precision,scale[,bits], got %d properties", len(props))
	}

	precision, err := strconv.ParseInt(props[0], 10, 32)
	if err != nil {
		return nil, invalidf(format, "bad decimal precision %q", props[0])
	}
	scale, err := strconv.ParseInt(props[1], 10, 32)
	if err != nil {
		return nil, invalidf(format, "bad decimal scale %q", props[1])
	}

	bits := 128
	if len(props) == 3 {
		bits, err = strconv.Atoi(props[2])
		if err != nil {
			return nil, invalidf(format, "bad decimal bit width %q", props[2])
		}
	}
	switch bits {
	case 32, 64, 128, 256:
	default:
		return nil, invalidf(format, "decimal bit width must be 32, 64, 128 or 256, got %d", bits)
	}

	return &Decimal{Precision: int32(precision), Scale: int32(scale), BitWidth: bits}, nil
}

func parseNested(format string, children []Field) (DataType, error) {
	oneChild := func() (Field, error) {
		if len(children) != 1 {
			return Field{}, invalidf(format, "expected 1 child, got %d", len(children))
		}
		return children[0], nil
	}

	switch {
	case format == "+l":
		elem, err := oneChild()
		if err != nil {
			return nil, err
		}
		return &List{Elem: elem}, nil
	case format == "+L":
		elem, err := oneChild()
		if err != nil {
			return nil, err
		}
		return &LargeList{Elem: elem}, nil
	case format == "+vl":
		elem, err := oneChild()
		if err != nil {
			return nil, err
		}
		return &ListView{Elem: elem}, nil
	case format == "+vL":
		elem, err := oneChild()
		if err != nil {
			return nil, err
		}
		return &LargeListView{Elem: elem}, nil
	case strings.HasPrefix(format, "+w:"):
		elem, err := oneChild()
		if err != nil {
			return nil, err
		}
		n, convErr := strconv.Atoi(format[len("+w:"):])
		if convErr != nil || n < 0 {
			return nil, invalidf(format, "bad fixed list size %q", format[len("+w:"):])
		}
		return &FixedSizeList{Elem: elem, N: n}, nil
	case format == "+s":
		return &Struct{Fields: children}, nil
	case format == "+m":
		entries, err := oneChild()
		if err != nil {
			return nil, err
		}
		st, ok := entries.Type.(*Struct)
		if !ok || len(st.Fields) != 2 {
			return nil, invalidf(format, "map child must be a two-field struct")
		}
		return &Map{Key: st.Fields[0].Type, Item: st.Fields[1].Type}, nil
	case format == "+r":
		if len(children) != 2 {
			return nil, invalidf(format, "run-end encoding expects 2 children, got %d", len(children))
		}
		switch children[0].Type.ID() {
		case INT16, INT32, INT64:
		default:
			return nil, invalidf(format, "run ends must be int16, int32 or int64, got %s", children[0].Type.Name())
		}
		return &RunEndEncoded{RunEnds: children[0].Type, Values: children[1].Type}, nil
	case strings.HasPrefix(format, "+ud:") || strings.HasPrefix(format, "+us:"):
		return parseUnion(format, children)
	}

	return nil, invalidf(format, "unrecognized nested format")
}

func parseUnion(format string, children []Field) (DataType, error) {
	mode := DenseMode
	if format[1] == 'u' && format[2] == 's' {
		mode = SparseMode
	}

	ids := strings.Split(format[4:], ",")
	if len(ids) == 1 && ids[0] == "" {
		ids = nil
	}
	if len(ids) != len(children) {
		return nil, invalidf(format, "union has %d type ids but %d children", len(ids), len(children))
	}

	typeIDs := make([]int8, len(ids))
	for i, s := range ids {
		v, err := strconv.ParseInt(s, 10, 8)
		if err != nil || v < 0 {
			return nil, invalidf(format, "bad union type id %q", s)
		}
		typeIDs[i] = int8(v)
	}

	return &Union{Mode: mode, Fields: children, TypeIDs: typeIDs}, nil
}
