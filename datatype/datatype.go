// Package datatype defines the closed set of logical column types and their
// C ABI format-string encoding.
//
// Every type knows its format head (the piece of the format string that
// does not describe children); nested types additionally carry the types of
// their children, which on the wire live in child schema structures.
package datatype

import "fmt"

// ID is the runtime tag of a logical type.
type ID uint8

const (
	NULL ID = iota
	BOOL
	INT8
	UINT8
	INT16
	UINT16
	INT32
	UINT32
	INT64
	UINT64
	FLOAT16
	FLOAT32
	FLOAT64
	STRING
	LARGE_STRING
	STRING_VIEW
	BINARY
	LARGE_BINARY
	BINARY_VIEW
	FIXED_WIDTH_BINARY
	DATE32
	DATE64
	TIME32
	TIME64
	TIMESTAMP
	DURATION
	INTERVAL_MONTHS
	INTERVAL_DAY_TIME
	INTERVAL_MONTH_DAY_NANO
	DECIMAL
	LIST
	LARGE_LIST
	LIST_VIEW
	LARGE_LIST_VIEW
	FIXED_SIZE_LIST
	STRUCT
	MAP
	DENSE_UNION
	SPARSE_UNION
	RUN_END_ENCODED
	DICTIONARY
)

// String returns the lower-case name of the tag.
func (id ID) String() string {
	if name, ok := idNames[id]; ok {
		return name
	}
	return fmt.Sprintf("ID(%d)", uint8(id))
}

var idNames = map[ID]string{
	NULL:                    "null",
	BOOL:                    "bool",
	INT8:                    "int8",
	UINT8:                   "uint8",
	INT16:                   "int16",
	UINT16:                  "uint16",
	INT32:                   "int32",
	UINT32:                  "uint32",
	INT64:                   "int64",
	UINT64:                  "uint64",
	FLOAT16:                 "float16",
	FLOAT32:                 "float32",
	FLOAT64:                 "float64",
	STRING:                  "utf8",
	LARGE_STRING:            "large_utf8",
	STRING_VIEW:             "utf8_view",
	BINARY:                  "binary",
	LARGE_BINARY:            "large_binary",
	BINARY_VIEW:             "binary_view",
	FIXED_WIDTH_BINARY:      "fixed_width_binary",
	DATE32:                  "date32",
	DATE64:                  "date64",
	TIME32:                  "time32",
	TIME64:                  "time64",
	TIMESTAMP:               "timestamp",
	DURATION:                "duration",
	INTERVAL_MONTHS:         "interval_months",
	INTERVAL_DAY_TIME:       "interval_day_time",
	INTERVAL_MONTH_DAY_NANO: "interval_month_day_nano",
	DECIMAL:                 "decimal",
	LIST:                    "list",
	LARGE_LIST:              "large_list",
	LIST_VIEW:               "list_view",
	LARGE_LIST_VIEW:         "large_list_view",
	FIXED_SIZE_LIST:         "fixed_size_list",
	STRUCT:                  "struct",
	MAP:                     "map",
	DENSE_UNION:             "dense_union",
	SPARSE_UNION:            "sparse_union",
	RUN_END_ENCODED:         "run_end_encoded",
	DICTIONARY:              "dictionary",
}

// DataType describes one logical column type.
type DataType interface {
	ID() ID
	Name() string
	// Format returns the format head of this type: the full format string
	// for flat types, the child-independent marker (e.g. "+l") for nested
	// ones.
	Format() string
}

// Field is a named, optionally nullable child slot of a nested type.
type Field struct {
	Name     string
	Type     DataType
	Nullable bool
}

// Primitive is a flat fixed-width type with no parameters.
type Primitive struct {
	id     ID
	name   string
	format string
	// width in bits; 1 for bool
	bitWidth int
}

// ID implements DataType.
func (p *Primitive) ID() ID { return p.id }

// Name implements DataType.
func (p *Primitive) Name() string { return p.name }

// Format implements DataType.
func (p *Primitive) Format() string { return p.format }

// BitWidth returns the element width in bits.
func (p *Primitive) BitWidth() int { return p.bitWidth }

// Singleton instances of the parameterless types.
var (
	Null    = &Primitive{NULL, "null", "n", 0}
	Bool    = &Primitive{BOOL, "bool", "b", 1}
	Int8    = &Primitive{INT8, "int8", "c", 8}
	Uint8   = &Primitive{UINT8, "uint8", "C", 8}
	Int16   = &Primitive{INT16, "int16", "s", 16}
	Uint16  = &Primitive{UINT16, "uint16", "S", 16}
	Int32   = &Primitive{INT32, "int32", "i", 32}
	Uint32  = &Primitive{UINT32, "uint32", "I", 32}
	Int64   = &Primitive{INT64, "int64", "l", 64}
	Uint64  = &Primitive{UINT64, "uint64", "L", 64}
	Float16 = &Primitive{FLOAT16, "float16", "e", 16}
	Float32 = &Primitive{FLOAT32, "float32", "f", 32}
	Float64 = &Primitive{FLOAT64, "float64", "g", 64}
)

// Binary-like types without parameters.
var (
	String      DataType = &Primitive{STRING, "utf8", "u", 0}
	LargeString DataType = &Primitive{LARGE_STRING, "large_utf8", "U", 0}
	StringView  DataType = &Primitive{STRING_VIEW, "utf8_view", "vu", 0}
	Binary      DataType = &Primitive{BINARY, "binary", "z", 0}
	LargeBinary DataType = &Primitive{LARGE_BINARY, "large_binary", "Z", 0}
	BinaryView  DataType = &Primitive{BINARY_VIEW, "binary_view", "vz", 0}
)

// FixedWidthBinary holds elements of a fixed byte width.
type FixedWidthBinary struct {
	ByteWidth int
}

// ID implements DataType.
func (t *FixedWidthBinary) ID() ID { return FIXED_WIDTH_BINARY }

// Name implements DataType.
func (t *FixedWidthBinary) Name() string {
	return fmt.Sprintf("fixed_width_binary[%d]", t.ByteWidth)
}

// Format implements DataType.
func (t *FixedWidthBinary) Format() string { return fmt.Sprintf("w:%d", t.ByteWidth) }

// Decimal is a fixed-point decimal of a given precision, scale and storage
// bit width (32, 64, 128 or 256).
type Decimal struct {
	Precision int32
	Scale     int32
	BitWidth  int
}

// ID implements DataType.
func (t *Decimal) ID() ID { return DECIMAL }

// Name implements DataType.
func (t *Decimal) Name() string {
	return fmt.Sprintf("decimal%d(%d, %d)", t.BitWidth, t.Precision, t.Scale)
}

// Format implements DataType.
func (t *Decimal) Format() string {
	if t.BitWidth == 128 {
		return fmt.Sprintf("d:%d,%d", t.Precision, t.Scale)
	}
	return fmt.Sprintf("d:%d,%d,%d", t.Precision, t.Scale, t.BitWidth)
}
