// This file implements builders turning native Go slices into columns.
// Builders produce owned, immutable columns; nulls enter either through an
// explicit validity slice or through nullable values.
package colgo

import (
	"github.com/hupe1980/colgo/datatype"
	"github.com/hupe1980/colgo/layout"
	"github.com/hupe1980/colgo/nullable"
)

// Element constrains the native Go types with a direct fixed-width column
// mapping.
type Element interface {
	int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64
}

func elementType[T Element]() datatype.DataType {
	var zero T
	switch any(zero).(type) {
	case int8:
		return datatype.Int8
	case int16:
		return datatype.Int16
	case int32:
		return datatype.Int32
	case int64:
		return datatype.Int64
	case uint8:
		return datatype.Uint8
	case uint16:
		return datatype.Uint16
	case uint32:
		return datatype.Uint32
	case uint64:
		return datatype.Uint64
	case float32:
		return datatype.Float32
	default:
		return datatype.Float64
	}
}

// FromSlice builds a fixed-width column from native values. A nil valid
// slice means every element is valid.
func FromSlice[T Element](values []T, valid []bool, optFns ...Option) (*Array, error) {
	dt := elementType[T]()
	data := layout.PrimitiveData(dt, values, valid)
	return NewArray(datatype.Field{Type: dt, Nullable: true}, data, optFns...)
}

// FromValues builds a fixed-width column from nullable values.
func FromValues[T Element](values []nullable.Value[T], optFns ...Option) (*Array, error) {
	raw := make([]T, len(values))
	valid := make([]bool, len(values))
	for i, v := range values {
		raw[i] = v.Raw()
		valid[i] = v.HasValue()
	}
	return FromSlice(raw, valid, optFns...)
}

// FromStrings builds a string column from native values.
func FromStrings(values []string, valid []bool, optFns ...Option) (*Array, error) {
	data := layout.StringData(values, valid)
	return NewArray(datatype.Field{Type: datatype.String, Nullable: true}, data, optFns...)
}

// FromBools builds a bit-packed boolean column from native values.
func FromBools(values []bool, valid []bool, optFns ...Option) (*Array, error) {
	data := layout.BoolData(values, valid)
	return NewArray(datatype.Field{Type: datatype.Bool, Nullable: true}, data, optFns...)
}

// FromBytes builds a binary column from native values.
func FromBytes(values [][]byte, valid []bool, optFns ...Option) (*Array, error) {
	data := layout.BytesData(values, valid)
	return NewArray(datatype.Field{Type: datatype.Binary, Nullable: true}, data, optFns...)
}

// DictionaryFromStrings builds a dictionary-encoded string column:
// distinct values in first-appearance order, int32 indices.
func DictionaryFromStrings(values []string, valid []bool, optFns ...Option) (*Array, error) {
	data := layout.EncodeStrings(values, valid)
	return NewArray(datatype.Field{Type: data.Type(), Nullable: true}, data, optFns...)
}

// WithName returns a handle on the same column under a different field
// name. The underlying record is shared.
func (a *Array) WithName(name string) *Array {
	b := *a
	b.field.Name = name
	return &b
}
