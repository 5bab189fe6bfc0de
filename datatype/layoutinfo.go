package datatype

// BufferCount returns the number of ABI buffers the physical layout of dt
// carries, including the validity bitmap slot where the layout has one.
func BufferCount(dt DataType) int {
	switch dt.ID() {
	case NULL, RUN_END_ENCODED:
		return 0
	case STRUCT, SPARSE_UNION:
		return 1
	case FIXED_SIZE_LIST:
		return 1
	case STRING, LARGE_STRING, BINARY, LARGE_BINARY, LIST_VIEW, LARGE_LIST_VIEW:
		return 3
	default:
		// validity + data for primitives, fixed-width binary, decimal and
		// dictionary indices; validity + offsets for lists and maps; type
		// ids + offsets for dense unions.
		return 2
	}
}

// ChildCount returns the number of child columns dt requires.
func ChildCount(dt DataType) int {
	switch t := dt.(type) {
	case *List, *LargeList, *ListView, *LargeListView, *FixedSizeList, *Map:
		return 1
	case *RunEndEncoded:
		return 2
	case *Struct:
		return len(t.Fields)
	case *Union:
		return len(t.Fields)
	default:
		return 0
	}
}

// Children returns the child fields dt requires, in order.
func Children(dt DataType) []Field {
	switch t := dt.(type) {
	case *List:
		return []Field{t.Elem}
	case *LargeList:
		return []Field{t.Elem}
	case *ListView:
		return []Field{t.Elem}
	case *LargeListView:
		return []Field{t.Elem}
	case *FixedSizeList:
		return []Field{t.Elem}
	case *Map:
		return []Field{{Name: "entries", Type: t.Entries(), Nullable: false}}
	case *RunEndEncoded:
		return []Field{
			{Name: "run_ends", Type: t.RunEnds, Nullable: false},
			{Name: "values", Type: t.Values, Nullable: true},
		}
	case *Struct:
		return t.Fields
	case *Union:
		return t.Fields
	default:
		return nil
	}
}

// FixedByteWidth returns the data-buffer element width in bytes for types
// whose elements occupy a whole number of bytes. It reports false for
// variable-size and nested types and for bool, whose elements are single
// bits.
func FixedByteWidth(dt DataType) (int, bool) {
	switch t := dt.(type) {
	case *Primitive:
		if t.id == BOOL || t.bitWidth == 0 {
			return 0, false
		}
		return t.bitWidth / 8, true
	case *Time32:
		return 4, true
	case *Time64:
		return 8, true
	case *Timestamp:
		return 8, true
	case *Duration:
		return 8, true
	case *Decimal:
		return t.BitWidth / 8, true
	case *FixedWidthBinary:
		return t.ByteWidth, true
	case *Dictionary:
		return FixedByteWidth(t.Index)
	default:
		return 0, false
	}
}

// OffsetByteWidth returns the width of the offsets-buffer elements for
// variable-size and list layouts, or false for other types.
func OffsetByteWidth(dt DataType) (int, bool) {
	switch dt.ID() {
	case STRING, BINARY, LIST, LIST_VIEW, MAP:
		return 4, true
	case LARGE_STRING, LARGE_BINARY, LARGE_LIST, LARGE_LIST_VIEW:
		return 8, true
	default:
		return 0, false
	}
}

// HasValidity reports whether the layout of dt carries a validity bitmap
// buffer in slot 0.
func HasValidity(dt DataType) bool {
	switch dt.ID() {
	case NULL, RUN_END_ENCODED, DENSE_UNION, SPARSE_UNION:
		return false
	default:
		return true
	}
}
