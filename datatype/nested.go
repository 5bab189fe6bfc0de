package datatype

import (
	"fmt"
	"strconv"
	"strings"
)

// List is a variable-size list with 32-bit offsets.
type List struct {
	Elem Field
}

// ListOf returns a list of the given element type with the conventional
// child name.
func ListOf(elem DataType) *List {
	return &List{Elem: Field{Name: "item", Type: elem, Nullable: true}}
}

// ID implements DataType.
func (t *List) ID() ID { return LIST }

// Name implements DataType.
func (t *List) Name() string { return fmt.Sprintf("list<%s: %s>", t.Elem.Name, t.Elem.Type.Name()) }

// Format implements DataType.
func (t *List) Format() string { return "+l" }

// LargeList is a variable-size list with 64-bit offsets.
type LargeList struct {
	Elem Field
}

// LargeListOf returns a large list of the given element type.
func LargeListOf(elem DataType) *LargeList {
	return &LargeList{Elem: Field{Name: "item", Type: elem, Nullable: true}}
}

// ID implements DataType.
func (t *LargeList) ID() ID { return LARGE_LIST }

// Name implements DataType.
func (t *LargeList) Name() string {
	return fmt.Sprintf("large_list<%s: %s>", t.Elem.Name, t.Elem.Type.Name())
}

// Format implements DataType.
func (t *LargeList) Format() string { return "+L" }

// ListView addresses child ranges through separate offset and size buffers.
type ListView struct {
	Elem Field
}

// ID implements DataType.
func (t *ListView) ID() ID { return LIST_VIEW }

// Name implements DataType.
func (t *ListView) Name() string {
	return fmt.Sprintf("list_view<%s: %s>", t.Elem.Name, t.Elem.Type.Name())
}

// Format implements DataType.
func (t *ListView) Format() string { return "+vl" }

// LargeListView is ListView with 64-bit offsets and sizes.
type LargeListView struct {
	Elem Field
}

// ID implements DataType.
func (t *LargeListView) ID() ID { return LARGE_LIST_VIEW }

// Name implements DataType.
func (t *LargeListView) Name() string {
	return fmt.Sprintf("large_list_view<%s: %s>", t.Elem.Name, t.Elem.Type.Name())
}

// Format implements DataType.
func (t *LargeListView) Format() string { return "+vL" }

// FixedSizeList is a list whose every element holds exactly N children.
type FixedSizeList struct {
	Elem Field
	N    int
}

// FixedSizeListOf returns a fixed-size list of the given width and element
// type.
func FixedSizeListOf(n int, elem DataType) *FixedSizeList {
	return &FixedSizeList{Elem: Field{Name: "item", Type: elem, Nullable: true}, N: n}
}

// ID implements DataType.
func (t *FixedSizeList) ID() ID { return FIXED_SIZE_LIST }

// Name implements DataType.
func (t *FixedSizeList) Name() string {
	return fmt.Sprintf("fixed_size_list<%s: %s>[%d]", t.Elem.Name, t.Elem.Type.Name(), t.N)
}

// Format implements DataType.
func (t *FixedSizeList) Format() string { return fmt.Sprintf("+w:%d", t.N) }

// Struct is a fixed-arity product of named fields.
type Struct struct {
	Fields []Field
}

// StructOf returns a struct of the given fields.
func StructOf(fields ...Field) *Struct {
	return &Struct{Fields: fields}
}

// ID implements DataType.
func (t *Struct) ID() ID { return STRUCT }

// Name implements DataType.
func (t *Struct) Name() string {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		parts[i] = f.Name + ": " + f.Type.Name()
	}
	return "struct<" + strings.Join(parts, ", ") + ">"
}

// Format implements DataType.
func (t *Struct) Format() string { return "+s" }

// Map is a list of key/value entries. Its single child is a non-nullable
// struct with the key and item fields.
type Map struct {
	Key        DataType
	Item       DataType
	KeysSorted bool
}

// MapOf returns a map from key to item.
func MapOf(key, item DataType) *Map {
	return &Map{Key: key, Item: item}
}

// ID implements DataType.
func (t *Map) ID() ID { return MAP }

// Name implements DataType.
func (t *Map) Name() string {
	return fmt.Sprintf("map<%s, %s>", t.Key.Name(), t.Item.Name())
}

// Format implements DataType.
func (t *Map) Format() string { return "+m" }

// Entries returns the implied child struct type of the map.
func (t *Map) Entries() *Struct {
	return StructOf(
		Field{Name: "key", Type: t.Key, Nullable: false},
		Field{Name: "value", Type: t.Item, Nullable: true},
	)
}

// UnionMode distinguishes dense and sparse unions.
type UnionMode uint8

const (
	// DenseMode unions carry a per-element offset into the selected child.
	DenseMode UnionMode = iota
	// SparseMode unions index every child with the element index itself.
	SparseMode
)

// Union selects one child per element through a type-id buffer.
type Union struct {
	Mode    UnionMode
	Fields  []Field
	TypeIDs []int8
}

// UnionOf returns a union of the given mode with type ids 0..len(fields)-1.
func UnionOf(mode UnionMode, fields ...Field) *Union {
	ids := make([]int8, len(fields))
	for i := range ids {
		ids[i] = int8(i)
	}
	return &Union{Mode: mode, Fields: fields, TypeIDs: ids}
}

// ID implements DataType.
func (t *Union) ID() ID {
	if t.Mode == DenseMode {
		return DENSE_UNION
	}
	return SPARSE_UNION
}

// Name implements DataType.
func (t *Union) Name() string {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		parts[i] = f.Name + ": " + f.Type.Name()
	}
	mode := "dense"
	if t.Mode == SparseMode {
		mode = "sparse"
	}
	return mode + "_union<" + strings.Join(parts, ", ") + ">"
}

// Format implements DataType.
func (t *Union) Format() string {
	ids := make([]string, len(t.TypeIDs))
	for i, id := range t.TypeIDs {
		ids[i] = strconv.Itoa(int(id))
	}
	head := "+ud:"
	if t.Mode == SparseMode {
		head = "+us:"
	}
	return head + strings.Join(ids, ",")
}

// ChildIndex returns the child slot for a type id, or -1 when the id is not
// part of the union.
func (t *Union) ChildIndex(typeID int8) int {
	for i, id := range t.TypeIDs {
		if id == typeID {
			return i
		}
	}
	return -1
}

// RunEndEncoded represents runs of identical values as accumulated run ends
// plus one value per run.
type RunEndEncoded struct {
	RunEnds DataType // int16, int32 or int64
	Values  DataType
}

// RunEndEncodedOf returns a run-end-encoded type.
func RunEndEncodedOf(runEnds, values DataType) *RunEndEncoded {
	return &RunEndEncoded{RunEnds: runEnds, Values: values}
}

// ID implements DataType.
func (t *RunEndEncoded) ID() ID { return RUN_END_ENCODED }

// Name implements DataType.
func (t *RunEndEncoded) Name() string {
	return fmt.Sprintf("run_end_encoded<%s, %s>", t.RunEnds.Name(), t.Values.Name())
}

// Format implements DataType.
func (t *RunEndEncoded) Format() string { return "+r" }

// Dictionary encodes a column as integer indices into a column of distinct
// values. Its format string is that of the index type; the value type
// travels in the dictionary schema slot.
type Dictionary struct {
	Index   DataType
	Value   DataType
	Ordered bool
}

// DictionaryOf returns a dictionary type with the given index and value
// types.
func DictionaryOf(index, value DataType) *Dictionary {
	return &Dictionary{Index: index, Value: value}
}

// ID implements DataType.
func (t *Dictionary) ID() ID { return DICTIONARY }

// Name implements DataType.
func (t *Dictionary) Name() string {
	return fmt.Sprintf("dictionary<%s -> %s>", t.Index.Name(), t.Value.Name())
}

// Format implements DataType.
func (t *Dictionary) Format() string { return t.Index.Format() }
