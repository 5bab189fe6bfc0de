package datatype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferCount(t *testing.T) {
	assert.Equal(t, 0, BufferCount(Null))
	assert.Equal(t, 0, BufferCount(RunEndEncodedOf(Int32, Int64)))
	assert.Equal(t, 1, BufferCount(StructOf(Field{Name: "a", Type: Int32})))
	assert.Equal(t, 1, BufferCount(UnionOf(SparseMode, Field{Name: "a", Type: Int32})))
	assert.Equal(t, 1, BufferCount(FixedSizeListOf(4, Int32)))
	assert.Equal(t, 2, BufferCount(Int32))
	assert.Equal(t, 2, BufferCount(Bool))
	assert.Equal(t, 2, BufferCount(ListOf(Int32)))
	assert.Equal(t, 2, BufferCount(UnionOf(DenseMode, Field{Name: "a", Type: Int32})))
	assert.Equal(t, 3, BufferCount(String))
	assert.Equal(t, 3, BufferCount(LargeBinary))
}

func TestChildCount(t *testing.T) {
	assert.Equal(t, 0, ChildCount(Int64))
	assert.Equal(t, 1, ChildCount(ListOf(Int32)))
	assert.Equal(t, 1, ChildCount(MapOf(String, Int32)))
	assert.Equal(t, 2, ChildCount(RunEndEncodedOf(Int32, String)))
	assert.Equal(t, 3, ChildCount(StructOf(
		Field{Name: "a", Type: Int32},
		Field{Name: "b", Type: Int32},
		Field{Name: "c", Type: Int32},
	)))
}

func TestFixedByteWidth(t *testing.T) {
	w, ok := FixedByteWidth(Int32)
	assert.True(t, ok)
	assert.Equal(t, 4, w)

	w, ok = FixedByteWidth(Float16)
	assert.True(t, ok)
	assert.Equal(t, 2, w)

	w, ok = FixedByteWidth(&Decimal{Precision: 10, Scale: 2, BitWidth: 128})
	assert.True(t, ok)
	assert.Equal(t, 16, w)

	w, ok = FixedByteWidth(&FixedWidthBinary{ByteWidth: 7})
	assert.True(t, ok)
	assert.Equal(t, 7, w)

	w, ok = FixedByteWidth(DictionaryOf(Int16, String))
	assert.True(t, ok)
	assert.Equal(t, 2, w)

	_, ok = FixedByteWidth(Bool)
	assert.False(t, ok, "bool is bit packed")

	_, ok = FixedByteWidth(String)
	assert.False(t, ok)
}

func TestChildren(t *testing.T) {
	m := MapOf(String, Int32)
	kids := Children(m)
	assert.Len(t, kids, 1)
	assert.Equal(t, "entries", kids[0].Name)
	st := kids[0].Type.(*Struct)
	assert.Equal(t, "key", st.Fields[0].Name)
	assert.False(t, st.Fields[0].Nullable)

	ree := Children(RunEndEncodedOf(Int32, String))
	assert.Equal(t, "run_ends", ree[0].Name)
	assert.Equal(t, "values", ree[1].Name)
}
