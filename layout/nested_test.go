package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/colgo/arraydata"
	"github.com/hupe1980/colgo/buffer"
	"github.com/hupe1980/colgo/contracts"
	"github.com/hupe1980/colgo/datatype"
	"github.com/hupe1980/colgo/nullable"
)

func TestDictionaryEncode(t *testing.T) {
	data := EncodeStrings([]string{"a", "bb", "ccc", "bb", "a"}, nil)
	d, err := NewDictionary(data)
	require.NoError(t, err)

	require.Equal(t, 5, d.Len())
	require.Equal(t, 3, d.Values().Len())

	wantIdx := []int{0, 1, 2, 1, 0}
	for i, want := range wantIdx {
		assert.Equal(t, nullable.Of(want), d.Index(i))
	}
	vals := d.Values().(*VarBinary[int32])
	assert.Equal(t, nullable.Of("a"), vals.StringAt(0))
	assert.Equal(t, nullable.Of("bb"), vals.StringAt(1))
	assert.Equal(t, nullable.Of("ccc"), vals.StringAt(2))
	assert.Equal(t, 0, d.NullCount())

	var raw []int
	for idx := range d.Indices() {
		raw = append(raw, idx)
	}
	assert.Equal(t, wantIdx, raw)
}

func TestDictionaryNestedValidity(t *testing.T) {
	t.Run("null index", func(t *testing.T) {
		data := EncodeStrings([]string{"x", "y", "x"}, []bool{true, false, true})
		d, err := NewDictionary(data)
		require.NoError(t, err)
		assert.True(t, d.IsValid(0))
		assert.False(t, d.IsValid(1))
		assert.Equal(t, 1, d.NullCount())
	})

	t.Run("null dictionary entry", func(t *testing.T) {
		dict := StringData([]string{"x", "y"}, []bool{true, false})
		data := arraydata.New(datatype.DictionaryOf(datatype.Int32, datatype.String),
			3, 0, nil,
			[]*buffer.Buffer{buffer.FromSlice([]int32{0, 1, 0})},
			nil, dict)
		d, err := NewDictionary(data)
		require.NoError(t, err)
		assert.True(t, d.IsValid(0))
		assert.False(t, d.IsValid(1)) // valid index, null entry
		assert.Equal(t, 1, d.NullCount())
	})
}

func TestRunEnd(t *testing.T) {
	// Runs of lengths 3, 2, 4 over values 7, 8, 9.
	values := PrimitiveData(datatype.Int32, []int32{7, 8, 9}, []bool{true, false, true})
	data := RunEndData([]int32{3, 5, 9}, values)

	r, err := NewRunEnd(data)
	require.NoError(t, err)

	require.Equal(t, 9, r.Len())
	require.Equal(t, 3, r.RunCount())
	assert.Equal(t, 3, r.RunLength(0))
	assert.Equal(t, 2, r.RunLength(1))
	assert.Equal(t, 4, r.RunLength(2))

	assert.Equal(t, 0, r.RunIndex(0))
	assert.Equal(t, 0, r.RunIndex(2))
	assert.Equal(t, 1, r.RunIndex(3))
	assert.Equal(t, 2, r.RunIndex(5))
	assert.Equal(t, 2, r.RunIndex(8))

	assert.True(t, r.IsValid(0))
	assert.False(t, r.IsValid(4)) // second run's value is null
	assert.Equal(t, 2, r.NullCount())

	t.Run("runs iterator", func(t *testing.T) {
		var lens []int
		for _, n := range r.Runs() {
			lens = append(lens, n)
		}
		assert.Equal(t, []int{3, 2, 4}, lens)
	})

	t.Run("sliced window clips runs", func(t *testing.T) {
		sub, err := NewRunEnd(data.Slice(2, 4))
		require.NoError(t, err)
		assert.Equal(t, 0, sub.RunIndex(0))
		assert.Equal(t, 1, sub.RunIndex(1))
		assert.Equal(t, 2, sub.NullCount())
		var lens []int
		for _, n := range sub.Runs() {
			lens = append(lens, n)
		}
		assert.Equal(t, []int{1, 2, 1}, lens)
	})

	t.Run("element iterator", func(t *testing.T) {
		var got []int32
		for i, v := range r.All() {
			require.Equal(t, len(got), i)
			if v.HasValue() {
				got = append(got, v.Get().(*Primitive[int32]).Value(0))
			} else {
				got = append(got, -1)
			}
		}
		assert.Equal(t, []int32{7, 7, 7, -1, -1, 9, 9, 9, 9}, got)
	})

	t.Run("non-increasing ends are fatal on build", func(t *testing.T) {
		v := contracts.Recover(func() {
			RunEndData([]int32{3, 3}, PrimitiveData(datatype.Int32, []int32{1, 2}, nil))
		})
		require.NotNil(t, v)
	})
}

func TestDenseUnion(t *testing.T) {
	dt := datatype.UnionOf(datatype.DenseMode,
		datatype.Field{Name: "num", Type: datatype.Int32, Nullable: true},
		datatype.Field{Name: "str", Type: datatype.String, Nullable: true},
	)
	data := DenseUnionData(dt,
		[]int8{0, 1, 0, 1, 0},
		[]int32{0, 0, 1, 1, 2},
		[]*arraydata.ArrayData{
			PrimitiveData(datatype.Int32, []int32{10, 20, 30}, []bool{true, true, false}),
			StringData([]string{"a", "b"}, nil),
		})

	u, err := NewUnion(data)
	require.NoError(t, err)

	require.Equal(t, 5, u.Len())
	assert.Equal(t, int8(0), u.TypeID(0))
	assert.Equal(t, int8(1), u.TypeID(1))

	child, pos := u.Select(3)
	assert.Equal(t, 1, child)
	assert.Equal(t, 1, pos)

	assert.True(t, u.IsValid(0))
	assert.False(t, u.IsValid(4)) // third int is null
	assert.Equal(t, 1, u.NullCount())

	nums, err := u.Field(0)
	require.NoError(t, err)
	assert.Equal(t, nullable.Of(int32(20)), nums.(*Primitive[int32]).At(1))

	t.Run("element access", func(t *testing.T) {
		str := u.At(1)
		require.True(t, str.HasValue())
		assert.Equal(t, nullable.Of("a"), str.Get().(*VarBinary[int32]).StringAt(0))
		assert.False(t, u.At(4).HasValue())
	})
}

func TestSparseUnion(t *testing.T) {
	dt := datatype.UnionOf(datatype.SparseMode,
		datatype.Field{Name: "num", Type: datatype.Int32, Nullable: true},
		datatype.Field{Name: "str", Type: datatype.String, Nullable: true},
	)
	data := SparseUnionData(dt,
		[]int8{0, 1, 0},
		[]*arraydata.ArrayData{
			PrimitiveData(datatype.Int32, []int32{1, 0, 3}, nil),
			StringData([]string{"", "mid", ""}, nil),
		})

	u, err := NewUnion(data)
	require.NoError(t, err)

	child, pos := u.Select(1)
	assert.Equal(t, 1, child)
	assert.Equal(t, 1, pos) // sparse children align with the parent
	assert.Equal(t, 0, u.NullCount())

	t.Run("short child is recoverable", func(t *testing.T) {
		bad := arraydata.New(dt, 3, 0, nil,
			[]*buffer.Buffer{buffer.FromSlice([]int8{0, 0, 0})},
			[]*arraydata.ArrayData{
				PrimitiveData(datatype.Int32, []int32{1}, nil),
				StringData([]string{"", "", ""}, nil),
			}, nil)
		_, err := NewUnion(bad)
		require.Error(t, err)
	})
}

func TestMap(t *testing.T) {
	mt := datatype.MapOf(datatype.String, datatype.Int32)
	entries := StructData(mt.Entries().Fields, []*arraydata.ArrayData{
		StringData([]string{"a", "b", "c"}, nil),
		PrimitiveData(datatype.Int32, []int32{1, 2, 3}, []bool{true, true, false}),
	}, nil)
	data := arraydata.New(mt, 2, 0, nil,
		[]*buffer.Buffer{buffer.OffsetBufferFromSizes[int32]([]int{2, 1})},
		[]*arraydata.ArrayData{entries}, nil)

	m, err := NewMap(data)
	require.NoError(t, err)

	require.Equal(t, 2, m.Len())
	start, end := m.Bounds(0)
	assert.Equal(t, 0, start)
	assert.Equal(t, 2, end)

	first := m.At(0).Get()
	keys, err := first.Field(0)
	require.NoError(t, err)
	assert.Equal(t, nullable.Of("a"), keys.(*VarBinary[int32]).StringAt(0))

	second := m.At(1).Get()
	items, err := second.Field(1)
	require.NoError(t, err)
	assert.False(t, items.IsValid(0)) // value "c" maps to a null item
}

func TestDispatchUnsupported(t *testing.T) {
	dt, err := datatype.Parse("vu")
	require.NoError(t, err)
	data := arraydata.New(dt, 0, 0, nil, []*buffer.Buffer{
		buffer.Allocate(0), buffer.Allocate(0),
	}, nil, nil)
	_, err = Dispatch(data)
	require.ErrorIs(t, err, ErrUnsupported)
}
