package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/colgo/arraydata"
	"github.com/hupe1980/colgo/contracts"
	"github.com/hupe1980/colgo/datatype"
	"github.com/hupe1980/colgo/nullable"
)

func TestPrimitive(t *testing.T) {
	data := PrimitiveData(datatype.Int32, []int32{1, 2, 3, 4, 5}, []bool{true, true, false, true, true})
	l, err := Dispatch(data)
	require.NoError(t, err)
	p, ok := l.(*Primitive[int32])
	require.True(t, ok)

	require.Equal(t, 5, p.Len())
	assert.Equal(t, 1, p.NullCount())
	assert.Equal(t, nullable.Of(int32(2)), p.At(1))
	assert.False(t, p.At(2).HasValue())
	assert.Equal(t, int32(3), p.Value(2)) // raw storage survives under a null

	t.Run("iteration", func(t *testing.T) {
		var got []int32
		var nulls int
		for _, v := range p.All() {
			if v.HasValue() {
				got = append(got, v.Get())
			} else {
				nulls++
			}
		}
		assert.Equal(t, []int32{1, 2, 4, 5}, got)
		assert.Equal(t, 1, nulls)
	})

	t.Run("backward", func(t *testing.T) {
		var got []int32
		for _, v := range p.Backward() {
			got = append(got, v.GetOr(-1))
		}
		assert.Equal(t, []int32{5, 4, -1, 2, 1}, got)
	})

	t.Run("out of range is fatal", func(t *testing.T) {
		v := contracts.Recover(func() { p.At(5) })
		require.NotNil(t, v)
	})

	t.Run("sliced view", func(t *testing.T) {
		sub := NewPrimitive[int32](data.Slice(1, 3))
		assert.Equal(t, 3, sub.Len())
		assert.Equal(t, nullable.Of(int32(2)), sub.At(0))
		assert.False(t, sub.At(1).HasValue())
	})
}

func TestBool(t *testing.T) {
	data := BoolData(
		[]bool{true, false, true, true, false, false, true, false, true},
		[]bool{true, true, true, false, true, true, true, true, true})
	b := NewBool(data)

	require.Equal(t, 9, b.Len())
	assert.Equal(t, nullable.Of(true), b.At(0))
	assert.Equal(t, nullable.Of(false), b.At(1))
	assert.False(t, b.At(3).HasValue())
	assert.Equal(t, nullable.Of(true), b.At(8)) // second packed byte
}

func TestVarBinary(t *testing.T) {
	data := StringData([]string{"hello", "", "columnar", "go"}, []bool{true, true, false, true})
	l, err := Dispatch(data)
	require.NoError(t, err)
	v, ok := l.(*VarBinary[int32])
	require.True(t, ok)

	require.Equal(t, 4, v.Len())
	assert.Equal(t, nullable.Of("hello"), v.StringAt(0))
	assert.Equal(t, nullable.Of(""), v.StringAt(1))
	assert.False(t, v.At(2).HasValue())
	assert.Equal(t, []byte("columnar"), v.Value(2)) // raw bytes survive
	assert.Equal(t, nullable.Of([]byte("go")), v.At(3))

	t.Run("sliced view", func(t *testing.T) {
		sub, err := NewVarBinary[int32](data.Slice(2, 2))
		require.NoError(t, err)
		assert.False(t, sub.IsValid(0))
		assert.Equal(t, nullable.Of("go"), sub.StringAt(1))
	})

	t.Run("truncated offsets are recoverable", func(t *testing.T) {
		short := StringData([]string{"a"}, nil)
		short.Buffer(0).Resize(4) // one offset entry, need two
		_, err := NewVarBinary[int32](short)
		require.Error(t, err)
	})
}

func TestDecimalDispatch(t *testing.T) {
	t.Run("decimal32 as int32 storage", func(t *testing.T) {
		dt, err := datatype.Parse("d:9,2,32")
		require.NoError(t, err)
		l, err := Dispatch(PrimitiveData(dt, []int32{1250, -99}, nil))
		require.NoError(t, err)
		p, ok := l.(*Primitive[int32])
		require.True(t, ok)
		assert.Equal(t, nullable.Of(int32(1250)), p.At(0))
	})

	t.Run("decimal64 as int64 storage", func(t *testing.T) {
		dt, err := datatype.Parse("d:18,4,64")
		require.NoError(t, err)
		l, err := Dispatch(PrimitiveData(dt, []int64{123456789}, nil))
		require.NoError(t, err)
		_, ok := l.(*Primitive[int64])
		require.True(t, ok)
	})
}

func TestFixedWidthBinary(t *testing.T) {
	data := FixedWidthBinaryData(3, [][]byte{[]byte("abc"), []byte("def"), []byte("ghi")}, []bool{true, false, true})
	f, err := NewFixedWidthBinary(data)
	require.NoError(t, err)

	assert.Equal(t, nullable.Of([]byte("abc")), f.At(0))
	assert.False(t, f.At(1).HasValue())
	assert.Equal(t, []byte("ghi"), f.Value(2))

	t.Run("width mismatch is fatal", func(t *testing.T) {
		v := contracts.Recover(func() {
			FixedWidthBinaryData(3, [][]byte{[]byte("toolong")}, nil)
		})
		require.NotNil(t, v)
	})
}

func TestList(t *testing.T) {
	elem := PrimitiveData(datatype.Int64, []int64{1, 2, 3, 4, 5, 6, 7, 8, 9}, nil)
	data := ListData(elem, []int{3, 3, 3}, []bool{true, false, true})

	l, err := NewList[int32](data)
	require.NoError(t, err)
	require.Equal(t, 3, l.Len())

	start, end := l.Bounds(1)
	assert.Equal(t, 3, start)
	assert.Equal(t, 6, end)

	first := l.At(0)
	require.True(t, first.HasValue())
	p := first.Get().(*Primitive[int64])
	assert.Equal(t, 3, p.Len())
	assert.Equal(t, nullable.Of(int64(1)), p.At(0))

	assert.False(t, l.At(1).HasValue())

	last := l.At(2).Get().(*Primitive[int64])
	assert.Equal(t, nullable.Of(int64(9)), last.At(2))
}

func TestFixedSizeList(t *testing.T) {
	elem := PrimitiveData(datatype.Float32, []float32{1, 2, 3, 4, 5, 6}, nil)
	data := FixedSizeListData(2, elem, []bool{true, true, false})

	f, err := NewFixedSizeList(data)
	require.NoError(t, err)
	require.Equal(t, 3, f.Len())
	require.Equal(t, 2, f.Size())

	mid := f.At(1).Get().(*Primitive[float32])
	assert.Equal(t, nullable.Of(float32(3)), mid.At(0))
	assert.Equal(t, nullable.Of(float32(4)), mid.At(1))
	assert.False(t, f.At(2).HasValue())
}

func TestStruct(t *testing.T) {
	fields := []datatype.Field{
		{Name: "id", Type: datatype.Int64, Nullable: false},
		{Name: "name", Type: datatype.String, Nullable: true},
	}
	data := StructData(fields, []*arraydata.ArrayData{
		PrimitiveData(datatype.Int64, []int64{1, 2, 3}, nil),
		StringData([]string{"ada", "", "grace"}, []bool{true, false, true}),
	}, []bool{true, true, false})

	s, err := NewStruct(data)
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())
	require.Equal(t, 2, s.NumFields())
	assert.Equal(t, "id", s.FieldName(0))
	assert.False(t, s.IsValid(2))

	names, err := s.FieldByName("name")
	require.NoError(t, err)
	assert.Equal(t, nullable.Of("ada"), names.(*VarBinary[int32]).StringAt(0))
	assert.False(t, names.IsValid(1))

	_, err = s.FieldByName("missing")
	require.Error(t, err)

	t.Run("sliced struct aligns fields", func(t *testing.T) {
		sub, err := NewStruct(data.Slice(1, 2))
		require.NoError(t, err)
		ids, err := sub.Field(0)
		require.NoError(t, err)
		assert.Equal(t, 2, ids.Len())
		assert.Equal(t, nullable.Of(int64(2)), ids.(*Primitive[int64]).At(0))
	})

	t.Run("short field is recoverable", func(t *testing.T) {
		short := arraydata.New(datatype.StructOf(fields...), 3, 0, nil, nil,
			[]*arraydata.ArrayData{
				PrimitiveData(datatype.Int64, []int64{1}, nil),
				StringData([]string{"x", "y", "z"}, nil),
			}, nil)
		_, err := NewStruct(short)
		require.Error(t, err)
	})

	t.Run("rows", func(t *testing.T) {
		row := s.At(0)
		require.True(t, row.HasValue())
		assert.Equal(t, 0, row.Get().Index())
		assert.True(t, row.Get().IsValid())
		ids, err := row.Get().Field(0)
		require.NoError(t, err)
		assert.Equal(t, nullable.Of(int64(1)), ids.(*Primitive[int64]).At(row.Get().Index()))

		assert.False(t, s.At(2).HasValue())
	})
}

func TestRanges(t *testing.T) {
	t.Run("varbinary", func(t *testing.T) {
		data := StringData([]string{"a", "bb", "ccc"}, []bool{true, false, true})
		v, err := NewVarBinary[int32](data)
		require.NoError(t, err)

		var order []int
		for i, e := range v.Backward() {
			order = append(order, i)
			assert.Equal(t, i != 1, e.HasValue())
		}
		assert.Equal(t, []int{2, 1, 0}, order)

		var sizes []int
		for raw := range v.Values() {
			sizes = append(sizes, len(raw))
		}
		assert.Equal(t, []int{1, 2, 3}, sizes)

		var valid []bool
		for ok := range Validity(v) {
			valid = append(valid, ok)
		}
		assert.Equal(t, []bool{true, false, true}, valid)
	})

	t.Run("bool", func(t *testing.T) {
		b := NewBool(BoolData([]bool{true, false, true}, nil))
		var raw []bool
		for v := range b.Values() {
			raw = append(raw, v)
		}
		assert.Equal(t, []bool{true, false, true}, raw)
	})

	t.Run("list backward", func(t *testing.T) {
		elem := PrimitiveData(datatype.Int64, []int64{1, 2, 3, 4}, nil)
		l, err := NewList[int32](ListData(elem, []int{2, 2}, nil))
		require.NoError(t, err)

		var first []int
		for i := range l.Backward() {
			first = append(first, i)
		}
		assert.Equal(t, []int{1, 0}, first)
	})

	t.Run("null layout", func(t *testing.T) {
		n := NewNull(NullData(3))
		count := 0
		for _, v := range n.All() {
			assert.False(t, v.HasValue())
			count++
		}
		assert.Equal(t, 3, count)
	})
}
