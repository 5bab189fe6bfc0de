package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/colgo/contracts"
)

func TestBuffer(t *testing.T) {
	t.Run("Allocate", func(t *testing.T) {
		b := Allocate(16)
		assert.Equal(t, 16, b.Len())
		assert.True(t, b.Owned())
		for _, v := range b.Bytes() {
			assert.Zero(t, v)
		}
	})

	t.Run("FromBytes", func(t *testing.T) {
		b := FromBytes([]byte{1, 2, 3})
		assert.Equal(t, 3, b.Len())
		assert.True(t, b.Owned())
	})

	t.Run("Resize grows and preserves prefix", func(t *testing.T) {
		b := FromBytes([]byte{1, 2, 3})
		b.Resize(5)
		require.Equal(t, 5, b.Len())
		assert.Equal(t, []byte{1, 2, 3, 0, 0}, b.Bytes())
	})

	t.Run("Resize shrinks", func(t *testing.T) {
		b := FromBytes([]byte{1, 2, 3, 4})
		b.Resize(2)
		assert.Equal(t, []byte{1, 2}, b.Bytes())
	})

	t.Run("Resize borrowed is a contract violation", func(t *testing.T) {
		b := FromForeign([]byte{1, 2, 3}, nil)
		v := contracts.Recover(func() { b.Resize(10) })
		require.NotNil(t, v)
	})

	t.Run("Clone is deep", func(t *testing.T) {
		b := FromBytes([]byte{1, 2, 3})
		c := b.Clone()
		c.Bytes()[0] = 9
		assert.Equal(t, byte(1), b.Bytes()[0])
		assert.True(t, c.Owned())
	})

	t.Run("Clone of borrowed is owned", func(t *testing.T) {
		b := FromForeign([]byte{7, 8}, nil)
		c := b.Clone()
		assert.True(t, c.Owned())
		assert.Equal(t, []byte{7, 8}, c.Bytes())
	})

	t.Run("Release invokes deleter once", func(t *testing.T) {
		calls := 0
		b := FromForeign([]byte{1}, func() { calls++ })
		b.Release()
		b.Release()
		assert.Equal(t, 1, calls)
		assert.Zero(t, b.Len())
	})
}

func TestView(t *testing.T) {
	t.Run("int32 view", func(t *testing.T) {
		b := FromSlice([]int32{10, 20, 30})
		require.Equal(t, 12, b.Len())
		assert.Equal(t, []int32{10, 20, 30}, View[int32](b))
	})

	t.Run("view aliases buffer memory", func(t *testing.T) {
		b := FromSlice([]int64{1, 2})
		View[int64](b)[1] = 42
		assert.Equal(t, int64(42), View[int64](b)[1])
	})

	t.Run("trailing bytes hidden", func(t *testing.T) {
		b := FromBytes([]byte{1, 2, 3, 4, 5})
		assert.Len(t, View[int32](b), 1)
	})

	t.Run("empty buffer", func(t *testing.T) {
		assert.Nil(t, View[int32](Allocate(0)))
	})
}

func TestOffsetsFromSizes(t *testing.T) {
	t.Run("int32", func(t *testing.T) {
		assert.Equal(t, []int32{0, 3, 6, 9}, OffsetsFromSizes[int32]([]int{3, 3, 3}))
	})

	t.Run("int64", func(t *testing.T) {
		assert.Equal(t, []int64{0, 1, 3, 6}, OffsetsFromSizes[int64]([]int{1, 2, 3}))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, []int32{0}, OffsetsFromSizes[int32](nil))
	})

	t.Run("buffer form", func(t *testing.T) {
		b := OffsetBufferFromSizes[int32]([]int{4, 0, 2})
		assert.Equal(t, []int32{0, 4, 4, 6}, View[int32](b))
	})
}
