package colgo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/colgo/cdata"
	"github.com/hupe1980/colgo/layout"
	"github.com/hupe1980/colgo/nullable"
)

func testBatch(t *testing.T) *RecordBatch {
	t.Helper()
	ids, err := FromSlice([]int64{1, 2, 3}, nil)
	require.NoError(t, err)
	names, err := FromStrings([]string{"ada", "", "grace"}, []bool{true, false, true})
	require.NoError(t, err)

	batch, err := NewRecordBatch([]*Array{ids.WithName("id"), names.WithName("name")})
	require.NoError(t, err)
	return batch
}

func TestRecordBatch(t *testing.T) {
	batch := testBatch(t)

	require.Equal(t, 2, batch.NumColumns())
	require.Equal(t, 3, batch.NumRows())

	names, err := batch.ColumnByName("name")
	require.NoError(t, err)
	assert.False(t, names.IsValid(1))

	_, err = batch.ColumnByName("missing")
	require.ErrorIs(t, err, ErrNoSuchColumn)

	t.Run("empty", func(t *testing.T) {
		_, err := NewRecordBatch(nil)
		require.ErrorIs(t, err, ErrEmptyBatch)
	})

	t.Run("length mismatch", func(t *testing.T) {
		short, err := FromSlice([]int32{1}, nil)
		require.NoError(t, err)
		_, err = NewRecordBatch([]*Array{batch.Column(0), short.WithName("x")})
		var lerr *ErrLengthMismatch
		require.ErrorAs(t, err, &lerr)
		assert.Equal(t, "x", lerr.Column)
	})
}

func TestRecordBatchValidate(t *testing.T) {
	batch := testBatch(t)
	require.NoError(t, batch.Validate(context.Background()))
}

func TestRecordBatchSlice(t *testing.T) {
	batch := testBatch(t)
	sub, err := batch.Slice(1, 2)
	require.NoError(t, err)
	require.Equal(t, 2, sub.NumRows())
	ids := sub.Column(0).Layout().(*layout.Primitive[int64])
	assert.Equal(t, nullable.Of(int64(2)), ids.At(0))
}

func TestRecordBatchToStruct(t *testing.T) {
	batch := testBatch(t)
	s, err := batch.ToStruct()
	require.NoError(t, err)

	st := s.Layout().(*layout.StructLayout)
	require.Equal(t, 2, st.NumFields())
	assert.Equal(t, "id", st.FieldName(0))
	names, err := st.FieldByName("name")
	require.NoError(t, err)
	assert.Equal(t, nullable.Of("grace"), names.(*layout.VarBinary[int32]).StringAt(2))
}

func TestRecordBatchExportImport(t *testing.T) {
	ctx := context.Background()
	batch := testBatch(t)

	schema, arr, err := batch.Export(ctx)
	require.NoError(t, err)
	defer cdata.ReleaseSchema(schema)

	got, err := ImportRecordBatch(ctx, schema, arr, WithValidation())
	require.NoError(t, err)
	defer got.Release()

	require.Equal(t, 2, got.NumColumns())
	require.Equal(t, 3, got.NumRows())
	names, err := got.ColumnByName("name")
	require.NoError(t, err)
	assert.False(t, names.IsValid(1))
	assert.Equal(t, nullable.Of("ada"),
		names.Layout().(*layout.VarBinary[int32]).StringAt(0))
}
