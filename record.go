package colgo

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/colgo/arraydata"
	"github.com/hupe1980/colgo/cdata"
	"github.com/hupe1980/colgo/datatype"
)

// RecordBatch is an ordered set of equal-length named columns.
type RecordBatch struct {
	columns []*Array
	length  int
	logger  *Logger

	// root holds the release obligation of an imported batch.
	root *Array
}

// Release forwards the release obligation of an imported batch, exactly
// once. Batches built from native columns ignore it.
func (r *RecordBatch) Release() {
	if r.root != nil {
		r.root.Release()
	}
}

// NewRecordBatch assembles columns into a batch. Every column must carry
// the same logical length.
func NewRecordBatch(columns []*Array, optFns ...Option) (*RecordBatch, error) {
	opts := applyOptions(optFns)

	if len(columns) == 0 {
		return nil, ErrEmptyBatch
	}
	length := columns[0].Len()
	for _, c := range columns[1:] {
		if c.Len() != length {
			return nil, &ErrLengthMismatch{Column: c.Name(), Expected: length, Actual: c.Len()}
		}
	}
	return &RecordBatch{columns: columns, length: length, logger: opts.logger}, nil
}

// NumColumns returns the column count.
func (r *RecordBatch) NumColumns() int { return len(r.columns) }

// NumRows returns the row count.
func (r *RecordBatch) NumRows() int { return r.length }

// Column returns column i.
func (r *RecordBatch) Column(i int) *Array { return r.columns[i] }

// ColumnByName returns the first column with the given name.
func (r *RecordBatch) ColumnByName(name string) (*Array, error) {
	for _, c := range r.columns {
		if c.Name() == name {
			return c, nil
		}
	}
	return nil, ErrNoSuchColumn
}

// Schema returns the per-column field descriptions.
func (r *RecordBatch) Schema() []datatype.Field {
	fields := make([]datatype.Field, len(r.columns))
	for i, c := range r.columns {
		fields[i] = c.Field()
	}
	return fields
}

// Slice returns a batch over a sub-range of rows, sharing column state.
func (r *RecordBatch) Slice(offset, length int) (*RecordBatch, error) {
	columns := make([]*Array, len(r.columns))
	for i, c := range r.columns {
		sub, err := c.Slice(offset, length)
		if err != nil {
			return nil, err
		}
		columns[i] = sub
	}
	return &RecordBatch{columns: columns, length: length, logger: r.logger}, nil
}

// Validate checks the structural invariants of every column, in parallel.
// The first defect found wins; ctx cancels outstanding columns.
func (r *RecordBatch) Validate(ctx context.Context) error {
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, c := range r.columns {
		g.Go(func() error {
			return c.Data().Validate()
		})
	}
	err := g.Wait()
	r.logger.LogValidation(ctx, len(r.columns), err)
	return err
}

// ToStruct renders the batch as a single struct column, one field per
// column. Column state is shared, not copied.
func (r *RecordBatch) ToStruct(optFns ...Option) (*Array, error) {
	fields := r.Schema()
	children := make([]*arraydata.ArrayData, len(r.columns))
	for i, c := range r.columns {
		children[i] = c.Data()
	}
	data := arraydata.New(datatype.StructOf(fields...), r.length, 0, nil, nil, children, nil)
	return NewArray(datatype.Field{Type: data.Type(), Nullable: false}, data, optFns...)
}

// Export renders the batch as a struct-typed pair of interchange records,
// the conventional shape for whole-batch interchange.
func (r *RecordBatch) Export(ctx context.Context) (*cdata.Schema, *cdata.Array, error) {
	s, err := r.ToStruct()
	if err != nil {
		return nil, nil, err
	}
	schema, arr := s.Export(ctx)
	return schema, arr, nil
}

// ImportRecordBatch wraps a struct-typed pair of interchange records as a
// batch, one column per struct field, zero-copy.
func ImportRecordBatch(ctx context.Context, s *cdata.Schema, arr *cdata.Array, optFns ...Option) (*RecordBatch, error) {
	a, err := Import(ctx, s, arr, optFns...)
	if err != nil {
		return nil, err
	}
	st, ok := a.Type().(*datatype.Struct)
	if !ok {
		return nil, &ErrTypeMismatch{Expected: datatype.StructOf(), Actual: a.Type()}
	}
	columns := make([]*Array, len(st.Fields))
	for i, f := range st.Fields {
		col, err := NewArray(f, a.Data().Child(i), optFns...)
		if err != nil {
			return nil, err
		}
		columns[i] = col
	}
	batch, err := NewRecordBatch(columns, optFns...)
	if err != nil {
		return nil, err
	}
	batch.root = a
	return batch, nil
}
