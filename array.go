// Package colgo is an in-memory columnar array library speaking the Arrow
// C data interface.
//
// Columns are immutable once built: a validity bitmap plus type-dependent
// buffers and children, wrapped in typed read views. Export renders a
// column as the two interchange records of the C data interface; Import
// wraps foreign records zero-copy and forwards their release obligation
// exactly once.
package colgo

import (
	"context"

	"github.com/hupe1980/colgo/arraydata"
	"github.com/hupe1980/colgo/cdata"
	"github.com/hupe1980/colgo/datatype"
	"github.com/hupe1980/colgo/layout"
)

// Array is a type-erased handle on one column: the column record plus its
// dispatched layout view.
type Array struct {
	field  datatype.Field
	data   *arraydata.ArrayData
	layout layout.Layout
	logger *Logger
}

// NewArray wraps a column record. The layout view is dispatched from the
// record's logical type; types without a view implementation are rejected.
func NewArray(field datatype.Field, data *arraydata.ArrayData, optFns ...Option) (*Array, error) {
	opts := applyOptions(optFns)

	if opts.validate {
		if err := data.Validate(); err != nil {
			return nil, err
		}
	}
	l, err := layout.Dispatch(data)
	if err != nil {
		return nil, err
	}
	return &Array{field: field, data: data, layout: l, logger: opts.logger}, nil
}

// Field returns the column's field description.
func (a *Array) Field() datatype.Field { return a.field }

// Type returns the logical type.
func (a *Array) Type() datatype.DataType { return a.field.Type }

// Name returns the column name.
func (a *Array) Name() string { return a.field.Name }

// Data returns the underlying column record.
func (a *Array) Data() *arraydata.ArrayData { return a.data }

// Layout returns the typed view. Callers type-assert to the concrete
// layout to reach typed accessors.
func (a *Array) Layout() layout.Layout { return a.layout }

// Len returns the logical element count.
func (a *Array) Len() int { return a.data.Len() }

// IsValid reports the validity of element i.
func (a *Array) IsValid(i int) bool { return a.layout.IsValid(i) }

// IsNull reports whether element i is null.
func (a *Array) IsNull(i int) bool { return !a.layout.IsValid(i) }

// NullCount returns the number of nulls in the logical range.
func (a *Array) NullCount() int { return a.layout.NullCount() }

// Slice returns a view of length elements starting at offset, sharing
// physical state with a.
func (a *Array) Slice(offset, length int) (*Array, error) {
	return NewArray(a.field, a.data.Slice(offset, length), WithLogger(a.logger))
}

// Clone returns an independent deep copy.
func (a *Array) Clone() (*Array, error) {
	return NewArray(a.field, a.data.Clone(), WithLogger(a.logger))
}

// Release forwards the foreign release obligation of an imported column,
// exactly once. Columns built from native data ignore it.
func (a *Array) Release() { a.data.Release() }

// Export renders the column as the two interchange records. The caller
// owns both and must release them (or hand them to a consumer that will).
func (a *Array) Export(ctx context.Context) (*cdata.Schema, *cdata.Array) {
	s := cdata.ExportSchema(a.field)
	arr := cdata.ExportArray(a.data)
	a.logger.LogExport(ctx, a.field.Type.Format(), a.data.Len())
	return s, arr
}

// Import wraps a pair of interchange records as an Array, zero-copy. The
// returned column carries the data record's release obligation; the schema
// record stays with the caller.
func Import(ctx context.Context, s *cdata.Schema, arr *cdata.Array, optFns ...Option) (*Array, error) {
	opts := applyOptions(optFns)

	field, err := cdata.ImportSchema(s)
	if err != nil {
		opts.logger.LogImport(ctx, s.Format, 0, err)
		return nil, err
	}
	data, err := cdata.ImportArray(arr, field.Type)
	if err != nil {
		opts.logger.LogImport(ctx, field.Type.Format(), 0, err)
		return nil, err
	}
	a, err := NewArray(field, data, optFns...)
	opts.logger.LogImport(ctx, field.Type.Format(), data.Len(), err)
	return a, err
}
