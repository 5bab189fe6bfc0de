package colgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/colgo/datatype"
)

var (
	// ErrEmptyBatch is returned when a record batch is built without columns.
	ErrEmptyBatch = errors.New("record batch requires at least one column")
	// ErrNoSuchColumn is returned when a batch lookup names an unknown column.
	ErrNoSuchColumn = errors.New("no such column")
)

// ErrLengthMismatch indicates batch columns of unequal length.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrLengthMismatch struct {
	Column   string
	Expected int
	Actual   int
	cause    error
}

func (e *ErrLengthMismatch) Error() string {
	return fmt.Sprintf("column %q length mismatch: expected %d, got %d", e.Column, e.Expected, e.Actual)
}

func (e *ErrLengthMismatch) Unwrap() error { return e.cause }

// ErrTypeMismatch indicates a value handed to a typed accessor or builder
// whose logical type does not match the column.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrTypeMismatch struct {
	Expected datatype.DataType
	Actual   datatype.DataType
	cause    error
}

func (e *ErrTypeMismatch) Error() string {
	return fmt.Sprintf("type mismatch: expected %s, got %s", e.Expected.Name(), e.Actual.Name())
}

func (e *ErrTypeMismatch) Unwrap() error { return e.cause }
