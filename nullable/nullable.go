// Package nullable pairs a value with a validity flag.
//
// Reading the payload of an invalid value is a programming error and fails
// fast; there is no silent zero value.
package nullable

import "github.com/hupe1980/colgo/contracts"

// Value holds a payload of type T or marks its absence.
type Value[T any] struct {
	value T
	valid bool
}

// Of returns a valid value.
func Of[T any](v T) Value[T] {
	return Value[T]{value: v, valid: true}
}

// Null returns an invalid value.
func Null[T any]() Value[T] {
	return Value[T]{}
}

// HasValue reports whether the value is present.
func (v Value[T]) HasValue() bool {
	return v.valid
}

// Get returns the payload. Calling Get on an invalid value is a contract
// violation.
func (v Value[T]) Get() T {
	contracts.Assert(v.valid, "value is present")
	return v.value
}

// GetOr returns the payload, or def when the value is absent.
func (v Value[T]) GetOr(def T) T {
	if !v.valid {
		return def
	}
	return v.value
}

// Raw returns the payload regardless of validity. The payload of an
// invalid value is unspecified; callers must check HasValue themselves.
// It exists for the layouts' raw values() ranges.
func (v Value[T]) Raw() T {
	return v.value
}

// Equal reports whether two values are equal: both invalid, or both valid
// with equal payloads. An invalid value never equals a valid one.
func Equal[T comparable](a, b Value[T]) bool {
	if a.valid != b.valid {
		return false
	}
	if !a.valid {
		return true
	}
	return a.value == b.value
}

// EqualFunc is Equal for payload types without built-in comparison.
func EqualFunc[T any](a, b Value[T], eq func(T, T) bool) bool {
	if a.valid != b.valid {
		return false
	}
	if !a.valid {
		return true
	}
	return eq(a.value, b.value)
}
