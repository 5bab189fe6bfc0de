package layout

import (
	"iter"

	"github.com/hupe1980/colgo/nullable"
)

// forward yields (i, at(i)) for every logical element, front to back.
func forward[T any](n int, at func(int) nullable.Value[T]) iter.Seq2[int, nullable.Value[T]] {
	return func(yield func(int, nullable.Value[T]) bool) {
		for i := range n {
			if !yield(i, at(i)) {
				return
			}
		}
	}
}

// backward yields (i, at(i)) for every logical element, back to front.
func backward[T any](n int, at func(int) nullable.Value[T]) iter.Seq2[int, nullable.Value[T]] {
	return func(yield func(int, nullable.Value[T]) bool) {
		for i := n - 1; i >= 0; i-- {
			if !yield(i, at(i)) {
				return
			}
		}
	}
}

// rawValues yields the raw storage of every element, nulls included.
func rawValues[T any](n int, value func(int) T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := range n {
			if !yield(value(i)) {
				return
			}
		}
	}
}

// Validity iterates the validity flag of every element of l.
func Validity(l Layout) iter.Seq[bool] {
	return func(yield func(bool) bool) {
		for i := range l.Len() {
			if !yield(l.IsValid(i)) {
				return
			}
		}
	}
}
