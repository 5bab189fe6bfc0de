package buffer

// Offset constrains the element offset types used by variable-size and
// list layouts: 32-bit for the regular variants, 64-bit for the "large"
// variants.
type Offset interface {
	~int32 | ~int64
}

// OffsetsFromSizes builds an offsets sequence from per-element sizes by a
// running sum starting at 0. The result has one more entry than sizes, so
// element i spans [offsets[i], offsets[i+1]).
func OffsetsFromSizes[O Offset](sizes []int) []O {
	offsets := make([]O, len(sizes)+1)
	var acc O
	for i, n := range sizes {
		acc += O(n)
		offsets[i+1] = acc
	}
	return offsets
}

// OffsetBufferFromSizes builds an owned buffer holding the running-sum
// offsets for the given per-element sizes.
func OffsetBufferFromSizes[O Offset](sizes []int) *Buffer {
	return FromSlice(OffsetsFromSizes[O](sizes))
}
