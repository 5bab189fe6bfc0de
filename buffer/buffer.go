// Package buffer implements the contiguous byte regions backing column data.
//
// A Buffer either owns its bytes (allocated here, resizable, deep-copied on
// Clone) or borrows them from a foreign producer (an imported C ABI
// structure, a memory-mapped file) together with a deleter that is invoked
// exactly once on Release. Typed views reinterpret the byte region as a
// slice of a fixed-width element type without copying.
package buffer

import (
	"unsafe"

	"github.com/hupe1980/colgo/contracts"
	"github.com/hupe1980/colgo/internal/mmap"
)

// Buffer is a contiguous byte region, owned or borrowed.
type Buffer struct {
	data  []byte
	owned bool
	free  func() // deleter for borrowed memory, nil once spent
}

// Allocate returns an owned, zeroed buffer of n bytes.
func Allocate(n int) *Buffer {
	contracts.Assertf(n >= 0, "n >= 0", "negative buffer size %d", n)
	return &Buffer{data: make([]byte, n), owned: true}
}

// FromBytes wraps b as an owned buffer. The buffer takes ownership of b;
// the caller must not retain or mutate it.
func FromBytes(b []byte) *Buffer {
	return &Buffer{data: b, owned: true}
}

// FromForeign wraps foreign memory zero-copy. free, if non-nil, is invoked
// exactly once when the buffer is released. The resulting buffer does not
// own the memory and must not be resized.
func FromForeign(data []byte, free func()) *Buffer {
	return &Buffer{data: data, free: free}
}

// FromMmap wraps the bytes of a memory-mapped file as a borrowed buffer
// whose deleter unmaps the file.
func FromMmap(m *mmap.Mapping) *Buffer {
	return FromForeign(m.Bytes(), func() { _ = m.Close() })
}

// Len returns the size of the buffer in bytes.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}

// Bytes returns the underlying byte region.
func (b *Buffer) Bytes() []byte {
	if b == nil {
		return nil
	}
	return b.data
}

// Owned reports whether the buffer owns its memory.
func (b *Buffer) Owned() bool {
	return b != nil && b.owned
}

// Resize grows or shrinks an owning buffer to n bytes, preserving the
// common prefix. Resizing a borrowed buffer is a contract violation.
func (b *Buffer) Resize(n int) {
	contracts.Assertf(b.owned, "buffer owns its memory", "resize of a borrowed buffer")
	contracts.Assertf(n >= 0, "n >= 0", "negative buffer size %d", n)
	if n == len(b.data) {
		return
	}
	if n <= cap(b.data) {
		if n > len(b.data) {
			// Reused capacity may hold stale bytes.
			tail := b.data[len(b.data):n]
			for i := range tail {
				tail[i] = 0
			}
		}
		b.data = b.data[:n]
		return
	}
	grown := make([]byte, n)
	copy(grown, b.data)
	b.data = grown
}

// Clone returns an owned deep copy of the buffer contents.
func (b *Buffer) Clone() *Buffer {
	if b == nil {
		return nil
	}
	dup := make([]byte, len(b.data))
	copy(dup, b.data)
	return &Buffer{data: dup, owned: true}
}

// Release invokes the deleter of a borrowed buffer. It is idempotent at
// this level; exactly-once semantics across the ABI boundary are enforced
// by the cdata release protocol.
func (b *Buffer) Release() {
	if b == nil || b.free == nil {
		return
	}
	free := b.free
	b.free = nil
	b.data = nil
	free()
}

// View reinterprets the buffer as a slice of T. The element count is
// Len() / sizeof(T); trailing bytes that do not fill an element are not
// visible through the view. The view aliases the buffer memory.
func View[T any](b *Buffer) []T {
	if b == nil || len(b.data) == 0 {
		return nil
	}
	var zero T
	size := int(unsafe.Sizeof(zero))
	n := len(b.data) / size
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&b.data[0])), n)
}

// FromSlice copies vals into a new owned buffer.
func FromSlice[T any](vals []T) *Buffer {
	var zero T
	size := int(unsafe.Sizeof(zero))
	b := Allocate(len(vals) * size)
	copy(View[T](b), vals)
	return b
}
