// Package bitmap implements the packed validity bitmap of a column.
//
// One bit per element, LSB-first within each byte: 1 = value present,
// 0 = null. The bitmap spans the unsliced physical range of its column;
// logical views apply their element offset when reading it.
//
// The null count is cached. Bitmaps constructed all-valid never count
// (the cache starts at 0); bitmaps wrapped around imported memory carry an
// unknown count that is computed on first query and cached from then on.
// Set maintains a known cache in O(1).
package bitmap

import (
	"math/bits"

	"github.com/hupe1980/colgo/buffer"
	"github.com/hupe1980/colgo/contracts"
)

// Bitmap is a packed validity bit sequence with a cached null count.
//
// A nil *Bitmap is valid and means "no validity buffer": every element is
// treated as present and the null count is 0.
type Bitmap struct {
	buf        *buffer.Buffer
	bits       int
	nullCount  int
	countKnown bool
}

// NewAllValid returns a bitmap of n set bits. No counting happens; the
// null-count cache starts at 0.
func NewAllValid(n int) *Bitmap {
	contracts.Assertf(n >= 0, "n >= 0", "negative bitmap length %d", n)
	buf := buffer.Allocate((n + 7) / 8)
	data := buf.Bytes()
	for i := range data {
		data[i] = 0xFF
	}
	return &Bitmap{buf: buf, bits: n, nullCount: 0, countKnown: true}
}

// FromBools builds a bitmap from an explicit validity sequence, counting
// nulls as it packs.
func FromBools(valid []bool) *Bitmap {
	buf := buffer.Allocate((len(valid) + 7) / 8)
	data := buf.Bytes()
	nulls := 0
	for i, v := range valid {
		if v {
			data[i/8] |= 1 << (i % 8)
		} else {
			nulls++
		}
	}
	return &Bitmap{buf: buf, bits: len(valid), nullCount: nulls, countKnown: true}
}

// Wrap views buf as a bitmap of n bits without copying. The null count is
// unknown until first queried. nullCount >= 0 records an externally
// supplied exact count; pass -1 when unknown.
func Wrap(buf *buffer.Buffer, n int, nullCount int) *Bitmap {
	contracts.Assertf(buf.Len()*8 >= n, "buffer covers n bits",
		"bitmap of %d bits needs %d bytes, buffer has %d", n, (n+7)/8, buf.Len())
	b := &Bitmap{buf: buf, bits: n}
	if nullCount >= 0 {
		b.nullCount = nullCount
		b.countKnown = true
	}
	return b
}

// Len returns the number of bits.
func (b *Bitmap) Len() int {
	if b == nil {
		return 0
	}
	return b.bits
}

// Get returns the validity of bit i.
func (b *Bitmap) Get(i int) bool {
	if b == nil {
		return true
	}
	contracts.CheckBounds(i, b.bits)
	return b.buf.Bytes()[i/8]&(1<<(i%8)) != 0
}

// Set sets the validity of bit i, maintaining the null-count cache in O(1)
// when it is known.
func (b *Bitmap) Set(i int, valid bool) {
	contracts.CheckBounds(i, b.bits)
	data := b.buf.Bytes()
	mask := byte(1 << (i % 8))
	was := data[i/8]&mask != 0
	if was == valid {
		return
	}
	if valid {
		data[i/8] |= mask
		if b.countKnown {
			b.nullCount--
		}
	} else {
		data[i/8] &^= mask
		if b.countKnown {
			b.nullCount++
		}
	}
}

// KnownNullCount reports the cached null count without forcing a scan.
func (b *Bitmap) KnownNullCount() (int, bool) {
	if b == nil {
		return 0, true
	}
	if !b.countKnown {
		return 0, false
	}
	return b.nullCount, true
}

// NullCount returns the number of zero bits, computing and caching it if
// unknown.
func (b *Bitmap) NullCount() int {
	if b == nil {
		return 0
	}
	if !b.countKnown {
		b.nullCount = b.bits - b.countRange(0, b.bits)
		b.countKnown = true
	}
	return b.nullCount
}

// CountValid returns the number of set bits in [offset, offset+length).
func (b *Bitmap) CountValid(offset, length int) int {
	if b == nil {
		return length
	}
	contracts.Assertf(offset >= 0 && offset+length <= b.bits, "window within bitmap",
		"window [%d, %d) outside bitmap of %d bits", offset, offset+length, b.bits)
	return b.countRange(offset, offset+length)
}

// CountNull returns the number of zero bits in [offset, offset+length).
func (b *Bitmap) CountNull(offset, length int) int {
	return length - b.CountValid(offset, length)
}

// Clone returns an owned deep copy. The cache state is carried over.
func (b *Bitmap) Clone() *Bitmap {
	if b == nil {
		return nil
	}
	return &Bitmap{
		buf:        b.buf.Clone(),
		bits:       b.bits,
		nullCount:  b.nullCount,
		countKnown: b.countKnown,
	}
}

// Buffer returns the backing buffer.
func (b *Bitmap) Buffer() *buffer.Buffer {
	if b == nil {
		return nil
	}
	return b.buf
}

func (b *Bitmap) countRange(start, end int) int {
	data := b.buf.Bytes()
	count := 0
	for start < end && start%8 != 0 {
		if data[start/8]&(1<<(start%8)) != 0 {
			count++
		}
		start++
	}
	for start+8 <= end {
		count += bits.OnesCount8(data[start/8])
		start += 8
	}
	for start < end {
		if data[start/8]&(1<<(start%8)) != 0 {
			count++
		}
		start++
	}
	return count
}
