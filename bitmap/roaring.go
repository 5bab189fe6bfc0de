package bitmap

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/colgo/buffer"
	"github.com/hupe1980/colgo/contracts"
)

// FromRoaring builds a packed validity bitmap of n bits from a roaring set
// of valid positions. Producers that track presence sparsely (for example
// as a set of non-null row ids) can hand that set over directly.
func FromRoaring(valid *roaring.Bitmap, n int) *Bitmap {
	buf := buffer.Allocate((n + 7) / 8)
	data := buf.Bytes()
	count := 0
	it := valid.Iterator()
	for it.HasNext() {
		i := int(it.Next())
		contracts.Assertf(i < n, "position < n", "valid position %d outside bitmap of %d bits", i, n)
		data[i/8] |= 1 << (i % 8)
		count++
	}
	return &Bitmap{buf: buf, bits: n, nullCount: n - count, countKnown: true}
}

// ToRoaring exports the positions of the set bits as a roaring bitmap.
func (b *Bitmap) ToRoaring() *roaring.Bitmap {
	rb := roaring.New()
	if b == nil {
		return rb
	}
	data := b.buf.Bytes()
	for i := 0; i < b.bits; i++ {
		if data[i/8]&(1<<(i%8)) != 0 {
			rb.Add(uint32(i))
		}
	}
	return rb
}
