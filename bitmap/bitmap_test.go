package bitmap

import (
	"testing"

	"github.com/hupe1980/colgo/buffer"
	"github.com/hupe1980/colgo/contracts"
)

func TestNewAllValid(t *testing.T) {
	b := NewAllValid(100)

	if b.Len() != 100 {
		t.Errorf("expected len 100, got %d", b.Len())
	}
	if b.NullCount() != 0 {
		t.Errorf("expected null count 0, got %d", b.NullCount())
	}
	for i := 0; i < 100; i++ {
		if !b.Get(i) {
			t.Fatalf("expected bit %d to be valid", i)
		}
	}
}

func TestFromBools(t *testing.T) {
	b := FromBools([]bool{true, false, true, true, false})

	if b.Len() != 5 {
		t.Errorf("expected len 5, got %d", b.Len())
	}
	if b.NullCount() != 2 {
		t.Errorf("expected null count 2, got %d", b.NullCount())
	}
	if b.Get(0) != true || b.Get(1) != false || b.Get(4) != false {
		t.Errorf("bit pattern does not match input")
	}
}

func TestSetMaintainsNullCount(t *testing.T) {
	b := FromBools([]bool{true, true, true})

	b.Set(1, false)
	if b.NullCount() != 1 {
		t.Errorf("expected null count 1 after clearing a bit, got %d", b.NullCount())
	}

	b.Set(1, false) // no change
	if b.NullCount() != 1 {
		t.Errorf("expected null count unchanged, got %d", b.NullCount())
	}

	b.Set(1, true)
	if b.NullCount() != 0 {
		t.Errorf("expected null count 0 after restoring, got %d", b.NullCount())
	}
}

func TestWrapLazyNullCount(t *testing.T) {
	// 0b00000101 = bits 0 and 2 set out of 4.
	buf := buffer.FromBytes([]byte{0x05})
	b := Wrap(buf, 4, -1)

	if _, known := b.KnownNullCount(); known {
		t.Error("expected unknown count before first query")
	}
	if got := b.NullCount(); got != 2 {
		t.Errorf("expected lazy null count 2, got %d", got)
	}
	// Cached now; mutate through Set and confirm incremental maintenance.
	b.Set(1, true)
	if got := b.NullCount(); got != 1 {
		t.Errorf("expected null count 1 after set, got %d", got)
	}
	if got, known := b.KnownNullCount(); !known || got != 1 {
		t.Errorf("expected cached count 1, got %d (known %v)", got, known)
	}
}

func TestWrapKnownNullCount(t *testing.T) {
	buf := buffer.FromBytes([]byte{0x0F})
	b := Wrap(buf, 4, 0)
	if b.NullCount() != 0 {
		t.Errorf("expected null count 0, got %d", b.NullCount())
	}
}

func TestCountWindows(t *testing.T) {
	valid := make([]bool, 40)
	for i := range valid {
		valid[i] = i%3 != 0
	}
	b := FromBools(valid)

	for offset := 0; offset < 20; offset++ {
		for length := 0; length <= 20; length++ {
			want := 0
			for i := offset; i < offset+length; i++ {
				if valid[i] {
					want++
				}
			}
			if got := b.CountValid(offset, length); got != want {
				t.Fatalf("CountValid(%d, %d) = %d, want %d", offset, length, got, want)
			}
			if got := b.CountNull(offset, length); got != length-want {
				t.Fatalf("CountNull(%d, %d) = %d, want %d", offset, length, got, length-want)
			}
		}
	}
}

func TestNilBitmap(t *testing.T) {
	var b *Bitmap

	if b.Len() != 0 {
		t.Errorf("expected nil bitmap len 0")
	}
	if !b.Get(3) {
		t.Errorf("expected nil bitmap to report valid")
	}
	if b.NullCount() != 0 {
		t.Errorf("expected nil bitmap null count 0")
	}
	if b.CountValid(0, 7) != 7 {
		t.Errorf("expected nil bitmap window fully valid")
	}
	if b.Clone() != nil {
		t.Errorf("expected nil clone")
	}
}

func TestCloneIsDeep(t *testing.T) {
	b := FromBools([]bool{true, false, true})
	c := b.Clone()
	c.Set(0, false)

	if !b.Get(0) {
		t.Errorf("mutating clone leaked into original")
	}
	if c.NullCount() != 2 || b.NullCount() != 1 {
		t.Errorf("unexpected null counts: clone %d, original %d", c.NullCount(), b.NullCount())
	}
}

func TestGetOutOfRange(t *testing.T) {
	b := NewAllValid(8)
	if v := contracts.Recover(func() { b.Get(8) }); v == nil {
		t.Fatal("expected out-of-range violation")
	}
	if v := contracts.Recover(func() { b.Set(-1, true) }); v == nil {
		t.Fatal("expected negative-index violation")
	}
}
