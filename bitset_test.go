package orddict

import "testing"

func TestBitsetSetGetClear(t *testing.T) {
	b := newBitset(256)
	for i := 0; i < 256; i++ {
		if b.get(i) {
			t.Fatalf("bit %d set before any set() call", i)
		}
	}
	b.set(0)
	b.set(63)
	b.set(64)
	b.set(255)
	for _, i := range []int{0, 63, 64, 255} {
		if !b.get(i) {
			t.Fatalf("bit %d not set after set()", i)
		}
	}
	if b.get(1) || b.get(65) || b.get(254) {
		t.Fatalf("unrelated bits unexpectedly set")
	}
	b.clear(63)
	if b.get(63) {
		t.Fatalf("bit 63 still set after clear()")
	}
}

func TestBitsetTotalBitCount(t *testing.T) {
	b := newBitset(128)
	if b.totalBitCount() != 0 {
		t.Fatalf("fresh bitset has nonzero count")
	}
	for i := 0; i < 100; i += 3 {
		b.set(i)
	}
	expected := 0
	for i := 0; i < 100; i += 3 {
		expected++
	}
	if got := b.totalBitCount(); got != expected {
		t.Fatalf("totalBitCount() = %d, want %d", got, expected)
	}
}

func TestBitsetSmallWidth(t *testing.T) {
	b := newBitset(16)
	b.set(15)
	if !b.get(15) {
		t.Fatalf("bit 15 not set")
	}
	if b.totalBitCount() != 1 {
		t.Fatalf("totalBitCount() = %d, want 1", b.totalBitCount())
	}
}
