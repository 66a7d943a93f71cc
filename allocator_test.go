package orddict

import "testing"

// TestCountingAllocatorRoundTrip corresponds to spec property 9: once every
// key inserted through a BTrie is removed again, a CountingAllocator's
// Used() must return to 0, mirroring the original's used_memory/peak_memory
// round trip.
func TestCountingAllocatorRoundTrip(t *testing.T) {
	alloc := &CountingAllocator{}
	m := NewBTrie[uint32, int](WithAllocator(alloc), WithMaxBucketSize(16))

	const n = 1000
	base := uint32(0xABCD0000)
	for i := 0; i < n; i++ {
		m.Insert(base+uint32(i), i)
	}
	if alloc.Used() == 0 {
		t.Fatalf("Used() = 0 after inserting %d keys, want > 0", n)
	}
	if alloc.Peak() < alloc.Used() {
		t.Fatalf("Peak() = %d, want >= Used() = %d", alloc.Peak(), alloc.Used())
	}

	for i := 0; i < n; i++ {
		m.Remove(base + uint32(i))
	}
	if got := alloc.Used(); got != 0 {
		t.Fatalf("Used() = %d after removing every key, want 0", got)
	}
	if alloc.Peak() == 0 {
		t.Fatalf("Peak() = 0, want the high-water mark reached while keys were present")
	}
}
