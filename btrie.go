package orddict

import (
	"unsafe"

	set3 "github.com/TomTonic/Set3"
)

// Package-level defaults for BTrie construction, matching the original
// benchmark's tuning.
const (
	defaultMinChildrenBits  = 4
	defaultMaxChildrenBits  = 24
	qtrieMaxChildrenBits    = 20
	defaultExpandThreshold  = 0.75
	defaultContractThresh   = 0.25
	defaultMaxBucketSize    = 128
	defaultBucketInitialCap = 2
)

// BTrie is a level-compressed, path-compressed burst trie over
// fixed-width unsigned integer keys. It stores values in small sorted
// buckets at its leaves, bursting a bucket into a subtrie once it fills,
// and threads every bucket into a single doubly-linked list in key order
// so Locate can find a predecessor without re-descending the trie.
//
// Grounded on the teacher's multi_map.go for exported-type shape and
// original_source/btrie/btrie.h for the algorithm BTrie wires together
// out of trie.go/bucket.go/burst hooks.
type BTrie[K Uint, V any] struct {
	t                *trie[K, V]
	firstBucket      *bucket[K, V]
	maxBucketSize    int
	bucketInitialCap int
	alloc            Allocator
	bucketStructSize uintptr
}

// BTrieOption configures a BTrie at construction time.
type BTrieOption func(*btrieConfig)

type btrieConfig struct {
	minChildrenBits, maxChildrenBits int
	expandThreshold, contractThresh  float64
	bitIdxKind                       bitIndexKind
	maxBucketSize, bucketInitialCap  int
	alloc                            Allocator
}

func defaultBTrieConfig() btrieConfig {
	return btrieConfig{
		minChildrenBits:  defaultMinChildrenBits,
		maxChildrenBits:  defaultMaxChildrenBits,
		expandThreshold:  defaultExpandThreshold,
		contractThresh:   defaultContractThresh,
		bitIdxKind:       BitIndexHeap,
		maxBucketSize:    defaultMaxBucketSize,
		bucketInitialCap: defaultBucketInitialCap,
		alloc:            NoopAllocator{},
	}
}

// WithBitIndexKind selects which BitIndex realisation backs every
// trie node (OR-heap by default). Both are drop-in equivalents; this is
// a performance knob, not a semantic one.
func WithBitIndexKind(kind bitIndexKind) BTrieOption {
	return func(c *btrieConfig) { c.bitIdxKind = kind }
}

// WithMaxBucketSize overrides the bucket capacity that triggers a burst.
func WithMaxBucketSize(n int) BTrieOption {
	return func(c *btrieConfig) { c.maxBucketSize = n }
}

// WithFanOutBits overrides the minimum/maximum trie node fan-out, in
// bits (defaults 4/24).
func WithFanOutBits(minBits, maxBits int) BTrieOption {
	return func(c *btrieConfig) { c.minChildrenBits, c.maxChildrenBits = minBits, maxBits }
}

// WithExpandContractThresholds overrides the expand/contract heuristics
// (defaults 0.75/0.25).
func WithExpandContractThresholds(expand, contract float64) BTrieOption {
	return func(c *btrieConfig) { c.expandThreshold, c.contractThresh = expand, contract }
}

// WithAllocator installs an Allocator that observes every bucket
// allocation/free the BTrie makes. The default is NoopAllocator.
func WithAllocator(a Allocator) BTrieOption {
	return func(c *btrieConfig) { c.alloc = a }
}

// NewBTrie constructs an empty BTrie with the original benchmark's
// default tuning (min_children_bits=4, max_children_bits=24).
func NewBTrie[K Uint, V any](opts ...BTrieOption) *BTrie[K, V] {
	cfg := defaultBTrieConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxBucketSize < 2 {
		panic("orddict: max bucket size must be at least 2")
	}
	var zeroBucket bucket[K, V]
	return &BTrie[K, V]{
		t:                newTrie[K, V](cfg.minChildrenBits, cfg.maxChildrenBits, cfg.expandThreshold, cfg.contractThresh, cfg.bitIdxKind),
		maxBucketSize:    cfg.maxBucketSize,
		bucketInitialCap: cfg.bucketInitialCap,
		alloc:            cfg.alloc,
		bucketStructSize: unsafe.Sizeof(zeroBucket),
	}
}

// NewBTrieQ constructs a BTrie tuned like the original's QTrie variant
// (max_children_bits=20 instead of 24), otherwise identical.
func NewBTrieQ[K Uint, V any](opts ...BTrieOption) *BTrie[K, V] {
	opts = append([]BTrieOption{func(c *btrieConfig) { c.maxChildrenBits = qtrieMaxChildrenBits }}, opts...)
	return NewBTrie[K, V](opts...)
}

// alwaysMatch is the BTrie's match tester. The trie only needs to land on
// the right leaf slot (the one whose path-compression prefix covers key);
// a leaf's bucket can hold many distinct keys sharing that prefix, and
// bucket.insert/search/remove are what actually disambiguate them, so the
// trie itself never rejects a leaf on key inequality.
//
// Grounded on original_source/btrie/btrie.h's MatchTester::operator(),
// which unconditionally returns true for the same reason.
func alwaysMatch[K Uint](leafKey, key K) bool { return true }

// hooksFor builds the createLeaf/updateLeaf/connectLeaf/removePred
// closures for one Insert or Remove call. value is only meaningful (and
// only read) for Insert. predBucket is the bucket holding the
// predecessor of the key about to be inserted, computed against the
// trie's state before this call begins — createLeaf is invoked at most
// once per call (a brand-new key is placed exactly once, however the
// descent resolves), so it is always safe to splice the new bucket next
// to this precomputed neighbour rather than re-searching a trie that by
// then already contains the new leaf.
func (m *BTrie[K, V]) hooksFor(value V, predBucket *bucket[K, V]) trieHooks[K, V] {
	return trieHooks[K, V]{
		createLeaf: func(parent *trieNode[K, V], idx int, key K) {
			b := newBucketWith[K, V](key, value, m.bucketInitialCap, m.maxBucketSize)
			m.alloc.Alloc(m.bucketStructSize)
			parent.addLeaf(&leaf[K, V]{key: key, bucket: b}, idx)
			m.linkNewBucket(b, predBucket)
		},
		updateLeaf: func(node *trieNode[K, V], idx int, key K, shift int) {
			lf := node.children[idx].leaf
			if lf.bucket.insert(key, value) == insertFilled {
				m.burstLeaf(node, idx, shift)
			}
		},
		connectLeaf: func(parent, node *trieNode[K, V], idx, shift int) {
			lf := node.children[idx].leaf
			wasFirst := m.firstBucket == lf.bucket
			lf.bucket.burstInto(parent, shift, parent.childrenBits, func() { m.alloc.Alloc(m.bucketStructSize) })
			m.alloc.Free(m.bucketStructSize)
			if wasFirst {
				m.firstBucket = m.firstOccupiedSlotBucket(parent)
			}
		},
		removePred: func(lf *leaf[K, V], key K) bool {
			_, ok := lf.bucket.remove(key)
			if !ok || lf.bucket.numElems() != 0 {
				return false
			}
			m.unlinkBucket(lf.bucket)
			m.alloc.Free(m.bucketStructSize)
			return true
		},
	}
}

// linkNewBucket splices a freshly created single-key bucket into the
// global chain right after pred, or at the head if pred is nil (key is
// smaller than everything currently stored, or the structure was empty).
func (m *BTrie[K, V]) linkNewBucket(b, pred *bucket[K, V]) {
	if pred == nil {
		b.next = m.firstBucket
		if m.firstBucket != nil {
			m.firstBucket.prev = b
		}
		m.firstBucket = b
		return
	}
	b.prev = pred
	b.next = pred.next
	if pred.next != nil {
		pred.next.prev = b
	}
	pred.next = b
}

func (m *BTrie[K, V]) unlinkBucket(b *bucket[K, V]) {
	if b.prev != nil {
		b.prev.next = b.next
	}
	if b.next != nil {
		b.next.prev = b.prev
	}
	if m.firstBucket == b {
		m.firstBucket = b.next
	}
}

// burstLeaf converts a full bucket at node.children[idx] into a splitter
// subtrie, per the burst policy in burst.go.
func (m *BTrie[K, V]) burstLeaf(node *trieNode[K, V], idx, shift int) {
	lf := node.children[idx].leaf
	m.burst(node, lf, idx, shift)
}

// firstOccupiedSlotBucket walks down the leftmost occupied path of node
// to find the bucket that is now first after a connectLeaf re-wiring.
func (m *BTrie[K, V]) firstOccupiedSlotBucket(node *trieNode[K, V]) *bucket[K, V] {
	for {
		idx := node.firstBranch()
		slot := node.children[idx]
		if slot.internal() {
			node = slot.node
			continue
		}
		return slot.leaf.bucket
	}
}

// Insert adds key/value, overwriting any existing value for key.
func (m *BTrie[K, V]) Insert(key K, value V) {
	var predBucket *bucket[K, V]
	if lf, ok := m.t.findPredecessor(key); ok {
		predBucket = lf.bucket
	}
	m.t.insert(key, alwaysMatch[K], m.hooksFor(value, predBucket))
}

// Search returns the value stored under key, if present.
func (m *BTrie[K, V]) Search(key K) (V, bool) {
	lf, ok := m.t.search(key, alwaysMatch[K])
	if !ok {
		var zero V
		return zero, false
	}
	return lf.bucket.search(key)
}

// Locate returns the value associated with the largest stored key <=
// key, or absent if no such key exists (including on an empty BTrie).
func (m *BTrie[K, V]) Locate(key K) (V, bool) {
	var zero V
	if m.firstBucket == nil {
		return zero, false
	}
	lf, status := m.t.generalSearch(key)
	if lf == nil {
		return zero, false
	}
	switch status {
	case foundKey:
		_, v, ok := lf.bucket.locateWithList(key)
		return v, ok
	case foundPred:
		_, v := lf.bucket.maxKeyValue()
		return v, true
	default: // foundSucc
		prev := lf.bucket.prev
		if prev == nil {
			return zero, false
		}
		_, v := prev.maxKeyValue()
		return v, true
	}
}

// Remove deletes key if present; no-op otherwise.
func (m *BTrie[K, V]) Remove(key K) {
	var zero V
	m.t.remove(key, alwaysMatch[K], m.hooksFor(zero, nil))
}

// Keys returns every key currently stored, as a set, by walking the
// bucket chain from firstBucket. This is a diagnostic enumeration, not
// part of the hot insert/search/locate path, mirroring the teacher's own
// GetAllValues()/Keys() style of returning a Set3 rather than a slice.
func (m *BTrie[K, V]) Keys() *set3.Set3[K] {
	result := set3.Empty[K]()
	for b := m.firstBucket; b != nil; b = b.next {
		for _, k := range b.keys {
			result.Add(k)
		}
	}
	return result
}
