package orddict

// burst converts a full bucket sitting at node.children[idx] into a
// splitter node plus a set of fresh sub-buckets, once an insert into
// that bucket has reported insertFilled. It computes the longest run of
// key bits, beyond what node's own branching already consumed, that
// every key in the bucket agrees on, folds that run into the splitter's
// path-compression prefix, and re-bins the bucket's contents under the
// splitter by the next min_children_bits-wide digit.
//
// Grounded on original_source/btrie/bursters.h's
// LevelPathCompTrieBurst::operator() (the common-prefix-then-burst_into
// sequence) and ::connect (the no-splitter variant used when a node
// itself expands, handled instead by BTrie.hooksFor's connectLeaf).
func (m *BTrie[K, V]) burst(node *trieNode[K, V], lf *leaf[K, V], idx, shift int) {
	b := lf.bucket
	minBits := m.t.minChildrenBits
	ref := b.minKey()

	lcpLen := 0
	for s := shift - minBits; s >= 0; s -= minBits {
		bits := extractBits(ref, s, minBits)
		if !b.allBitsMatch(bits, s, minBits) {
			break
		}
		lcpLen += minBits
	}

	splitter := newTrieNode[K, V](minBits, m.t.bitIdxKind)
	node.addInode(splitter, idx)
	splitter.numSkipped = lcpLen
	splitter.skippedBits = extractBits(ref, shift-lcpLen, lcpLen)
	if lcpLen == 0 {
		node.numEmptyInternal++
	}

	wasFirst := m.firstBucket == b
	b.burstInto(splitter, shift-minBits-lcpLen, minBits, func() { m.alloc.Alloc(m.bucketStructSize) })
	m.alloc.Free(m.bucketStructSize)
	if wasFirst {
		m.firstBucket = m.firstOccupiedSlotBucket(splitter)
	}
	splitter.updateBitIndex()
}
