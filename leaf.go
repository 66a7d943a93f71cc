package orddict

// leaf is a trie leaf: it owns the sorted bucket that actually holds the
// keys and values routed to this slot. The key recorded here is whichever
// key was present when the leaf was created; it exists only so the trie's
// descent can report a key at this position (e.g. for general_search's
// FOUND_PRED/FOUND_SUCC cases) without dereferencing the bucket — actual
// membership and value lookups always go through bucket.
//
// Grounded on original_source/btrie/btrie.h's CreateLeafBucket functor,
// which parameterizes LPCTrie's own Leaf{key,value} with value = *Bucket.
type leaf[K Uint, V any] struct {
	key    K
	bucket *bucket[K, V]
}
