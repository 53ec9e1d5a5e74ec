package blockindex

import "github.com/calvinalkan/hloo/pkg/bits"

// Item is a caller-supplied (key, value) pair to insert, keyed by the
// original, unpermuted bit pattern.
type Item[V any] struct {
	Key   bits.Bits
	Value V
}

// Entry is one stored row: Key holds the permuted form of an inserted
// key; entries are kept sorted by Key.
type Entry[V any] struct {
	Key   bits.Bits
	Value V
}

// SearchResultItem is one match returned by Search: Value paired with its
// Hamming distance from the probe.
type SearchResultItem[V any] struct {
	Value    V
	Distance int
}
