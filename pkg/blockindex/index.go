package blockindex

import (
	"encoding/binary"
	"slices"

	"github.com/calvinalkan/hloo/pkg/bits"
	"github.com/calvinalkan/hloo/pkg/hlooerrors"
	"github.com/calvinalkan/hloo/pkg/permuter"
)

// Stats summarizes the block structure of an Index as of its last Refresh
// call. A "block" is a maximal run of entries sharing the same masked
// prefix.
type Stats struct {
	NItems       int
	NBlocks      int
	MinBlockSize int
	MaxBlockSize int
	AvgBlockSize float64
}

// Index is an in-memory sorted table of permuted keys under one permutation
// variant. The zero value is not usable; build with New.
type Index[V any] struct {
	perm    permuter.Permuter
	entries []Entry[V]
	stats   Stats
}

// New builds an empty Index bound to one permutation variant.
func New[V any](perm permuter.Permuter) *Index[V] {
	return &Index[V]{perm: perm}
}

// Len reports the number of entries currently stored.
func (idx *Index[V]) Len() int { return len(idx.entries) }

// Stats returns the statistics computed as of the last Refresh call.
func (idx *Index[V]) Stats() Stats { return idx.stats }

// NBlocks reports r, the number of blocks this index's permuter splits
// keys into.
func (idx *Index[V]) NBlocks() int { return idx.perm.NBlocks() }

// Insert permutes each item's key under the index's permuter, appends it,
// and re-sorts the full entry sequence by permuted key. The result is fully
// sorted regardless of whether items arrived pre-sorted.
func (idx *Index[V]) Insert(items []Item[V]) {
	for _, it := range items {
		idx.entries = append(idx.entries, Entry[V]{Key: idx.perm.Apply(it.Key), Value: it.Value})
	}

	idx.sort()
}

// Remove deletes every entry whose original (unpermuted) key appears in
// keys, preserving sort order among the survivors.
func (idx *Index[V]) Remove(keys []bits.Bits) {
	if len(keys) == 0 {
		return
	}

	doomed := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		doomed[wordsKey(idx.perm.Apply(k).Words())] = struct{}{}
	}

	kept := idx.entries[:0]

	for _, e := range idx.entries {
		if _, match := doomed[wordsKey(e.Key.Words())]; match {
			continue
		}

		kept = append(kept, e)
	}

	idx.entries = kept
}

// Refresh recomputes Stats over the current contents.
func (idx *Index[V]) Refresh() {
	idx.stats = computeStats(idx.entries, idx.perm.HeadBitCount())
}

// GetCandidates returns the contiguous run of entries whose masked prefix
// equals the probe's, located via extended binary search. The returned
// slice aliases the index's backing array and must not be retained across
// a mutating call.
func (idx *Index[V]) GetCandidates(probe bits.Bits) []Entry[V] {
	permuted := idx.perm.Apply(probe)

	return idx.candidatesForPermuted(permuted)
}

func (idx *Index[V]) candidatesForPermuted(permuted bits.Bits) []Entry[V] {
	headBits := idx.perm.HeadBitCount()

	cmp := func(i int) int {
		return idx.entries[i].Key.ComparePrefix(permuted, headBits)
	}

	return locateBlock(idx.entries, cmp)
}

// Search returns every candidate entry within Hamming distance d of probe.
// d must be less than NBlocks(); otherwise DistanceExceedsMaxError is
// returned.
func (idx *Index[V]) Search(probe bits.Bits, d int) ([]SearchResultItem[V], error) {
	nBlocks := idx.perm.NBlocks()
	if d >= nBlocks {
		return nil, &hlooerrors.DistanceExceedsMaxError{Distance: d, Max: nBlocks - 1}
	}

	permuted := idx.perm.Apply(probe)
	candidates := idx.candidatesForPermuted(permuted)

	var out []SearchResultItem[V]

	for _, c := range candidates {
		dist := permuted.Distance(c.Key)
		if dist <= d {
			out = append(out, SearchResultItem[V]{Value: c.Value, Distance: dist})
		}
	}

	return out, nil
}

func (idx *Index[V]) sort() {
	slices.SortFunc(idx.entries, func(a, b Entry[V]) int { return a.Key.Compare(b.Key) })
}

// wordsKey renders a key's words as a comparable map key.
func wordsKey(words []uint64) string {
	buf := make([]byte, len(words)*8)
	for i, w := range words {
		binary.BigEndian.PutUint64(buf[i*8:], w)
	}

	return string(buf)
}

// computeStats walks the sorted entries once, grouping them into maximal
// runs that share the same masked prefix.
func computeStats[V any](entries []Entry[V], headBits int) Stats {
	n := len(entries)
	if n == 0 {
		return Stats{}
	}

	nBlocks := 0
	minSize := n
	maxSize := 0
	runStart := 0

	for i := 1; i <= n; i++ {
		boundary := i == n || entries[i].Key.ComparePrefix(entries[runStart].Key, headBits) != 0
		if !boundary {
			continue
		}

		size := i - runStart
		nBlocks++

		if size < minSize {
			minSize = size
		}

		if size > maxSize {
			maxSize = size
		}

		runStart = i
	}

	return Stats{
		NItems:       n,
		NBlocks:      nBlocks,
		MinBlockSize: minSize,
		MaxBlockSize: maxSize,
		AvgBlockSize: float64(n) / float64(nBlocks),
	}
}
