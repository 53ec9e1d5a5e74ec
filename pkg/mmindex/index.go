package mmindex

import (
	"encoding/binary"
	"fmt"
	"path/filepath"

	"github.com/calvinalkan/hloo/pkg/bits"
	"github.com/calvinalkan/hloo/pkg/blockindex"
	"github.com/calvinalkan/hloo/pkg/hlooerrors"
	"github.com/calvinalkan/hloo/pkg/permuter"
	"github.com/calvinalkan/hloo/pkg/rangesearch"
	"github.com/calvinalkan/hloo/pkg/vecfile"
)

// Item is a single (key, value) pair to insert, keyed by its original
// (unpermuted) bit pattern.
type Item[V any] = blockindex.Item[V]

// Index is one permutation variant's sorted table of permuted keys,
// persisted to a single memory-mapped file. The zero value is not usable;
// build with Create or Load.
type Index[V any] struct {
	perm  permuter.Permuter
	file  *vecfile.File[V]
	stats blockindex.Stats
}

// FileName returns the canonical on-disk file name for a variant under a
// given signature: index_{variant:04}_{signature:016x}.dat.
func FileName(variant int, signature uint64) string {
	return fmt.Sprintf("index_%04d_%016x.dat", variant, signature)
}

// Create creates a fresh, empty index file for perm's variant inside dir.
func Create[V any](perm permuter.Permuter, signature uint64, dir string, f, w int, codec vecfile.Codec[V]) (*Index[V], error) {
	path := filepath.Join(dir, FileName(perm.Variant(), signature))

	file, err := vecfile.Create[V](path, f, w, codec, signature)
	if err != nil {
		return nil, err
	}

	return &Index[V]{perm: perm, file: file}, nil
}

// Load opens an existing index file for perm's variant inside dir,
// validating its signature.
func Load[V any](perm permuter.Permuter, signature uint64, dir string, f, w int, codec vecfile.Codec[V]) (*Index[V], error) {
	path := filepath.Join(dir, FileName(perm.Variant(), signature))

	file, err := vecfile.Open[V](path, f, w, codec, signature)
	if err != nil {
		return nil, err
	}

	idx := &Index[V]{perm: perm, file: file}
	idx.Refresh()

	return idx, nil
}

// Len reports the number of entries currently stored.
func (idx *Index[V]) Len() int { return idx.file.Len() }

// Stats returns the statistics computed as of the last Refresh call.
func (idx *Index[V]) Stats() blockindex.Stats { return idx.stats }

// NBlocks reports r, the number of blocks this index's permuter splits
// keys into.
func (idx *Index[V]) NBlocks() int { return idx.perm.NBlocks() }

// Insert permutes each item's key, appends it, and re-sorts the backing
// file by permuted key.
func (idx *Index[V]) Insert(items []Item[V]) error {
	permuted := make([]vecfile.Item[V], len(items))
	for i, it := range items {
		permuted[i] = vecfile.Item[V]{Key: idx.perm.Apply(it.Key), Value: it.Value}
	}

	return idx.file.InsertSorted(permuted)
}

// Remove deletes every entry whose original (unpermuted) key appears in
// keys.
func (idx *Index[V]) Remove(keys []bits.Bits) error {
	if len(keys) == 0 {
		return nil
	}

	doomed := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		doomed[wordsKey(idx.perm.Apply(k).Words())] = struct{}{}
	}

	return idx.file.RemoveMatching(func(key bits.Bits, _ V) bool {
		_, match := doomed[wordsKey(key.Words())]

		return match
	})
}

// Refresh recomputes Stats over the current contents.
func (idx *Index[V]) Refresh() {
	n := idx.file.Len()
	headBits := idx.perm.HeadBitCount()

	if n == 0 {
		idx.stats = blockindex.Stats{}

		return
	}

	nBlocks, minSize, maxSize := 0, n, 0
	runStart := 0

	for i := 1; i <= n; i++ {
		boundary := i == n || idx.file.KeyAt(i).ComparePrefix(idx.file.KeyAt(runStart), headBits) != 0
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

	idx.stats = blockindex.Stats{
		NItems:       n,
		NBlocks:      nBlocks,
		MinBlockSize: minSize,
		MaxBlockSize: maxSize,
		AvgBlockSize: float64(n) / float64(nBlocks),
	}
}

// GetCandidates returns owned copies of every entry whose masked prefix
// equals probe's, located via extended binary search over the mapped file.
func (idx *Index[V]) GetCandidates(probe bits.Bits) []blockindex.Entry[V] {
	permuted := idx.perm.Apply(probe)

	return idx.candidatesForPermuted(permuted)
}

func (idx *Index[V]) candidatesForPermuted(permuted bits.Bits) []blockindex.Entry[V] {
	headBits := idx.perm.HeadBitCount()

	cmp := func(i int) int {
		return idx.file.KeyAt(i).ComparePrefix(permuted, headBits)
	}

	start, end := rangesearch.LocateRange(idx.file.Len(), cmp)

	out := make([]blockindex.Entry[V], 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, blockindex.Entry[V]{Key: idx.file.KeyAt(i), Value: idx.file.ValueAt(i)})
	}

	return out
}

// Search returns every candidate entry within Hamming distance d of probe.
func (idx *Index[V]) Search(probe bits.Bits, d int) ([]blockindex.SearchResultItem[V], error) {
	nBlocks := idx.perm.NBlocks()
	if d >= nBlocks {
		return nil, &hlooerrors.DistanceExceedsMaxError{Distance: d, Max: nBlocks - 1}
	}

	permuted := idx.perm.Apply(probe)
	candidates := idx.candidatesForPermuted(permuted)

	var out []blockindex.SearchResultItem[V]

	for _, c := range candidates {
		dist := permuted.Distance(c.Key)
		if dist <= d {
			out = append(out, blockindex.SearchResultItem[V]{Value: c.Value, Distance: dist})
		}
	}

	return out, nil
}

// Persist flushes dirty mapped pages and the file descriptor to disk.
func (idx *Index[V]) Persist() error { return idx.file.Flush() }

// Destroy unmaps, unlocks, and removes the underlying file.
func (idx *Index[V]) Destroy() error { return idx.file.Destroy() }

// Close flushes and releases the mapping and lock without removing the
// file.
func (idx *Index[V]) Close() error { return idx.file.Close() }

func wordsKey(words []uint64) string {
	buf := make([]byte, len(words)*8)
	for i, w := range words {
		binary.BigEndian.PutUint64(buf[i*8:], w)
	}

	return string(buf)
}
