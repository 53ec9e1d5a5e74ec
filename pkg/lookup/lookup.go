package lookup

import (
	"fmt"

	"github.com/calvinalkan/hloo/pkg/bits"
	"github.com/calvinalkan/hloo/pkg/blockindex"
	"github.com/calvinalkan/hloo/pkg/hlooerrors"
	"github.com/calvinalkan/hloo/pkg/mmindex"
	"github.com/calvinalkan/hloo/pkg/permuter"
	"github.com/calvinalkan/hloo/pkg/vecfile"
)

// Lookup fans out inserts, removals, and searches across every
// permutation-variant index of a shared (f, r, k, w) family. All indexes
// carry the same logical corpus; mutations fan out to every index before
// a call returns.
type Lookup[V any] struct {
	indexes []VariantIndex[V]
	nBlocks int
}

// NewInMemory builds a Lookup backed entirely by in-memory [blockindex.Index]
// values, one per permuter in perms.
func NewInMemory[V any](perms []permuter.Permuter) (*Lookup[V], error) {
	if len(perms) == 0 {
		return nil, fmt.Errorf("%w: lookup requires at least one permuter", hlooerrors.ErrInvalidInput)
	}

	indexes := make([]VariantIndex[V], len(perms))
	for i, p := range perms {
		indexes[i] = inMemoryVariant[V]{idx: blockindex.New[V](p)}
	}

	return &Lookup[V]{indexes: indexes, nBlocks: perms[0].NBlocks()}, nil
}

// CreateMapped creates a fresh set of memory-mapped index files, one per
// permuter in perms, inside dir, under a shared signature.
func CreateMapped[V any](perms []permuter.Permuter, signature uint64, dir string, f, w int, codec vecfile.Codec[V]) (*Lookup[V], error) {
	if len(perms) == 0 {
		return nil, fmt.Errorf("%w: lookup requires at least one permuter", hlooerrors.ErrInvalidInput)
	}

	indexes := make([]VariantIndex[V], len(perms))

	for i, p := range perms {
		idx, err := mmindex.Create[V](p, signature, dir, f, w, codec)
		if err != nil {
			for j := 0; j < i; j++ {
				_, _ = closeVariant(indexes[j])
			}

			return nil, err
		}

		indexes[i] = idx
	}

	return &Lookup[V]{indexes: indexes, nBlocks: perms[0].NBlocks()}, nil
}

// LoadMapped opens an existing set of memory-mapped index files, one per
// permuter in perms, validating every file's signature.
func LoadMapped[V any](perms []permuter.Permuter, signature uint64, dir string, f, w int, codec vecfile.Codec[V]) (*Lookup[V], error) {
	if len(perms) == 0 {
		return nil, fmt.Errorf("%w: lookup requires at least one permuter", hlooerrors.ErrInvalidInput)
	}

	indexes := make([]VariantIndex[V], len(perms))

	for i, p := range perms {
		idx, err := mmindex.Load[V](p, signature, dir, f, w, codec)
		if err != nil {
			for j := 0; j < i; j++ {
				_, _ = closeVariant(indexes[j])
			}

			return nil, err
		}

		indexes[i] = idx
	}

	return &Lookup[V]{indexes: indexes, nBlocks: perms[0].NBlocks()}, nil
}

func closeVariant[V any](idx VariantIndex[V]) (bool, error) {
	d, ok := idx.(destroyer)
	if !ok {
		return false, nil
	}

	return true, d.Close()
}

// MaxSearchDistance returns r − 1: a bit-flip at any larger distance
// cannot be guaranteed to leave any block unchanged.
func (l *Lookup[V]) MaxSearchDistance() int { return l.nBlocks - 1 }

// Insert forwards items to every index, then refreshes every index's
// statistics.
func (l *Lookup[V]) Insert(items []Item[V]) error {
	for _, idx := range l.indexes {
		if err := idx.Insert(items); err != nil {
			return err
		}
	}

	for _, idx := range l.indexes {
		idx.Refresh()
	}

	return nil
}

// Remove forwards keys to every index, then refreshes every index's
// statistics.
func (l *Lookup[V]) Remove(keys []bits.Bits) error {
	for _, idx := range l.indexes {
		if err := idx.Remove(keys); err != nil {
			return err
		}
	}

	for _, idx := range l.indexes {
		idx.Refresh()
	}

	return nil
}

// Result is the outcome of a Search call: the per-index candidate/result
// lists plus a scanned-candidate count for diagnostics.
type Result[V any] struct {
	CandidatesScanned int
	PerIndex          [][]SearchResultItem[V]
}

// Search queries every index for probe at distance d, returning
// CandidatesScanned (the total number of entries popcount-verified across
// all indexes, independent of how many passed the threshold) alongside
// each index's own result list.
func (l *Lookup[V]) Search(probe bits.Bits, d int) (Result[V], error) {
	if d > l.MaxSearchDistance() {
		return Result[V]{}, &hlooerrors.DistanceExceedsMaxError{Distance: d, Max: l.MaxSearchDistance()}
	}

	perIndex := make([][]SearchResultItem[V], len(l.indexes))
	scanned := 0

	for i, idx := range l.indexes {
		scanned += len(idx.GetCandidates(probe))

		results, err := idx.Search(probe, d)
		if err != nil {
			return Result[V]{}, err
		}

		perIndex[i] = results
	}

	return Result[V]{CandidatesScanned: scanned, PerIndex: perIndex}, nil
}

// SearchSimple is Search flattened and deduplicated by value; it requires
// V to be comparable so results can be held in a set.
func SearchSimple[V comparable](l *Lookup[V], probe bits.Bits, d int) ([]V, error) {
	result, err := l.Search(probe, d)
	if err != nil {
		return nil, err
	}

	seen := make(map[V]struct{})

	var out []V

	for _, perIndex := range result.PerIndex {
		for _, item := range perIndex {
			if _, ok := seen[item.Value]; ok {
				continue
			}

			seen[item.Value] = struct{}{}

			out = append(out, item.Value)
		}
	}

	return out, nil
}

// Persist flushes every underlying memory-mapped file; a no-op for
// in-memory indexes.
func (l *Lookup[V]) Persist() error {
	for _, idx := range l.indexes {
		p, ok := idx.(persister)
		if !ok {
			continue
		}

		if err := p.Persist(); err != nil {
			return err
		}
	}

	return nil
}

// Destroy unmaps, unlocks, and removes every underlying memory-mapped
// file; a no-op for in-memory indexes.
func (l *Lookup[V]) Destroy() error {
	for _, idx := range l.indexes {
		d, ok := idx.(destroyer)
		if !ok {
			continue
		}

		if err := d.Destroy(); err != nil {
			return err
		}
	}

	return nil
}

// Close flushes and releases every underlying memory-mapped file without
// removing it; a no-op for in-memory indexes.
func (l *Lookup[V]) Close() error {
	for _, idx := range l.indexes {
		d, ok := idx.(destroyer)
		if !ok {
			continue
		}

		if err := d.Close(); err != nil {
			return err
		}
	}

	return nil
}

// Stats returns each index's statistics, in permutation-variant order.
func (l *Lookup[V]) Stats() []blockindex.Stats {
	out := make([]blockindex.Stats, len(l.indexes))
	for i, idx := range l.indexes {
		out[i] = idx.Stats()
	}

	return out
}
