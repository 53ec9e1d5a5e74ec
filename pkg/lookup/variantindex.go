package lookup

import (
	"github.com/calvinalkan/hloo/pkg/bits"
	"github.com/calvinalkan/hloo/pkg/blockindex"
)

// Item, Entry, and SearchResultItem are the coordinator's (key, value)
// vocabulary, shared verbatim with the per-variant index packages.
type (
	Item[V any]             = blockindex.Item[V]
	Entry[V any]            = blockindex.Entry[V]
	SearchResultItem[V any] = blockindex.SearchResultItem[V]
)

// VariantIndex is the subset of behavior a single permutation variant's
// index must provide, satisfied by both [blockindex.Index] (wrapped by
// inMemoryVariant) and [mmindex.Index].
type VariantIndex[V any] interface {
	Insert(items []Item[V]) error
	Remove(keys []bits.Bits) error
	Refresh()
	GetCandidates(probe bits.Bits) []Entry[V]
	Search(probe bits.Bits, d int) ([]SearchResultItem[V], error)
	Stats() blockindex.Stats
	NBlocks() int
}

// persister is implemented by memory-mapped variant indexes; in-memory
// ones are not durable and simply don't satisfy it.
type persister interface {
	Persist() error
}

// destroyer is implemented by memory-mapped variant indexes.
type destroyer interface {
	Destroy() error
	Close() error
}

// inMemoryVariant adapts a [blockindex.Index], whose Insert/Remove cannot
// fail, to the error-returning VariantIndex interface shared with the
// memory-mapped backend.
type inMemoryVariant[V any] struct {
	idx *blockindex.Index[V]
}

func (a inMemoryVariant[V]) Insert(items []Item[V]) error {
	a.idx.Insert(items)

	return nil
}

func (a inMemoryVariant[V]) Remove(keys []bits.Bits) error {
	a.idx.Remove(keys)

	return nil
}

func (a inMemoryVariant[V]) Refresh() { a.idx.Refresh() }

func (a inMemoryVariant[V]) GetCandidates(probe bits.Bits) []Entry[V] { return a.idx.GetCandidates(probe) }

func (a inMemoryVariant[V]) Search(probe bits.Bits, d int) ([]SearchResultItem[V], error) {
	return a.idx.Search(probe, d)
}

func (a inMemoryVariant[V]) Stats() blockindex.Stats { return a.idx.Stats() }

func (a inMemoryVariant[V]) NBlocks() int { return a.idx.NBlocks() }
