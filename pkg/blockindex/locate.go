package blockindex

import "github.com/calvinalkan/hloo/pkg/rangesearch"

// locateBlock finds the maximal contiguous run of entries whose key matches
// the probe on its masked prefix, delegating the search itself to
// rangesearch.LocateRange. Returns an empty, zero-length slice of entries
// when no entry matches.
func locateBlock[V any](entries []Entry[V], cmp func(i int) int) []Entry[V] {
	start, end := rangesearch.LocateRange(len(entries), cmp)

	return entries[start:end]
}
