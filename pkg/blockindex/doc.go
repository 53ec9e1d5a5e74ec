// Package blockindex implements an in-memory sorted index of permuted keys:
// component D of the lookup engine. An Index owns one [permuter.Permuter],
// a sorted slice of entries keyed by the permuted form of each inserted
// key, and cached [Stats]. GetCandidates locates the maximal run of entries
// sharing a probe's masked prefix using an extended binary search; Search
// layers a popcount-XOR distance filter on top.
package blockindex
