// Package mmindex implements a single permutation-variant block index
// backed by a memory-mapped, persistent vecfile.File instead of an
// in-memory slice. Its semantics mirror pkg/blockindex exactly; only the
// storage layer differs.
package mmindex
