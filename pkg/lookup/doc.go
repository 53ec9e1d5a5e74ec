// Package lookup implements the coordinator that fans out inserts,
// removals, and searches across every permutation-variant index of a
// shared (f, r, k, w) family, whether those indexes are in-memory
// (pkg/blockindex) or memory-mapped (pkg/mmindex), and deduplicates
// search results by value.
package lookup
