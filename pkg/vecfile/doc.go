// Package vecfile implements a memory-mapped, sorted, append/rebuild
// vector backing an on-disk index: component E of the lookup engine. A
// File is a 16-byte header (signature, length) followed by a packed array
// of fixed-size elements, each a key (N w-bit words, little-endian on every
// host) followed by a caller-supplied value encoded via [Codec].
//
// The file is held under an exclusive flock(2) for the lifetime of the
// mapping, enforcing single-process, single-writer semantics. Query
// paths never hand out the backing mmap slice; they return owned copies,
// so a File is safe to resize or rebuild between calls without callers
// holding a dangling reference.
package vecfile
