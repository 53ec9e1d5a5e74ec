// Package bitperm compiles fixed-width bit permutations into straight-line
// word-level operations.
//
// A key of f bits is split into r contiguous blocks. For every k-subset of
// those blocks (in lexicographic order) a [Permutation] places the chosen
// blocks first ("the head") and the remaining blocks afterward in their
// original relative order. Compiling a Permutation produces three op
// streams — apply, revert, and top-mask — each a sequence of [BitOp] values
// grouped by destination 64-bit storage word.
//
// The permutation family only depends on (f, r, k); the nominal word width w
// from the instantiation parameters is not used here; it only constrains the
// external byte codec and is validated by [ValidateParams]. See DESIGN.md for
// the rationale: executing ops against a uniform 64-bit lane, independent of
// the caller's nominal w, is simpler and exactly as fast as lane widths
// narrower than a machine word, and nothing in the data model requires the
// in-memory representation to mirror hardware register width.
package bitperm
