package bitperm

// wordBits is the width of the internal storage lane that op streams are
// compiled against. It is independent of the caller's nominal word width w;
// see the package doc comment.
const wordBits = 64

// BitBlock is a half-open range of bits [Start, Start+Len) within a key,
// tagged with the index of the original block it came from. Bit position 0
// is the most-significant bit of the whole key; bits within a storage word
// are numbered the same way (0 = MSB of the word). Blocks may span several
// 64-bit storage words.
type BitBlock struct {
	OrigIndex int // index of this block before any permutation
	Start     int // bit offset from the MSB of the key
	Len       int // number of bits, > 0
}

// End returns the exclusive end bit position.
func (b BitBlock) End() int { return b.Start + b.Len }

func (b BitBlock) startWord() int { return b.Start / wordBits }

func (b BitBlock) endWord() int { return (b.End() - 1) / wordBits }

func (b BitBlock) singleWord() bool { return b.startWord() == b.endWord() }

// split partitions b into the minimal sequence of blocks such that each part
// lies within exactly one storage word.
func (b BitBlock) split() []BitBlock {
	var parts []BitBlock

	for word := b.startWord(); word <= b.endWord(); word++ {
		wordStart := word * wordBits
		wordEnd := wordStart + wordBits - 1

		start := max(b.Start, wordStart)

		end := min(b.End()-1, wordEnd)

		parts = append(parts, BitBlock{OrigIndex: b.OrigIndex, Start: start, Len: end - start + 1})
	}

	return parts
}

// maskAndLSBShift returns the mask (Len contiguous ones) positioned at b's
// bit offset within its storage word, and the shift (from the word's LSB)
// at which that mask sits. b must be singleWord().
func (b BitBlock) maskAndLSBShift() (mask uint64, lsbShift int) {
	offsetFromMSB := b.Start % wordBits
	lsbShift = wordBits - offsetFromMSB - b.Len
	mask = ((uint64(1) << uint(b.Len)) - 1) << uint(lsbShift)

	return mask, lsbShift
}

// PermutedBitBlock pairs an original block with its new start position once a
// permutation has relocated it.
type PermutedBitBlock struct {
	Orig     BitBlock
	NewStart int
}

// reverted returns the block as it appears after the permutation (positioned
// at NewStart), paired with its pre-permutation position — i.e. the
// PermutedBitBlock that undoes this one.
func (p PermutedBitBlock) reverted() PermutedBitBlock {
	return PermutedBitBlock{
		Orig:     BitBlock{OrigIndex: p.Orig.OrigIndex, Start: p.NewStart, Len: p.Orig.Len},
		NewStart: p.Orig.Start,
	}
}

// ToOps compiles the sequence of BitOps that move Orig to NewStart. Source
// parts are produced by splitting Orig at storage-word boundaries (in its
// original position); each source part is placed sequentially starting at
// NewStart and re-split at storage-word boundaries in its new position,
// since a single contiguous source part may straddle a destination word
// boundary that didn't exist at its source position.
func (p PermutedBitBlock) ToOps() []BitOp {
	var ops []BitOp

	partPos := p.NewStart

	for _, srcPart := range p.Orig.split() {
		moved := BitBlock{OrigIndex: srcPart.OrigIndex, Start: partPos, Len: srcPart.Len}

		srcPos := srcPart.Start

		for _, dst := range moved.split() {
			src := BitBlock{OrigIndex: srcPart.OrigIndex, Start: srcPos, Len: dst.Len}
			ops = append(ops, copyBlock(src, dst))
			srcPos += dst.Len
		}

		partPos += srcPart.Len
	}

	return ops
}

// ToMaskOps compiles the in-place masking ops that zero every bit outside
// this block once the key has already been permuted (i.e. Orig is assumed to
// already sit at NewStart — this is only meaningful for head blocks of a
// Permutation, called with the block's final permuted position).
func ToMaskOps(atNewPos BitBlock) []BitOp {
	var ops []BitOp

	for _, part := range atNewPos.split() {
		ops = append(ops, maskBlock(part))
	}

	return ops
}
