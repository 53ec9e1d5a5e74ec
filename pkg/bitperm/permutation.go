package bitperm

import (
	"errors"
	"fmt"
)

// ErrInvalidParams is returned by ValidateParams and BuildFamily when
// (f, r, k, w) violate a precondition.
var ErrInvalidParams = errors.New("bitperm: invalid parameters")

// Permutation is one compiled reordering of a key's r blocks: the first
// HeadCount blocks (in subset order) form the prefix matched at query time;
// the rest follow in their original relative order. Op streams are
// precompiled and grouped by destination storage word.
type Permutation struct {
	Variant   int // index of this variant within its family, 0-based
	HeadCount int // k: number of head blocks
	NWords    int // number of 64-bit storage words backing an f-bit key

	headBlocks []BitBlock // original blocks chosen as the head, in head order
	tailLen    int        // r - HeadCount

	applyByDst  map[int][]BitOp
	revertByDst map[int][]BitOp
	maskByDst   map[int][]BitOp

	maskBitCount int
}

// NBlocks reports r, the total number of blocks in the partition.
func (p *Permutation) NBlocks() int { return len(p.headBlocks) + p.tailLen }

// MaskBitCount returns the total number of bits selected by TopMask.
func (p *Permutation) MaskBitCount() int { return p.maskBitCount }

// ValidateParams checks the (f, r, k, w) preconditions shared by the
// permutation compiler and the external byte codec.
func ValidateParams(f, r, k, w int) error {
	switch {
	case w != 8 && w != 16 && w != 32 && w != 64:
		return fmt.Errorf("%w: word width w=%d must be one of 8,16,32,64", ErrInvalidParams, w)
	case f <= 0 || f%w != 0:
		return fmt.Errorf("%w: f=%d must be a positive multiple of w=%d", ErrInvalidParams, f, w)
	case r <= 0 || r > f:
		return fmt.Errorf("%w: r=%d must be in [1,f=%d]", ErrInvalidParams, r, f)
	case k <= 0 || k > r:
		return fmt.Errorf("%w: k=%d must be in [1,r=%d]", ErrInvalidParams, k, r)
	}

	return nil
}

// splitBlocks partitions f bits into r contiguous blocks, larger blocks
// first when f does not divide evenly, per the deterministic tie-break.
func splitBlocks(f, r int) []BitBlock {
	base := f / r
	rem := f % r

	blocks := make([]BitBlock, r)
	pos := 0

	for i := range r {
		length := base
		if i < rem {
			length++
		}

		blocks[i] = BitBlock{OrigIndex: i, Start: pos, Len: length}
		pos += length
	}

	return blocks
}

// kSubsets enumerates every k-subset of {0,...,r-1} in lexicographic order,
// each represented as an ascending slice of indices.
func kSubsets(r, k int) [][]int {
	subset := make([]int, k)
	for i := range subset {
		subset[i] = i
	}

	var out [][]int

	for {
		cp := append([]int(nil), subset...)
		out = append(out, cp)

		i := k - 1
		for i >= 0 && subset[i] == r-k+i {
			i--
		}

		if i < 0 {
			break
		}

		subset[i]++
		for j := i + 1; j < k; j++ {
			subset[j] = subset[j-1] + 1
		}
	}

	return out
}

// BuildFamily compiles every C(r,k) permutation variant for a key of f bits
// split into r blocks with k-element heads.
func BuildFamily(f, r, k int, w int) ([]*Permutation, error) {
	if err := ValidateParams(f, r, k, w); err != nil {
		return nil, err
	}

	blocks := splitBlocks(f, r)
	nWords := (f + wordBits - 1) / wordBits

	subsets := kSubsets(r, k)

	family := make([]*Permutation, len(subsets))

	for variant, subset := range subsets {
		family[variant] = compileVariant(variant, blocks, subset, nWords)
	}

	return family, nil
}

// compileVariant builds one Permutation for the given head subset (block
// indices, ascending) against the shared block partition.
func compileVariant(variant int, blocks []BitBlock, headIdx []int, nWords int) *Permutation {
	inHead := make(map[int]bool, len(headIdx))
	for _, idx := range headIdx {
		inHead[idx] = true
	}

	order := make([]int, 0, len(blocks))
	order = append(order, headIdx...)

	for _, b := range blocks {
		if !inHead[b.OrigIndex] {
			order = append(order, b.OrigIndex)
		}
	}

	permuted := make([]PermutedBitBlock, len(blocks))

	pos := 0
	for _, origIdx := range order {
		b := blocks[origIdx]
		permuted[origIdx] = PermutedBitBlock{Orig: b, NewStart: pos}
		pos += b.Len
	}

	var applyOps, revertOps, maskOps []BitOp

	maskBits := 0

	for _, origIdx := range order {
		pb := permuted[origIdx]
		applyOps = append(applyOps, pb.ToOps()...)
		revertOps = append(revertOps, pb.reverted().ToOps()...)

		if inHead[origIdx] {
			atNewPos := BitBlock{OrigIndex: pb.Orig.OrigIndex, Start: pb.NewStart, Len: pb.Orig.Len}
			maskOps = append(maskOps, ToMaskOps(atNewPos)...)
			maskBits += pb.Orig.Len
		}
	}

	headBlocks := make([]BitBlock, len(headIdx))
	for i, idx := range headIdx {
		headBlocks[i] = blocks[idx]
	}

	p := &Permutation{
		Variant:      variant,
		HeadCount:    len(headIdx),
		NWords:       nWords,
		headBlocks:   headBlocks,
		applyByDst:   groupByDst(optimize(applyOps)),
		revertByDst:  groupByDst(optimize(revertOps)),
		maskByDst:    groupByDst(optimize(maskOps)),
		maskBitCount: maskBits,
	}
	p.tailLen = len(blocks) - len(headIdx)

	return p
}

func groupByDst(ops []BitOp) map[int][]BitOp {
	out := make(map[int][]BitOp)
	for _, op := range ops {
		out[op.DstWord] = append(out[op.DstWord], op)
	}

	return out
}
