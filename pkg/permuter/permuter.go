// Package permuter adapts a compiled [bitperm.Permutation] to operate on
// [bits.Bits] values, and enumerates the full permutation family for an
// (f, r, k) instantiation as a slice of [Permuter] values.
package permuter

import (
	"github.com/calvinalkan/hloo/pkg/bitperm"
	"github.com/calvinalkan/hloo/pkg/bits"
)

// Permuter reorders and masks fixed-width keys under one compiled
// permutation variant. Values are immutable once built.
type Permuter interface {
	// Apply permutes a key, moving its head blocks to the front.
	Apply(key bits.Bits) bits.Bits
	// Revert undoes Apply.
	Revert(permuted bits.Bits) bits.Bits
	// Mask zeroes every bit of an already-permuted key outside its head
	// blocks, returning the masked prefix as a Mask of the same width.
	Mask(permuted bits.Bits) bits.Mask
	// NBlocks reports r, the number of blocks the key is split into.
	NBlocks() int
	// HeadBitCount reports the total bit width of the masked prefix.
	HeadBitCount() int
	// Variant reports this permuter's index within its family, 0-based.
	Variant() int
}

type compiled struct {
	f    int
	perm *bitperm.Permutation
}

func (c *compiled) Apply(key bits.Bits) bits.Bits {
	dst := make([]uint64, c.perm.NWords)
	c.perm.Apply(key.Words(), dst)

	out, err := bits.FromWords(c.f, dst)
	if err != nil {
		panic(err) // unreachable: dst is always exactly NWords long
	}

	return out
}

func (c *compiled) Revert(permuted bits.Bits) bits.Bits {
	dst := make([]uint64, c.perm.NWords)
	c.perm.Revert(permuted.Words(), dst)

	out, err := bits.FromWords(c.f, dst)
	if err != nil {
		panic(err)
	}

	return out
}

func (c *compiled) Mask(permuted bits.Bits) bits.Mask {
	dst := make([]uint64, c.perm.NWords)
	c.perm.TopMask(permuted.Words(), dst)

	out, err := bits.FromWords(c.f, dst)
	if err != nil {
		panic(err)
	}

	return out
}

func (c *compiled) NBlocks() int      { return c.perm.NBlocks() }
func (c *compiled) HeadBitCount() int { return c.perm.MaskBitCount() }
func (c *compiled) Variant() int      { return c.perm.Variant }

// BuildFamily compiles the full C(r,k) permutation family for a key of f
// bits split into r blocks with k-element heads, stored in w-bit words on
// the wire.
func BuildFamily(f, r, k, w int) ([]Permuter, error) {
	family, err := bitperm.BuildFamily(f, r, k, w)
	if err != nil {
		return nil, err
	}

	out := make([]Permuter, len(family))
	for i, p := range family {
		out[i] = &compiled{f: f, perm: p}
	}

	return out, nil
}
