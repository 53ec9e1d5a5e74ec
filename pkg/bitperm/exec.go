package bitperm

// Apply permutes src (NWords 64-bit words, MSB-first) into dst, overwriting
// every word of dst. src and dst must each have length p.NWords and must not
// alias.
func (p *Permutation) Apply(src, dst []uint64) {
	execute(p.applyByDst, p.NWords, src, dst)
}

// Revert undoes Apply: given a permuted key, reconstructs the original.
func (p *Permutation) Revert(src, dst []uint64) {
	execute(p.revertByDst, p.NWords, src, dst)
}

// TopMask zeroes every bit of a permuted key outside its head blocks,
// writing the result to dst. key must already be in permuted (post-Apply)
// form.
func (p *Permutation) TopMask(key, dst []uint64) {
	execute(p.maskByDst, p.NWords, key, dst)
}

// execute runs a grouped op stream: every destination word is rebuilt from
// scratch by folding its ops left to right. A Copy op is the sole op for its
// destination word by construction (the compiler never mixes Copy with other
// ops targeting the same word), so encountering one short-circuits the fold.
func execute(byDst map[int][]BitOp, nWords int, src, dst []uint64) {
	for w := 0; w < nWords; w++ {
		ops, ok := byDst[w]
		if !ok {
			dst[w] = 0
			continue
		}

		var acc uint64

		for _, op := range ops {
			if op.Kind == OpCopy {
				acc = op.apply1(src[op.SrcWord])
				break
			}

			acc |= op.apply1(src[op.SrcWord])
		}

		dst[w] = acc
	}
}
