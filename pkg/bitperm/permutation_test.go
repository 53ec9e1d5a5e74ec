package bitperm

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/require"
)

func wordsFromBits(f int, bitsSet func(i int) bool) []uint64 {
	n := (f + wordBits - 1) / wordBits
	words := make([]uint64, n)

	for i := 0; i < f; i++ {
		if !bitsSet(i) {
			continue
		}

		word := i / wordBits
		offsetFromMSB := i % wordBits
		words[word] |= uint64(1) << uint(wordBits-1-offsetFromMSB)
	}

	return words
}

func TestBuildFamily_VariantCount(t *testing.T) {
	t.Parallel()

	family, err := BuildFamily(128, 4, 2, 64)
	require.NoError(t, err)
	require.Len(t, family, 6) // C(4,2)

	for i, p := range family {
		require.Equal(t, i, p.Variant)
		require.Equal(t, 2, p.HeadCount)
		require.Equal(t, 4, p.NBlocks())
		require.Equal(t, 2, p.NWords)
	}
}

func TestValidateParams(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		f, r, k, w int
		wantErr    bool
	}{
		{"valid", 128, 4, 2, 64, false},
		{"bad word width", 128, 4, 2, 24, true},
		{"f not multiple of w", 100, 4, 2, 64, true},
		{"r exceeds f", 8, 9, 2, 8, true},
		{"k exceeds r", 128, 4, 5, 64, true},
		{"zero k", 128, 4, 0, 64, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateParams(tc.f, tc.r, tc.k, tc.w)
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestPermutation_ApplyRevertRoundTrip(t *testing.T) {
	t.Parallel()

	sizes := []struct{ f, r, k int }{
		{64, 4, 2},
		{128, 5, 3},
		{72, 3, 1},
		{256, 8, 4},
		{40, 5, 5}, // k == r: identity-like, full head
	}

	for _, sz := range sizes {
		// w=8 divides every f above; the compiled ops do not depend on w.
		family, err := BuildFamily(sz.f, sz.r, sz.k, 8)
		require.NoError(t, err)

		for _, p := range family {
			src := wordsFromBits(sz.f, func(i int) bool { return i%3 == 0 || i%7 == 0 })

			permuted := make([]uint64, p.NWords)
			p.Apply(src, permuted)

			restored := make([]uint64, p.NWords)
			p.Revert(permuted, restored)

			require.Equal(t, src, restored, "f=%d r=%d k=%d variant=%d", sz.f, sz.r, sz.k, p.Variant)
		}
	}
}

func TestPermutation_TopMaskSelectsExactlyHeadBits(t *testing.T) {
	t.Parallel()

	family, err := BuildFamily(128, 4, 2, 64)
	require.NoError(t, err)

	allOnes := wordsFromBits(128, func(int) bool { return true })

	for _, p := range family {
		permuted := make([]uint64, p.NWords)
		p.Apply(allOnes, permuted)

		masked := make([]uint64, p.NWords)
		p.TopMask(permuted, masked)

		got := 0
		for _, w := range masked {
			got += bits.OnesCount64(w)
		}

		require.Equal(t, p.MaskBitCount(), got)
		require.Equal(t, 128/4*2, p.MaskBitCount())
	}
}

func TestPermutation_HeadBitsComeFirst(t *testing.T) {
	t.Parallel()

	family, err := BuildFamily(64, 4, 2, 64)
	require.NoError(t, err)

	src := wordsFromBits(64, func(i int) bool { return true })

	for _, p := range family {
		permuted := make([]uint64, p.NWords)
		p.Apply(src, permuted)

		masked := make([]uint64, p.NWords)
		p.TopMask(permuted, masked)

		prefix := masked[0] >> uint(wordBits-p.MaskBitCount())
		require.Equal(t, uint64(1)<<uint(p.MaskBitCount())-1, prefix)
	}
}
