package permuter

import (
	"testing"

	"github.com/calvinalkan/hloo/pkg/bits"
	"github.com/stretchr/testify/require"
)

func TestBuildFamily_RoundTripAndMask(t *testing.T) {
	t.Parallel()

	family, err := BuildFamily(64, 4, 2, 32)
	require.NoError(t, err)
	require.Len(t, family, 6)

	key, err := bits.FromBytesBigEndian(64, 32, []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x01, 0x02, 0x03, 0x04})
	require.NoError(t, err)

	allOnes := bits.New(64)
	for i := 0; i < 64; i++ {
		allOnes.SetBit(i, true)
	}

	for _, p := range family {
		permuted := p.Apply(key)
		restored := p.Revert(permuted)
		require.True(t, key.Equal(restored), "variant %d", p.Variant())

		permutedOnes := p.Apply(allOnes)
		mask := p.Mask(permutedOnes)
		require.Equal(t, p.HeadBitCount(), countSetBits(mask))

		// every bit of mask beyond HeadBitCount must be zero, since the head
		// blocks sit at the front of a permuted key.
		for i := p.HeadBitCount(); i < mask.Len(); i++ {
			require.False(t, mask.Bit(i), "variant %d bit %d", p.Variant(), i)
		}
	}
}

func countSetBits(b bits.Bits) int {
	n := 0

	b.Iter(func(_ int, v bool) bool {
		if v {
			n++
		}

		return true
	})

	return n
}
