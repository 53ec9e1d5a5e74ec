package vecfile_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/hloo/pkg/bits"
	"github.com/calvinalkan/hloo/pkg/hlooerrors"
	"github.com/calvinalkan/hloo/pkg/vecfile"
)

func keyOf(t *testing.T, v uint32) bits.Bits {
	t.Helper()

	b, err := bits.FromBytesBigEndian(32, 32, []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
	require.NoError(t, err)

	return b
}

func TestFile_CreateOpenRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "vec.dat")

	vf, err := vecfile.Create[uint64](path, 32, 32, vecfile.Uint64Codec{}, 0xABCD)
	require.NoError(t, err)
	require.Equal(t, 0, vf.Len())

	require.NoError(t, vf.InsertSorted([]vecfile.Item[uint64]{
		{Key: keyOf(t, 30), Value: 300},
		{Key: keyOf(t, 10), Value: 100},
		{Key: keyOf(t, 20), Value: 200},
	}))
	require.Equal(t, 3, vf.Len())

	require.Equal(t, uint64(100), vf.ValueAt(0))
	require.Equal(t, uint64(200), vf.ValueAt(1))
	require.Equal(t, uint64(300), vf.ValueAt(2))

	require.NoError(t, vf.Close())

	reopened, err := vecfile.Open[uint64](path, 32, 32, vecfile.Uint64Codec{}, 0xABCD)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	require.Equal(t, 3, reopened.Len())
	require.Equal(t, uint64(200), reopened.ValueAt(1))
}

func TestFile_Open_SignatureMismatch(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "vec.dat")

	vf, err := vecfile.Create[uint64](path, 32, 32, vecfile.Uint64Codec{}, 1)
	require.NoError(t, err)
	require.NoError(t, vf.Close())

	_, err = vecfile.Open[uint64](path, 32, 32, vecfile.Uint64Codec{}, 2)
	require.Error(t, err)

	var mismatch *hlooerrors.SignatureMismatchError
	require.True(t, errors.As(err, &mismatch))
	require.Equal(t, uint64(2), mismatch.Expected)
	require.Equal(t, uint64(1), mismatch.Actual)
}

func TestFile_Open_TruncatedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "vec.dat")

	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0o644))

	_, err := vecfile.Open[uint64](path, 32, 32, vecfile.Uint64Codec{}, 1)
	require.Error(t, err)

	var uninit *hlooerrors.UninitializedVectorError
	require.True(t, errors.As(err, &uninit))
}

func TestFile_RemoveMatching(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "vec.dat")

	vf, err := vecfile.Create[uint64](path, 32, 32, vecfile.Uint64Codec{}, 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = vf.Close() })

	require.NoError(t, vf.InsertSorted([]vecfile.Item[uint64]{
		{Key: keyOf(t, 1), Value: 1},
		{Key: keyOf(t, 2), Value: 2},
		{Key: keyOf(t, 3), Value: 3},
	}))

	require.NoError(t, vf.RemoveMatching(func(_ bits.Bits, v uint64) bool { return v == 2 }))

	require.Equal(t, 2, vf.Len())
	require.Equal(t, uint64(1), vf.ValueAt(0))
	require.Equal(t, uint64(3), vf.ValueAt(1))
}

func TestFile_CopyAndMove(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "vec.dat")

	vf, err := vecfile.Create[uint64](path, 32, 32, vecfile.Uint64Codec{}, 7)
	require.NoError(t, err)

	require.NoError(t, vf.InsertSorted([]vecfile.Item[uint64]{{Key: keyOf(t, 5), Value: 50}}))

	copyPath := filepath.Join(dir, "copy.dat")
	require.NoError(t, vf.CopyTo(copyPath))

	copied, err := vecfile.Open[uint64](copyPath, 32, 32, vecfile.Uint64Codec{}, 7)
	require.NoError(t, err)
	require.Equal(t, 1, copied.Len())
	require.NoError(t, copied.Close())

	movePath := filepath.Join(dir, "moved.dat")
	require.NoError(t, vf.MoveTo(movePath))
	require.NoError(t, vf.Close())

	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr))

	moved, err := vecfile.Open[uint64](movePath, 32, 32, vecfile.Uint64Codec{}, 7)
	require.NoError(t, err)
	require.Equal(t, 1, moved.Len())
	require.NoError(t, moved.Close())
}

func TestFile_Create_LocksAgainstSecondOpen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "vec.dat")

	vf, err := vecfile.Create[uint64](path, 32, 32, vecfile.Uint64Codec{}, 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = vf.Close() })

	_, err = vecfile.Open[uint64](path, 32, 32, vecfile.Uint64Codec{}, 1)
	require.ErrorIs(t, err, hlooerrors.ErrBusy)
}
