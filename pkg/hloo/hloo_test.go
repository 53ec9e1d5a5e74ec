package hloo_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/hloo/pkg/bits"
	"github.com/calvinalkan/hloo/pkg/hloo"
	"github.com/calvinalkan/hloo/pkg/lookup"
	"github.com/calvinalkan/hloo/pkg/vecfile"
)

func keyFromUint32(t *testing.T, v uint32) bits.Bits {
	t.Helper()

	b, err := bits.FromBytesBigEndian(32, 32, []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
	require.NoError(t, err)

	return b
}

func TestOpen_InMemoryRoundTrip(t *testing.T) {
	t.Parallel()

	l, err := hloo.Open[uint64](hloo.Params{F: 32, R: 4, K: 2, W: 32})
	require.NoError(t, err)

	require.NoError(t, l.Insert([]lookup.Item[uint64]{{Key: keyFromUint32(t, 9), Value: 90}}))

	values, err := lookup.SearchSimple(l, keyFromUint32(t, 9), 0)
	require.NoError(t, err)
	require.Equal(t, []uint64{90}, values)
}

func TestCreateLoad_MappedSignatureBinding(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	params := hloo.Params{F: 32, R: 4, K: 2, W: 32}

	created, err := hloo.Create[uint64](params, dir, vecfile.Uint64Codec{})
	require.NoError(t, err)
	require.NoError(t, created.Close())

	_, err = hloo.Load[uint32](params, dir, vecfile.Uint32Codec{})
	require.Error(t, err)
}

func TestSignature_DiffersByTypeAndParams(t *testing.T) {
	t.Parallel()

	base := hloo.Signature[uint64](32, 4, 2, 32)

	require.NotEqual(t, base, hloo.Signature[uint32](32, 4, 2, 32))
	require.NotEqual(t, base, hloo.Signature[uint64](64, 4, 2, 32))
	require.NotEqual(t, base, hloo.Signature[uint64](32, 5, 2, 32))
}

func TestLoadPreset_PrecedenceAndOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	projectConfig := `{
		"presets": {
			"default": { "f": 32, "r": 4, "k": 2, "w": 32, "dir": "./data" }
		}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, hloo.ConfigFileName), []byte(projectConfig), 0o644))

	preset, sources, err := hloo.LoadPreset("default", dir, "", hloo.Preset{}, nil)
	require.NoError(t, err)
	require.Equal(t, 32, preset.F)
	require.Equal(t, 4, preset.R)
	require.NotEmpty(t, sources.Project)

	overridden, _, err := hloo.LoadPreset("default", dir, "", hloo.Preset{K: 1}, nil)
	require.NoError(t, err)
	require.Equal(t, 1, overridden.K)
}

func TestLoadPreset_MissingNameErrors(t *testing.T) {
	t.Parallel()

	_, _, err := hloo.LoadPreset("nonexistent", t.TempDir(), "", hloo.Preset{}, nil)
	require.Error(t, err)
}

func TestSavePreset_RoundTripsThroughLoadPreset(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, hloo.ConfigFileName)

	require.NoError(t, hloo.SavePreset(path, "mine", hloo.Preset{F: 64, R: 5, K: 2, W: 32, Dir: "./data"}))

	preset, _, err := hloo.LoadPreset("mine", dir, "", hloo.Preset{}, nil)
	require.NoError(t, err)
	require.Equal(t, 64, preset.F)
	require.Equal(t, "./data", preset.Dir)

	require.NoError(t, hloo.SavePreset(path, "other", hloo.Preset{F: 32, R: 4, K: 1, W: 32}))

	first, _, err := hloo.LoadPreset("mine", dir, "", hloo.Preset{}, nil)
	require.NoError(t, err)
	require.Equal(t, 64, first.F)
}
