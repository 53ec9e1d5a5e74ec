package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInspect_PrintsHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "idx.dat")

	buf := make([]byte, 16+3*4)
	binary.LittleEndian.PutUint64(buf[0:8], 0xdeadbeef)
	binary.LittleEndian.PutUint64(buf[8:16], 3)
	require.NoError(t, os.WriteFile(path, buf, 0o644))

	var out bytes.Buffer

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, inspect(f, path))

	_, err = f.Seek(0, 0)
	require.NoError(t, err)
	_, err = out.ReadFrom(f)
	require.NoError(t, err)

	require.Contains(t, out.String(), "deadbeef")
	require.Contains(t, out.String(), "length:    3")
}

func TestInspect_RejectsTruncatedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "idx.dat")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0o644))

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()

	err = inspect(f, path)
	require.Error(t, err)
}
