// Package hloo is the instantiation surface: a parameterized factory that,
// given (f, r, k, w) and a value type V, yields a Lookup over either the
// in-memory or the memory-mapped index backend. It is the sole place that
// ties a key width to a compiled permutation family and to an on-disk
// signature.
package hloo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/calvinalkan/hloo/pkg/lookup"
	"github.com/calvinalkan/hloo/pkg/mmindex"
	"github.com/calvinalkan/hloo/pkg/permuter"
	"github.com/calvinalkan/hloo/pkg/vecfile"
)

// Params is the (f, r, k, w) instantiation of the Hamming-search family:
// key width f, number of blocks r, head-block count k, and on-disk word
// width w.
type Params struct {
	F, R, K, W int
}

// Open builds an in-memory Lookup for the given parameters.
func Open[V any](params Params) (*lookup.Lookup[V], error) {
	perms, err := permuter.BuildFamily(params.F, params.R, params.K, params.W)
	if err != nil {
		return nil, fmt.Errorf("hloo: %w", err)
	}

	return lookup.NewInMemory[V](perms)
}

// Create builds a fresh set of memory-mapped index files under dir, using
// a signature derived from (params, V).
func Create[V any](params Params, dir string, codec vecfile.Codec[V]) (*lookup.Lookup[V], error) {
	perms, err := permuter.BuildFamily(params.F, params.R, params.K, params.W)
	if err != nil {
		return nil, fmt.Errorf("hloo: %w", err)
	}

	sig := Signature[V](params.F, params.R, params.K, params.W)

	return lookup.CreateMapped[V](perms, sig, dir, params.F, params.W, codec)
}

// Load opens an existing set of memory-mapped index files under dir,
// validating each file's signature against (params, V).
func Load[V any](params Params, dir string, codec vecfile.Codec[V]) (*lookup.Lookup[V], error) {
	perms, err := permuter.BuildFamily(params.F, params.R, params.K, params.W)
	if err != nil {
		return nil, fmt.Errorf("hloo: %w", err)
	}

	sig := Signature[V](params.F, params.R, params.K, params.W)

	return lookup.LoadMapped[V](perms, sig, dir, params.F, params.W, codec)
}

// OpenPreset resolves a named preset (via LoadPreset) and opens the
// corresponding memory-mapped Lookup, creating the preset's directory and
// a fresh index family the first time it is used.
func OpenPreset[V any](name, workDir, explicitConfigPath string, overrides Preset, codec vecfile.Codec[V]) (*lookup.Lookup[V], error) {
	preset, _, err := LoadPreset(name, workDir, explicitConfigPath, overrides, os.Environ())
	if err != nil {
		return nil, err
	}

	params := Params{F: preset.F, R: preset.R, K: preset.K, W: preset.W}

	firstVariant := filepath.Join(preset.Dir, mmindex.FileName(0, Signature[V](params.F, params.R, params.K, params.W)))

	if _, err := os.Stat(firstVariant); err != nil {
		if err := os.MkdirAll(preset.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("hloo: create preset dir %s: %w", preset.Dir, err)
		}

		return Create[V](params, preset.Dir, codec)
	}

	return Load[V](params, preset.Dir, codec)
}
