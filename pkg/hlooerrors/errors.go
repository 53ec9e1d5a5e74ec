// Package hlooerrors holds the sentinel and typed errors shared across the
// lookup engine's packages. It exists separately from [pkg/hloo] so that
// the lower layers (blockindex, vecfile, mmindex, lookup) can return these
// errors without importing the top-level instantiation package, which in
// turn imports them all.
package hlooerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers discriminate with errors.Is; wrap with
// fmt.Errorf("...: %w", err) at each call site that adds context.
var (
	// ErrDistanceExceedsMax is returned when a search distance is not less
	// than the number of blocks a key is split into.
	ErrDistanceExceedsMax = errors.New("hloo: search distance exceeds maximum")
	// ErrSignatureMismatch is returned when a persisted index file was
	// created with different (f, r, k, w) parameters or a different value
	// type than the one now opening it.
	ErrSignatureMismatch = errors.New("hloo: signature mismatch")
	// ErrUninitializedVector is returned when a persisted file's size does
	// not equal header size plus length times element size.
	ErrUninitializedVector = errors.New("hloo: uninitialized or truncated vector file")
	// ErrBusy is returned when an exclusive file lock is already held.
	ErrBusy = errors.New("hloo: resource busy")
	// ErrInvalidInput is returned for malformed caller arguments.
	ErrInvalidInput = errors.New("hloo: invalid input")
)

// DistanceExceedsMaxError carries the offending distance and the maximum
// allowed for a Search call. It unwraps to [ErrDistanceExceedsMax].
type DistanceExceedsMaxError struct {
	Distance int
	Max      int
}

func (e *DistanceExceedsMaxError) Error() string {
	return fmt.Sprintf("hloo: search distance %d exceeds maximum %d", e.Distance, e.Max)
}

func (e *DistanceExceedsMaxError) Unwrap() error { return ErrDistanceExceedsMax }

// SignatureMismatchError carries the expected and actual on-disk signature.
// It unwraps to [ErrSignatureMismatch].
type SignatureMismatchError struct {
	Expected uint64
	Actual   uint64
	Path     string
}

func (e *SignatureMismatchError) Error() string {
	return fmt.Sprintf("hloo: %s: signature mismatch: expected %016x, got %016x", e.Path, e.Expected, e.Actual)
}

func (e *SignatureMismatchError) Unwrap() error { return ErrSignatureMismatch }

// UninitializedVectorError carries the path and observed/expected file size
// for a truncated persisted vector. It unwraps to [ErrUninitializedVector].
type UninitializedVectorError struct {
	Path         string
	FileSize     int64
	ExpectedSize int64
}

func (e *UninitializedVectorError) Error() string {
	return fmt.Sprintf("hloo: %s: uninitialized vector: file size %d, expected %d", e.Path, e.FileSize, e.ExpectedSize)
}

func (e *UninitializedVectorError) Unwrap() error { return ErrUninitializedVector }
