package hloo

import "github.com/calvinalkan/hloo/pkg/hlooerrors"

// Re-exported for the public API surface; see [hlooerrors] for definitions.
var (
	ErrDistanceExceedsMax  = hlooerrors.ErrDistanceExceedsMax
	ErrSignatureMismatch   = hlooerrors.ErrSignatureMismatch
	ErrUninitializedVector = hlooerrors.ErrUninitializedVector
	ErrBusy                = hlooerrors.ErrBusy
	ErrInvalidInput        = hlooerrors.ErrInvalidInput
)

type (
	DistanceExceedsMaxError  = hlooerrors.DistanceExceedsMaxError
	SignatureMismatchError   = hlooerrors.SignatureMismatchError
	UninitializedVectorError = hlooerrors.UninitializedVectorError
)
