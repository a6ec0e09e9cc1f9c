package mapalgebra

import "errors"

var (
	// ErrDimensionMismatch is the panic value raised when two rasters with
	// different extents are combined elementwise. Operand extents are a
	// precondition of Zip, not a recoverable condition.
	ErrDimensionMismatch = errors.New("mapalgebra: raster dimensions do not match")

	// ErrWindow is the panic value raised by Crop when the requested window
	// is empty or not contained in the source extent.
	ErrWindow = errors.New("mapalgebra: window outside raster extent")

	// ErrUnavailable marks a cell read that is legitimately unavailable, as
	// opposed to failed. Leaf evaluators signal it by panicking with an error
	// wrapping ErrUnavailable; the focal sampler substitutes its default for
	// exactly such reads and lets every other fault propagate.
	ErrUnavailable = errors.New("mapalgebra: cell unavailable")
)
