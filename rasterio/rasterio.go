package rasterio

import "errors"

var (
	// ErrClosed is returned by operations on a closed backend.
	ErrClosed = errors.New("rasterio: backend closed")

	// ErrOutOfRange is returned when a band index or pixel coordinate falls
	// outside the backend's extent.
	ErrOutOfRange = errors.New("rasterio: out of range")
)

// A Source exposes stored pixel data one value at a time.
//
// Sources are deliberately minimal: the algebra demands single cells, so the
// contract is a single-pixel read plus the extent metadata needed to size the
// leaf raster. Implementations may cache internally, but a Source must return
// the same value for the same (band, x, y) for as long as it is open.
type Source interface {
	// Size returns the pixel extent.
	Size() (width, height int)

	// Bands returns the number of bands, at least 1. Band indices are
	// 0-based.
	Bands() int

	// ReadPixel returns the value of one pixel. Coordinates outside the
	// extent fail with an error wrapping ErrOutOfRange.
	ReadPixel(band, x, y int) (float64, error)

	// Close releases the backend. Reads after Close fail with ErrClosed.
	Close() error
}

// A Sink accepts pixel data row by row.
//
// Rows may arrive in any order and bands may be interleaved, but every cell
// of the declared extent should be written exactly once. Flush makes the
// written rows durable; what Close does with unflushed rows is up to the
// implementation.
type Sink interface {
	// WriteRow stores one row of one band. The row slice is not retained.
	WriteRow(band, y int, row []float64) error

	// Flush commits everything written so far.
	Flush() error

	// Close releases the backend. Writes after Close fail with ErrClosed.
	Close() error
}
