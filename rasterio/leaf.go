package rasterio

import (
	"fmt"

	"github.com/sintrastes/mapalgebra"
)

// ReadError is the panic value raised by leaf evaluators when a Source read
// fails. It records which pixel was being demanded and wraps the Source's
// error, so errors.Is sees through it to sentinels such as
// mapalgebra.ErrUnavailable.
type ReadError struct {
	Band int
	X, Y int
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("rasterio: read band %d pixel (%d,%d): %v", e.Band, e.X, e.Y, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Band wraps one band of a source as a lazy scalar raster.
//
// The source is not touched here; its pixels are read as cells are demanded,
// and a read failure panics with a *ReadError carrying the pixel position.
// The source must stay open for as long as the raster, or anything derived
// from it, is demanded.
func Band(src Source, band int) (mapalgebra.Raster[float64], error) {
	if band < 0 || band >= src.Bands() {
		return mapalgebra.Raster[float64]{}, fmt.Errorf("rasterio: band %d of %d: %w", band, src.Bands(), ErrOutOfRange)
	}
	w, h := src.Size()
	return mapalgebra.New(w, h, func(x, y int) float64 {
		v, err := src.ReadPixel(band, x, y)
		if err != nil {
			panic(&ReadError{Band: band, X: x, Y: y, Err: err})
		}
		return v
	}), nil
}

// Multiband wraps all bands of a source as a lazy vector raster. Each demand
// reads the full band stack for that pixel, in band order.
func Multiband(src Source) mapalgebra.Raster[[]float64] {
	w, h := src.Size()
	bands := src.Bands()
	return mapalgebra.New(w, h, func(x, y int) []float64 {
		cell := make([]float64, bands)
		for b := range cell {
			v, err := src.ReadPixel(b, x, y)
			if err != nil {
				panic(&ReadError{Band: b, X: x, Y: y, Err: err})
			}
			cell[b] = v
		}
		return cell
	})
}
