package rasterio

import (
	"fmt"
	"runtime"

	"github.com/sintrastes/mapalgebra"
)

// recoverEvalFault converts an error-valued panic from an evaluator into the
// driver's returned error. Runtime errors and non-error panics are genuine
// bugs and are re-raised.
func recoverEvalFault(errp *error) {
	p := recover()
	if p == nil {
		return
	}
	if _, ok := p.(runtime.Error); ok {
		panic(p)
	}
	err, ok := p.(error)
	if !ok {
		panic(p)
	}
	*errp = err
}

// Write evaluates a scalar raster row by row into band 0 of a sink and
// flushes it. It is the usual demand site for a composed raster: evaluator
// faults raised anywhere in the composition, such as a *ReadError from a
// leaf, come back as the returned error.
func Write(r mapalgebra.Raster[float64], dst Sink) (err error) {
	defer recoverEvalFault(&err)

	row := make([]float64, r.Width())
	for y := 0; y < r.Height(); y++ {
		for x := range row {
			row[x] = r.At(x, y)
		}
		if werr := dst.WriteRow(0, y, row); werr != nil {
			return fmt.Errorf("rasterio: write row %d: %w", y, werr)
		}
	}
	return dst.Flush()
}

// WriteMultiband evaluates a vector raster into a sink, scattering each
// cell's values across the given number of bands. Cells whose arity differs
// from bands fail the write.
func WriteMultiband(r mapalgebra.Raster[[]float64], dst Sink, bands int) (err error) {
	defer recoverEvalFault(&err)

	if bands < 1 {
		return fmt.Errorf("rasterio: invalid band count %d", bands)
	}
	rows := make([][]float64, bands)
	for b := range rows {
		rows[b] = make([]float64, r.Width())
	}
	for y := 0; y < r.Height(); y++ {
		for x := 0; x < r.Width(); x++ {
			cell := r.At(x, y)
			if len(cell) != bands {
				return fmt.Errorf("rasterio: cell (%d,%d) has %d values, want %d", x, y, len(cell), bands)
			}
			for b, v := range cell {
				rows[b][x] = v
			}
		}
		for b := range rows {
			if werr := dst.WriteRow(b, y, rows[b]); werr != nil {
				return fmt.Errorf("rasterio: write band %d row %d: %w", b, y, werr)
			}
		}
	}
	return dst.Flush()
}
