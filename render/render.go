package render

import (
	"fmt"
	"image"
	"math"
	"runtime"
	"sort"

	"github.com/anthonynsimon/bild/imgio"
	"gonum.org/v1/gonum/stat"

	"github.com/sintrastes/mapalgebra"
)

// recoverEvalFault converts an error-valued evaluator panic into the
// returned error, mirroring the write drivers. Runtime errors and non-error
// panics are re-raised.
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

// Render paints a scalar raster onto a ramp, mapping [lo, hi] linearly to
// [0, 1]. Values outside the range take the ramp's end stops; NaN cells come
// out fully transparent. Render demands every cell, so evaluator faults
// surface as the returned error.
func Render(r mapalgebra.Raster[float64], ramp Ramp, lo, hi float64) (img *image.NRGBA, err error) {
	defer recoverEvalFault(&err)

	if !(hi > lo) {
		return nil, fmt.Errorf("render: invalid display range [%v, %v]", lo, hi)
	}
	img = image.NewNRGBA(image.Rect(0, 0, r.Width(), r.Height()))
	span := hi - lo
	for y := 0; y < r.Height(); y++ {
		for x := 0; x < r.Width(); x++ {
			v := r.At(x, y)
			if math.IsNaN(v) {
				continue // zero pixel, fully transparent
			}
			img.SetNRGBA(x, y, ramp.At((v-lo)/span))
		}
	}
	return img, nil
}

// Stretch scans the raster and returns the plo and phi percentiles of its
// finite cells, a robust display range for Render. Percentiles are given in
// [0, 100] with plo < phi.
func Stretch(r mapalgebra.Raster[float64], plo, phi float64) (lo, hi float64, err error) {
	defer recoverEvalFault(&err)

	if plo < 0 || phi > 100 || !(plo < phi) {
		return 0, 0, fmt.Errorf("render: invalid percentile range [%v, %v]", plo, phi)
	}
	vals := make([]float64, 0, r.Width()*r.Height())
	for y := 0; y < r.Height(); y++ {
		for x := 0; x < r.Width(); x++ {
			if v := r.At(x, y); !math.IsNaN(v) {
				vals = append(vals, v)
			}
		}
	}
	if len(vals) == 0 {
		return 0, 0, fmt.Errorf("render: raster has no finite cells")
	}
	sort.Float64s(vals)

	lo = stat.Quantile(plo/100, stat.Empirical, vals, nil)
	hi = stat.Quantile(phi/100, stat.Empirical, vals, nil)
	if lo == hi {
		// Constant data still needs a non-empty range; center it on the ramp.
		lo, hi = lo-0.5, hi+0.5
	}
	return lo, hi, nil
}

// Save encodes an image as PNG.
func Save(path string, img image.Image) error {
	return imgio.Save(path, img, imgio.PNGEncoder())
}

// SaveJPEG encodes an image as JPEG with the given quality in (0, 100].
// JPEG has no alpha, so transparent NaN cells are composited onto black.
func SaveJPEG(path string, img image.Image, quality int) error {
	return imgio.Save(path, img, imgio.JPEGEncoder(quality))
}
