package mapalgebra

import "errors"

// A Sampler gives a focal aggregation function access to the neighborhood of
// the cell being computed. Sample(rowOff, colOff) reads the source raster at
// (x − colOff, y + rowOff) relative to that cell: a positive row offset
// samples downward, a positive column offset samples to the left, and
// Sample(0, 0) is the cell itself.
//
// A read that resolves outside the source extent, or that the source reports
// as unavailable (a panic whose value wraps ErrUnavailable), yields the
// default supplied to Focal instead of failing.
type Sampler[T any] func(rowOff, colOff int) T

// Focal supplies a neighborhood-sampling capability to agg and wraps its
// result as a new raster with r's extent. For each demanded cell, agg is
// invoked with a Sampler bound to that cell; whatever agg returns (a scalar,
// or a multi-band value synthesized from several samples) becomes the cell's
// value.
//
// Fault handling is deliberately narrow: only the sample read absorbs
// out-of-range and unavailable conditions, substituting def per sample.
// Failures inside agg's own logic are not the focal combinator's contract and
// propagate to the demander, like any other evaluator fault.
func Focal[A, B any](r Raster[A], def A, agg func(Sampler[A]) B) Raster[B] {
	eval := r.eval
	w, h := r.width, r.height
	return New(w, h, func(x, y int) B {
		sample := Sampler[A](func(rowOff, colOff int) A {
			sx, sy := x-colOff, y+rowOff
			if sx < 0 || sx >= w || sy < 0 || sy >= h {
				return def
			}
			return sampleCell(eval, sx, sy, def)
		})
		return agg(sample)
	})
}

// sampleCell demands one in-range neighborhood cell. A panic whose value is
// an error wrapping ErrUnavailable, the signal sparse sources raise for cells
// that were never populated, is absorbed and replaced with def; any other
// panic continues unwinding.
func sampleCell[A any](eval func(int, int) A, x, y int, def A) (v A) {
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		if err, ok := p.(error); !ok || !errors.Is(err, ErrUnavailable) {
			panic(p)
		}
		v = def
	}()
	return eval(x, y)
}
