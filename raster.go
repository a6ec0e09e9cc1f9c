package mapalgebra

import "fmt"

// A Raster is a rectangular grid of cells with a lazy per-cell evaluator.
//
// Rasters are immutable values: combinators never modify their operands, they
// construct new rasters whose evaluators close over the operands' evaluators.
// A raster may appear as an operand of any number of derived rasters, forming
// a directed acyclic composition graph that is walked anew on every demand.
//
// The zero Raster has no evaluator and must not be used; construct rasters
// with New or with a combinator.
type Raster[T any] struct {
	width  int
	height int
	eval   func(x, y int) T
}

// New constructs a raster from an extent and an evaluator.
//
// The evaluator is trusted: it must be pure, and it is only ever handed
// coordinates the caller demands. New panics if either dimension is not
// positive or if eval is nil; both are programmer errors, not runtime
// conditions.
//
// This is the single entry point for leaf evaluators (typically closures
// over a rasterio.Source) as well as the primitive every combinator in this
// package is built on.
func New[T any](width, height int, eval func(x, y int) T) Raster[T] {
	if width <= 0 || height <= 0 {
		panic(fmt.Errorf("mapalgebra: invalid extent %dx%d", width, height))
	}
	if eval == nil {
		panic(fmt.Errorf("mapalgebra: nil evaluator"))
	}
	return Raster[T]{width: width, height: height, eval: eval}
}

// Width returns the number of cells per row.
func (r Raster[T]) Width() int { return r.width }

// Height returns the number of rows.
func (r Raster[T]) Height() int { return r.height }

// At demands the value of one cell, evaluating the full composition chain
// behind this raster for (x, y). Coordinates outside [0,Width())×[0,Height())
// are the caller's responsibility: At forwards them to the evaluator
// unchecked, and leaf evaluators are free to fail on them.
func (r Raster[T]) At(x, y int) T { return r.eval(x, y) }

// sameExtent reports whether two extents agree. Combinators that require
// equal extents treat disagreement as a precondition failure.
func sameExtent[A, B any](a Raster[A], b Raster[B]) bool {
	return a.width == b.width && a.height == b.height
}
