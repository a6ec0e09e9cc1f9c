package mapalgebra

// Map lifts a pure scalar function into a cell-wise raster transform. The
// result has r's extent and evaluates f(r.At(x,y)) on demand; f runs once per
// demand of a given cell, never at construction time.
func Map[A, B any](r Raster[A], f func(A) B) Raster[B] {
	eval := r.eval
	return New(r.width, r.height, func(x, y int) B {
		return f(eval(x, y))
	})
}

// Zip lifts a two-argument scalar function into an elementwise transform of
// two rasters. Both operands must share one extent; Zip panics with
// ErrDimensionMismatch otherwise. The result evaluates
// f(a.At(x,y), b.At(x,y)) on demand.
func Zip[A, B, C any](a Raster[A], b Raster[B], f func(A, B) C) Raster[C] {
	if !sameExtent(a, b) {
		panic(ErrDimensionMismatch)
	}
	evalA, evalB := a.eval, b.eval
	return New(a.width, a.height, func(x, y int) C {
		return f(evalA(x, y), evalB(x, y))
	})
}

// ZipConst lifts a two-argument scalar function into a raster-constant
// transform. The constant is always passed as f's first argument and the
// cell value as its second: the result evaluates f(c, r.At(x,y)). Callers
// composing non-commutative operators choose f accordingly; the order-faithful
// wrappers in this package (SubConst, ConstSub and the rest) do exactly that.
func ZipConst[A, B, C any](c A, r Raster[B], f func(A, B) C) Raster[C] {
	eval := r.eval
	return New(r.width, r.height, func(x, y int) C {
		return f(c, eval(x, y))
	})
}

// Crop returns a width×height window of r with its origin at (x0, y0). The
// window's cell (x, y) reads r at (x0+x, y0+y); evaluation stays lazy, so
// cropping costs nothing until cells are demanded. Crop panics with ErrWindow
// if the window is empty or reaches outside r's extent.
func Crop[T any](r Raster[T], x0, y0, width, height int) Raster[T] {
	if x0 < 0 || y0 < 0 || width <= 0 || height <= 0 ||
		x0+width > r.width || y0+height > r.height {
		panic(ErrWindow)
	}
	eval := r.eval
	return New(width, height, func(x, y int) T {
		return eval(x0+x, y0+y)
	})
}
