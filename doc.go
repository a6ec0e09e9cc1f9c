// Package mapalgebra provides a lazy, composable algebra over raster grids.
//
// A Raster is an immutable descriptor: a grid extent plus a pure per-cell
// evaluator. Combinators build derived rasters by wrapping evaluators in new
// evaluators, so arbitrarily deep expressions over large grids cost nothing
// until individual cells are demanded. Nothing in this package reads or
// writes files; leaf rasters backed by storage are constructed by the
// rasterio package, and derived grids are materialized by its write drivers.
//
// # Evaluation Model
//
// Constructing a combinator never invokes an evaluator. A call to At walks
// the composition chain for exactly that cell:
//
//	sum := mapalgebra.Add(a, b)        // no cells evaluated
//	v := sum.At(3, 7)                  // evaluates a.At(3,7) and b.At(3,7)
//
// There is no memoization: demanding the same cell twice recomputes the whole
// chain. Evaluators must therefore be pure, side-effect-free and returning
// equal values for equal coordinates, or composition and re-reads stop being
// equivalent.
//
// # Coordinate System
//
// Cells are addressed by 0-based (x, y) with x growing rightward and y
// downward, matching the usual raster row/column layout. Valid coordinates
// are [0,width) × [0,height).
//
// # Cell Values
//
// The cell type is a type parameter. Scalar grids are Raster[float64];
// multi-band grids carry a slice or fixed-size array per cell, e.g.
// Raster[[4]float64]. Band arity is uniform across a raster by contract, not
// by construction: combinators assume compatible arity and do not check it.
//
// # Errors
//
// Extent disagreement in Zip and escaping windows in Crop are precondition
// violations and panic with ErrDimensionMismatch and ErrWindow respectively.
// Faults raised inside user evaluators propagate to whoever demanded the
// cell. The one intentional recovery point is the focal sampler: out-of-range
// neighborhood reads, and reads whose panic value wraps ErrUnavailable, yield
// the caller-supplied default instead. See Focal.
package mapalgebra
