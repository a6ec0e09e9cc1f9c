package mapalgebra

import "math"

// Elementwise arithmetic between two scalar rasters. Each is a Zip instance
// and inherits its extent precondition: operands must match, or the call
// panics with ErrDimensionMismatch.

// Add returns a + b elementwise.
func Add(a, b Raster[float64]) Raster[float64] {
	return Zip(a, b, func(x, y float64) float64 { return x + y })
}

// Sub returns a - b elementwise.
func Sub(a, b Raster[float64]) Raster[float64] {
	return Zip(a, b, func(x, y float64) float64 { return x - y })
}

// Mul returns a * b elementwise.
func Mul(a, b Raster[float64]) Raster[float64] {
	return Zip(a, b, func(x, y float64) float64 { return x * y })
}

// Div returns a / b elementwise. Division by zero follows IEEE 754: the
// resulting cells are ±Inf or NaN, not faults.
func Div(a, b Raster[float64]) Raster[float64] {
	return Zip(a, b, func(x, y float64) float64 { return x / y })
}

// Raster-constant arithmetic. The pairs below exist because subtraction,
// division and exponentiation are not commutative: SubConst is r - c while
// ConstSub is c - r, and so on. Each fixes an operand order and keeps it.

// AddConst returns r + c elementwise.
func AddConst(r Raster[float64], c float64) Raster[float64] {
	return ZipConst(c, r, func(c, v float64) float64 { return v + c })
}

// MulConst returns r * c elementwise.
func MulConst(r Raster[float64], c float64) Raster[float64] {
	return ZipConst(c, r, func(c, v float64) float64 { return v * c })
}

// SubConst returns r - c elementwise.
func SubConst(r Raster[float64], c float64) Raster[float64] {
	return ZipConst(c, r, func(c, v float64) float64 { return v - c })
}

// ConstSub returns c - r elementwise.
func ConstSub(c float64, r Raster[float64]) Raster[float64] {
	return ZipConst(c, r, func(c, v float64) float64 { return c - v })
}

// DivConst returns r / c elementwise.
func DivConst(r Raster[float64], c float64) Raster[float64] {
	return ZipConst(c, r, func(c, v float64) float64 { return v / c })
}

// ConstDiv returns c / r elementwise.
func ConstDiv(c float64, r Raster[float64]) Raster[float64] {
	return ZipConst(c, r, func(c, v float64) float64 { return c / v })
}

// PowConst returns r^c elementwise.
func PowConst(r Raster[float64], c float64) Raster[float64] {
	return ZipConst(c, r, func(c, v float64) float64 { return math.Pow(v, c) })
}

// ConstPow returns c^r elementwise.
func ConstPow(c float64, r Raster[float64]) Raster[float64] {
	return ZipConst(c, r, func(c, v float64) float64 { return math.Pow(c, v) })
}

// Transcendental wrappers, all plain Map instances over math.

// Cos returns cos(r) elementwise.
func Cos(r Raster[float64]) Raster[float64] { return Map(r, math.Cos) }

// Sin returns sin(r) elementwise.
func Sin(r Raster[float64]) Raster[float64] { return Map(r, math.Sin) }

// Tan returns tan(r) elementwise.
func Tan(r Raster[float64]) Raster[float64] { return Map(r, math.Tan) }

// Atan returns arctan(r) elementwise.
func Atan(r Raster[float64]) Raster[float64] { return Map(r, math.Atan) }

// Log returns the natural logarithm of r elementwise.
func Log(r Raster[float64]) Raster[float64] { return Map(r, math.Log) }

// Exp returns e^r elementwise.
func Exp(r Raster[float64]) Raster[float64] { return Map(r, math.Exp) }

// Sqrt returns the square root of r elementwise.
func Sqrt(r Raster[float64]) Raster[float64] { return Map(r, math.Sqrt) }
