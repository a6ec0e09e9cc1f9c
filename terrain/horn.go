package terrain

import (
	"math"

	"github.com/sintrastes/mapalgebra"
)

// gradient estimates the elevation surface gradient with Horn's 3×3 weighted
// finite differences. Band 0 is dz/dx toward east (+x), band 1 dz/dy toward
// south (+y). Cells whose window reaches outside the raster come out NaN.
func gradient(elev mapalgebra.Raster[float64], cellSize float64) mapalgebra.Raster[[2]float64] {
	return mapalgebra.Focal(elev, math.NaN(), func(s mapalgebra.Sampler[float64]) [2]float64 {
		upLeft, up, upRight := s(-1, 1), s(-1, 0), s(-1, -1)
		left, right := s(0, 1), s(0, -1)
		downLeft, down, downRight := s(1, 1), s(1, 0), s(1, -1)

		gx := ((upRight + 2*right + downRight) - (upLeft + 2*left + downLeft)) / (8 * cellSize)
		gy := ((downLeft + 2*down + downRight) - (upLeft + 2*up + upRight)) / (8 * cellSize)
		return [2]float64{gx, gy}
	})
}

// SlopeHorn computes the steepest-descent slope angle in radians using
// Horn's method over the 3×3 neighborhood. cellSize is the ground distance
// between adjacent cells in the elevation unit. Border cells are NaN.
func SlopeHorn(elev mapalgebra.Raster[float64], cellSize float64) mapalgebra.Raster[float64] {
	return mapalgebra.Map(gradient(elev, cellSize), func(g [2]float64) float64 {
		return math.Atan(math.Hypot(g[0], g[1]))
	})
}

// Aspect computes the downslope azimuth in radians, clockwise from north in
// [0, 2π). Flat cells (zero gradient) and border cells are NaN.
func Aspect(elev mapalgebra.Raster[float64], cellSize float64) mapalgebra.Raster[float64] {
	return mapalgebra.Map(gradient(elev, cellSize), func(g [2]float64) float64 {
		gx, gy := g[0], g[1]
		if gx == 0 && gy == 0 {
			return math.NaN()
		}
		// Downslope vector is (-gx, -gy) in (east, south) components; as a
		// compass azimuth that is atan2(east, north) = atan2(-gx, gy).
		a := math.Atan2(-gx, gy)
		if a < 0 {
			a += 2 * math.Pi
		}
		return a
	})
}
