package terrain

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/sintrastes/mapalgebra"
)

// window collects the finite values of the (2·radius+1)² neighborhood around
// the focal cell. Out-of-range samples arrive as the focal default (NaN here)
// and are dropped along with NaN data cells.
func window(s mapalgebra.Sampler[float64], radius int) []float64 {
	side := 2*radius + 1
	vals := make([]float64, 0, side*side)
	for row := -radius; row <= radius; row++ {
		for col := -radius; col <= radius; col++ {
			if v := s(row, col); !math.IsNaN(v) {
				vals = append(vals, v)
			}
		}
	}
	return vals
}

func checkRadius(radius int) {
	if radius < 1 {
		panic(fmt.Errorf("terrain: invalid window radius %d", radius))
	}
}

// FocalMean replaces each cell with the mean of its square window. NaN cells
// are excluded; a window with no finite values yields NaN.
func FocalMean(r mapalgebra.Raster[float64], radius int) mapalgebra.Raster[float64] {
	checkRadius(radius)
	return mapalgebra.Focal(r, math.NaN(), func(s mapalgebra.Sampler[float64]) float64 {
		vals := window(s, radius)
		if len(vals) == 0 {
			return math.NaN()
		}
		return stat.Mean(vals, nil)
	})
}

// FocalMin replaces each cell with the minimum of its square window, skipping
// NaN cells.
func FocalMin(r mapalgebra.Raster[float64], radius int) mapalgebra.Raster[float64] {
	checkRadius(radius)
	return mapalgebra.Focal(r, math.NaN(), func(s mapalgebra.Sampler[float64]) float64 {
		vals := window(s, radius)
		if len(vals) == 0 {
			return math.NaN()
		}
		return floats.Min(vals)
	})
}

// FocalMax replaces each cell with the maximum of its square window, skipping
// NaN cells.
func FocalMax(r mapalgebra.Raster[float64], radius int) mapalgebra.Raster[float64] {
	checkRadius(radius)
	return mapalgebra.Focal(r, math.NaN(), func(s mapalgebra.Sampler[float64]) float64 {
		vals := window(s, radius)
		if len(vals) == 0 {
			return math.NaN()
		}
		return floats.Max(vals)
	})
}

// Roughness is the elevation range of the 3×3 window, the conventional
// roughness index.
func Roughness(elev mapalgebra.Raster[float64]) mapalgebra.Raster[float64] {
	return mapalgebra.Focal(elev, math.NaN(), func(s mapalgebra.Sampler[float64]) float64 {
		vals := window(s, 1)
		if len(vals) == 0 {
			return math.NaN()
		}
		return floats.Max(vals) - floats.Min(vals)
	})
}

// TRI is the terrain ruggedness index: the mean absolute difference between a
// cell and its eight neighbors. Cells with no finite neighbors, and NaN cells
// themselves, yield NaN.
func TRI(elev mapalgebra.Raster[float64]) mapalgebra.Raster[float64] {
	return mapalgebra.Focal(elev, math.NaN(), func(s mapalgebra.Sampler[float64]) float64 {
		center := s(0, 0)
		if math.IsNaN(center) {
			return math.NaN()
		}
		sum, n := 0.0, 0
		for row := -1; row <= 1; row++ {
			for col := -1; col <= 1; col++ {
				if row == 0 && col == 0 {
					continue
				}
				if v := s(row, col); !math.IsNaN(v) {
					sum += math.Abs(v - center)
					n++
				}
			}
		}
		if n == 0 {
			return math.NaN()
		}
		return sum / float64(n)
	})
}

// TPI is the topographic position index: a cell's elevation minus the mean of
// its eight neighbors. Positive values sit above their surroundings, negative
// below.
func TPI(elev mapalgebra.Raster[float64]) mapalgebra.Raster[float64] {
	return mapalgebra.Focal(elev, math.NaN(), func(s mapalgebra.Sampler[float64]) float64 {
		center := s(0, 0)
		if math.IsNaN(center) {
			return math.NaN()
		}
		sum, n := 0.0, 0
		for row := -1; row <= 1; row++ {
			for col := -1; col <= 1; col++ {
				if row == 0 && col == 0 {
					continue
				}
				if v := s(row, col); !math.IsNaN(v) {
					sum += v
					n++
				}
			}
		}
		if n == 0 {
			return math.NaN()
		}
		return center - sum/float64(n)
	})
}
