package terrain

import (
	"math"

	"github.com/sintrastes/mapalgebra"
)

// DefaultSpacing is the nominal ground distance between adjacent cells, in
// the same linear unit as the elevation values. It matches a 30 m sample
// distance and is not derived from any georeferencing.
const DefaultSpacing = 30.0

// Slope computes the anisotropic slope of an elevation raster: for each cell
// it samples the four axis-aligned unit neighbors and emits one band per
// direction, in the order up, down, left, right, each valued
//
//	atan((neighbor − center) / spacing)
//
// so positive angles point uphill along that axis. Neighbors outside the
// raster sample as NaN, which makes the corresponding band NaN along the
// matching border.
func Slope(elev mapalgebra.Raster[float64], spacing float64) mapalgebra.Raster[[4]float64] {
	return mapalgebra.Focal(elev, math.NaN(), func(s mapalgebra.Sampler[float64]) [4]float64 {
		center := s(0, 0)
		return [4]float64{
			math.Atan((s(-1, 0) - center) / spacing),
			math.Atan((s(1, 0) - center) / spacing),
			math.Atan((s(0, 1) - center) / spacing),
			math.Atan((s(0, -1) - center) / spacing),
		}
	})
}
