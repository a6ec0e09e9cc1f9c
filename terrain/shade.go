package terrain

import (
	"math"

	"github.com/sintrastes/mapalgebra"
)

// Hillshade renders analytical shaded relief for a sun at the given position.
// azimuthDeg is the sun's compass bearing in degrees clockwise from north,
// altitudeDeg its angle above the horizon. Cell values are illumination in
// [0, 255]; border cells are NaN.
func Hillshade(elev mapalgebra.Raster[float64], cellSize, azimuthDeg, altitudeDeg float64) mapalgebra.Raster[float64] {
	azimuth := azimuthDeg * math.Pi / 180
	zenith := (90 - altitudeDeg) * math.Pi / 180

	slope := SlopeHorn(elev, cellSize)
	aspect := Aspect(elev, cellSize)
	return mapalgebra.Zip(slope, aspect, func(sl, as float64) float64 {
		if math.IsNaN(sl) {
			return math.NaN()
		}
		// Flat cells have no aspect; the sin(sl) term vanishes there.
		v := math.Cos(zenith) * math.Cos(sl)
		if sl > 0 {
			v += math.Sin(zenith) * math.Sin(sl) * math.Cos(azimuth-as)
		}
		if v < 0 {
			return 0
		}
		return 255 * v
	})
}
