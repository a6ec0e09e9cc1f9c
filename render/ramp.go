package render

import (
	"fmt"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// A Ramp maps normalized values in [0, 1] onto a sequence of evenly spaced
// color stops, blending between adjacent stops in Lab space.
type Ramp struct {
	stops []colorful.Color
}

// NewRamp builds a ramp from hex stops such as "#2166ac". At least two stops
// are required.
func NewRamp(stops ...string) (Ramp, error) {
	if len(stops) < 2 {
		return Ramp{}, fmt.Errorf("render: ramp needs at least two stops, got %d", len(stops))
	}
	cs := make([]colorful.Color, len(stops))
	for i, s := range stops {
		c, err := colorful.Hex(s)
		if err != nil {
			return Ramp{}, fmt.Errorf("render: ramp stop %d: %w", i, err)
		}
		cs[i] = c
	}
	return Ramp{stops: cs}, nil
}

func mustRamp(stops ...string) Ramp {
	r, err := NewRamp(stops...)
	if err != nil {
		panic(err)
	}
	return r
}

var (
	// Gray runs black to white.
	Gray = mustRamp("#000000", "#ffffff")

	// Terrain runs lowland green over tan and brown to summit white.
	Terrain = mustRamp("#228b22", "#dac07c", "#8b4513", "#ffffff")

	// BlueRed is a diverging ramp for signed data, white at the center.
	BlueRed = mustRamp("#2166ac", "#f7f7f7", "#b2182b")
)

// At returns the color for t, clamped to [0, 1]. NaN is treated as 0.
func (r Ramp) At(t float64) color.NRGBA {
	if math.IsNaN(t) || t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	pos := t * float64(len(r.stops)-1)
	i := int(pos)
	if i >= len(r.stops)-1 {
		i = len(r.stops) - 2
	}
	blended := r.stops[i].BlendLab(r.stops[i+1], pos-float64(i)).Clamped()
	r8, g8, b8 := blended.RGB255()
	return color.NRGBA{R: r8, G: g8, B: b8, A: 255}
}
