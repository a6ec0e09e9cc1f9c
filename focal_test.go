package mapalgebra

import (
	"errors"
	"fmt"
	"testing"
)

func TestFocal_SamplerConvention(t *testing.T) {
	// Sample(rowOff, colOff) reads (x - colOff, y + rowOff).
	r := gridRaster([][]float64{
		{0, 1, 2},
		{10, 11, 12},
		{20, 21, 22},
	})

	tests := []struct {
		name           string
		rowOff, colOff int
		want           float64
	}{
		{"center", 0, 0, 11},
		{"down", 1, 0, 21},
		{"up", -1, 0, 1},
		{"left", 0, 1, 10},
		{"right", 0, -1, 12},
		{"down-left", 1, 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Focal(r, -1, func(s Sampler[float64]) float64 {
				return s(tt.rowOff, tt.colOff)
			})
			if got := d.At(1, 1); got != tt.want {
				t.Errorf("sample(%d,%d) at (1,1): got %v, want %v",
					tt.rowOff, tt.colOff, got, tt.want)
			}
		})
	}
}

func TestFocal_BoundaryDefault(t *testing.T) {
	// An offset of (0, 5) resolves out of range for every cell of a 3x3
	// raster; the sampler must yield the default, never a fault.
	r := constRaster(3, 3, 1)
	d := Focal(r, -1.0, func(s Sampler[float64]) float64 {
		return s(0, 5)
	})

	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if got := d.At(x, y); got != -1 {
				t.Errorf("At(%d,%d): got %v, want -1", x, y, got)
			}
		}
	}
}

func TestFocal_EdgeCellsUseDefault(t *testing.T) {
	// A unit-offset read is out of range only along the matching border.
	r := constRaster(3, 3, 7)
	left := Focal(r, 0.0, func(s Sampler[float64]) float64 {
		return s(0, 1) // (x-1, y)
	})

	if got := left.At(0, 1); got != 0 {
		t.Errorf("border cell: got %v, want default 0", got)
	}
	if got := left.At(1, 1); got != 7 {
		t.Errorf("interior cell: got %v, want 7", got)
	}
}

func TestFocal_ExtentPreserved(t *testing.T) {
	r := constRaster(4, 2, 1)
	d := Focal(r, 0.0, func(s Sampler[float64]) float64 { return s(0, 0) })

	if d.Width() != 4 || d.Height() != 2 {
		t.Errorf("extent: got %dx%d, want 4x2", d.Width(), d.Height())
	}
}

func TestFocal_MultibandSynthesis(t *testing.T) {
	r := gridRaster([][]float64{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	})
	pair := Focal(r, -1.0, func(s Sampler[float64]) [2]float64 {
		return [2]float64{s(0, 0), s(-1, 0)}
	})

	got := pair.At(1, 1)
	if got != [2]float64{5, 2} {
		t.Errorf("At(1,1): got %v, want [5 2]", got)
	}
	if got := pair.At(1, 0); got != [2]float64{2, -1} {
		t.Errorf("At(1,0): got %v, want [2 -1]", got)
	}
}

func TestFocal_AbsorbsUnavailable(t *testing.T) {
	// A read primitive may signal per-cell unavailability by panicking with
	// an error wrapping ErrUnavailable; the sampler substitutes the default
	// for exactly that signal.
	r := New(3, 3, func(x, y int) float64 {
		if x == 1 && y == 1 {
			panic(fmt.Errorf("row 1 missing: %w", ErrUnavailable))
		}
		return 5
	})
	d := Focal(r, -1.0, func(s Sampler[float64]) float64 {
		return s(0, 0)
	})

	if got := d.At(1, 1); got != -1 {
		t.Errorf("unavailable cell: got %v, want default -1", got)
	}
	if got := d.At(0, 0); got != 5 {
		t.Errorf("live cell: got %v, want 5", got)
	}
}

func TestFocal_OtherFaultsPropagate(t *testing.T) {
	boom := errors.New("corrupt block")
	r := New(2, 2, func(x, y int) float64 {
		panic(boom)
	})
	d := Focal(r, 0.0, func(s Sampler[float64]) float64 {
		return s(0, 0)
	})

	defer func() {
		p := recover()
		if p == nil {
			t.Fatal("unrelated evaluator fault was absorbed")
		}
		if err, ok := p.(error); !ok || !errors.Is(err, boom) {
			t.Fatalf("panic value: got %v, want %v", p, boom)
		}
	}()
	d.At(0, 0)
}

func TestFocal_AggregatorFaultsPropagate(t *testing.T) {
	r := constRaster(2, 2, 1)
	d := Focal(r, 0.0, func(s Sampler[float64]) float64 {
		panic("aggregation bug")
	})

	defer func() {
		if p := recover(); p == nil {
			t.Fatal("aggregator fault was absorbed")
		}
	}()
	d.At(0, 0)
}
