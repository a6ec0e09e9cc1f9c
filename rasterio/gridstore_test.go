package rasterio

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/sintrastes/mapalgebra"
)

func tempStorePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "grid.db")
}

func TestGridStore_RoundTrip(t *testing.T) {
	path := tempStorePath(t)

	store, err := CreateGridStore(path, 3, 2, 2)
	if err != nil {
		t.Fatalf("CreateGridStore failed: %v", err)
	}

	rows := map[[2]int][]float64{
		{0, 0}: {1.5, -2.25, math.NaN()},
		{0, 1}: {0, 1e300, -0},
		{1, 0}: {7, 8, 9},
		{1, 1}: {10, 11, 12},
	}
	for key, row := range rows {
		if err := store.WriteRow(key[0], key[1], row); err != nil {
			t.Fatalf("WriteRow%v failed: %v", key, err)
		}
	}
	if err := store.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := OpenGridStore(path)
	if err != nil {
		t.Fatalf("OpenGridStore failed: %v", err)
	}
	defer reopened.Close()

	if w, h := reopened.Size(); w != 3 || h != 2 {
		t.Errorf("size: got %dx%d, want 3x2", w, h)
	}
	if reopened.Bands() != 2 {
		t.Errorf("bands: got %d, want 2", reopened.Bands())
	}

	for key, row := range rows {
		for x, want := range row {
			got, err := reopened.ReadPixel(key[0], x, key[1])
			if err != nil {
				t.Fatalf("ReadPixel(%d,%d,%d) failed: %v", key[0], x, key[1], err)
			}
			if math.IsNaN(want) {
				if !math.IsNaN(got) {
					t.Errorf("band %d (%d,%d): got %v, want NaN", key[0], x, key[1], got)
				}
				continue
			}
			if got != want {
				t.Errorf("band %d (%d,%d): got %v, want %v", key[0], x, key[1], got, want)
			}
		}
	}
}

func TestGridStore_MissingRow(t *testing.T) {
	store, err := CreateGridStore(tempStorePath(t), 2, 3, 1)
	if err != nil {
		t.Fatalf("CreateGridStore failed: %v", err)
	}
	defer store.Close()

	if err := store.WriteRow(0, 0, []float64{1, 2}); err != nil {
		t.Fatalf("WriteRow failed: %v", err)
	}
	if err := store.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	if _, err := store.ReadPixel(0, 0, 0); err != nil {
		t.Errorf("written row: unexpected error %v", err)
	}
	if _, err := store.ReadPixel(0, 1, 2); !errors.Is(err, mapalgebra.ErrUnavailable) {
		t.Errorf("missing row: got %v, want ErrUnavailable", err)
	}
}

func TestGridStore_SparseFocal(t *testing.T) {
	// A partially written store still works as a focal operand: samples
	// that land on missing rows are absorbed into the focal default, while
	// demanding a missing cell directly stays a hard fault.
	store, err := CreateGridStore(tempStorePath(t), 3, 3, 1)
	if err != nil {
		t.Fatalf("CreateGridStore failed: %v", err)
	}
	defer store.Close()

	store.WriteRow(0, 0, []float64{1, 1, 1})
	store.WriteRow(0, 2, []float64{5, 5, 5})
	if err := store.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	band, err := Band(store, 0)
	if err != nil {
		t.Fatalf("Band failed: %v", err)
	}

	sum := mapalgebra.Focal(band, 0, func(s mapalgebra.Sampler[float64]) float64 {
		return s(-1, 0) + s(0, 0) + s(1, 0)
	})
	// Column sum at (0,1): rows 0 and 2 contribute, the missing middle row
	// is absorbed as the default 0.
	if got := sum.At(0, 1); got != 6 {
		t.Errorf("column sum over sparse store: got %v, want 6", got)
	}

	err = Write(band, newMemSink())
	if !errors.Is(err, mapalgebra.ErrUnavailable) {
		t.Errorf("direct write of sparse store: got %v, want ErrUnavailable", err)
	}
}

func TestGridStore_FlushVisibility(t *testing.T) {
	store, err := CreateGridStore(tempStorePath(t), 2, 1, 1)
	if err != nil {
		t.Fatalf("CreateGridStore failed: %v", err)
	}
	defer store.Close()

	if err := store.WriteRow(0, 0, []float64{1, 2}); err != nil {
		t.Fatalf("WriteRow failed: %v", err)
	}

	// Unflushed rows are invisible to reads.
	if _, err := store.ReadPixel(0, 0, 0); !errors.Is(err, mapalgebra.ErrUnavailable) {
		t.Errorf("before flush: got %v, want ErrUnavailable", err)
	}

	if err := store.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	got, err := store.ReadPixel(0, 1, 0)
	if err != nil {
		t.Fatalf("after flush: ReadPixel failed: %v", err)
	}
	if got != 2 {
		t.Errorf("after flush: got %v, want 2", got)
	}
}

func TestGridStore_OverwriteRow(t *testing.T) {
	store, err := CreateGridStore(tempStorePath(t), 2, 1, 1)
	if err != nil {
		t.Fatalf("CreateGridStore failed: %v", err)
	}
	defer store.Close()

	store.WriteRow(0, 0, []float64{1, 2})
	store.Flush()
	if got, _ := store.ReadPixel(0, 0, 0); got != 1 {
		t.Fatalf("first write: got %v, want 1", got)
	}

	// Rewriting a row replaces it and invalidates the read cache.
	store.WriteRow(0, 0, []float64{8, 9})
	store.Flush()
	if got, _ := store.ReadPixel(0, 0, 0); got != 8 {
		t.Errorf("after overwrite: got %v, want 8", got)
	}
}

func TestGridStore_Validation(t *testing.T) {
	store, err := CreateGridStore(tempStorePath(t), 2, 2, 1)
	if err != nil {
		t.Fatalf("CreateGridStore failed: %v", err)
	}
	defer store.Close()

	tests := []struct {
		name string
		call func() error
	}{
		{"bad band write", func() error { return store.WriteRow(1, 0, []float64{1, 2}) }},
		{"bad row write", func() error { return store.WriteRow(0, 2, []float64{1, 2}) }},
		{"bad band read", func() error { _, err := store.ReadPixel(2, 0, 0); return err }},
		{"bad coordinate read", func() error { _, err := store.ReadPixel(0, 5, 0); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, ErrOutOfRange) {
				t.Errorf("got %v, want ErrOutOfRange", err)
			}
		})
	}

	if err := store.WriteRow(0, 0, []float64{1}); err == nil {
		t.Error("short row did not fail")
	}
}

func TestGridStore_InvalidGeometry(t *testing.T) {
	for _, g := range [][3]int{{0, 2, 1}, {2, -1, 1}, {2, 2, 0}} {
		if _, err := CreateGridStore(tempStorePath(t), g[0], g[1], g[2]); err == nil {
			t.Errorf("geometry %v did not fail", g)
		}
	}
}

func TestGridStore_Closed(t *testing.T) {
	store, err := CreateGridStore(tempStorePath(t), 1, 1, 1)
	if err != nil {
		t.Fatalf("CreateGridStore failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := store.ReadPixel(0, 0, 0); !errors.Is(err, ErrClosed) {
		t.Errorf("read after close: got %v, want ErrClosed", err)
	}
	if err := store.WriteRow(0, 0, []float64{1}); !errors.Is(err, ErrClosed) {
		t.Errorf("write after close: got %v, want ErrClosed", err)
	}
	if err := store.Flush(); !errors.Is(err, ErrClosed) {
		t.Errorf("flush after close: got %v, want ErrClosed", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("second close: got %v, want nil", err)
	}
}

func TestGridStore_CreateResetsRows(t *testing.T) {
	path := tempStorePath(t)

	first, err := CreateGridStore(path, 2, 1, 1)
	if err != nil {
		t.Fatalf("CreateGridStore failed: %v", err)
	}
	first.WriteRow(0, 0, []float64{1, 2})
	first.Flush()
	first.Close()

	second, err := CreateGridStore(path, 2, 1, 1)
	if err != nil {
		t.Fatalf("second CreateGridStore failed: %v", err)
	}
	defer second.Close()

	if _, err := second.ReadPixel(0, 0, 0); !errors.Is(err, mapalgebra.ErrUnavailable) {
		t.Errorf("recreated store kept old rows: %v", err)
	}
}

func TestOpenGridStore_NotAStore(t *testing.T) {
	if _, err := OpenGridStore(filepath.Join(t.TempDir(), "empty.db")); err == nil {
		t.Error("opening a database without grid metadata succeeded")
	}
}
