package rasterio

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/tiff"
)

// ImageSource adapts a decoded image file as a pixel source.
//
// Band layout depends on the image's color model:
//   - 8-bit grayscale: one band, values 0-255
//   - 16-bit grayscale: one band, values 0-65535
//   - everything else: three bands holding red, green and blue, 0-255
type ImageSource struct {
	img    image.Image
	bounds image.Rectangle
	bands  int
	closed bool
}

// OpenImage decodes an image file into a Source. PNG, JPEG, GIF, TIFF and
// BMP are supported. The whole image is held in memory, so per-pixel reads
// never fail for I/O reasons once the source is open.
func OpenImage(path string) (*ImageSource, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rasterio: open %s: %w", path, err)
	}

	bands := 3
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		bands = 1
	}
	return &ImageSource{img: img, bounds: img.Bounds(), bands: bands}, nil
}

// Size returns the pixel extent.
func (s *ImageSource) Size() (int, int) {
	return s.bounds.Dx(), s.bounds.Dy()
}

// Bands returns 1 for grayscale images and 3 otherwise.
func (s *ImageSource) Bands() int { return s.bands }

// ReadPixel returns one sample of the decoded image.
func (s *ImageSource) ReadPixel(band, x, y int) (float64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if band < 0 || band >= s.bands || x < 0 || x >= s.bounds.Dx() || y < 0 || y >= s.bounds.Dy() {
		return 0, fmt.Errorf("rasterio: band %d pixel (%d,%d): %w", band, x, y, ErrOutOfRange)
	}

	px, py := s.bounds.Min.X+x, s.bounds.Min.Y+y
	switch img := s.img.(type) {
	case *image.Gray:
		return float64(img.GrayAt(px, py).Y), nil
	case *image.Gray16:
		return float64(img.Gray16At(px, py).Y), nil
	default:
		r, g, b, _ := img.At(px, py).RGBA()
		// RGBA returns 16-bit samples; scale back to 8-bit.
		switch band {
		case 0:
			return float64(r >> 8), nil
		case 1:
			return float64(g >> 8), nil
		default:
			return float64(b >> 8), nil
		}
	}
}

// Close drops the decoded image. Subsequent reads fail with ErrClosed.
func (s *ImageSource) Close() error {
	s.img = nil
	s.closed = true
	return nil
}

// PixelDepth selects the sample width of an ImageSink.
type PixelDepth int

const (
	// Gray8 stores one band quantized to 0-255.
	Gray8 PixelDepth = iota
	// Gray16 stores one band quantized to 0-65535.
	Gray16
)

// ImageSink collects a single-band raster into a grayscale image and encodes
// it on Flush. Values are rounded to the nearest level and clamped to the
// depth's range; NaN becomes 0.
type ImageSink struct {
	path   string
	gray8  *image.Gray
	gray16 *image.Gray16
	width  int
	height int
	closed bool
}

// CreateImage prepares an image sink for the given extent. The encoding is
// chosen by the path's extension: .png, .tif or .tiff. Nothing is written
// until Flush.
func CreateImage(path string, width, height int, depth PixelDepth) (*ImageSink, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("rasterio: invalid extent %dx%d", width, height)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png", ".tif", ".tiff":
	default:
		return nil, fmt.Errorf("rasterio: unsupported image extension %q", ext)
	}

	s := &ImageSink{path: path, width: width, height: height}
	rect := image.Rect(0, 0, width, height)
	switch depth {
	case Gray8:
		s.gray8 = image.NewGray(rect)
	case Gray16:
		s.gray16 = image.NewGray16(rect)
	default:
		return nil, fmt.Errorf("rasterio: unknown pixel depth %d", depth)
	}
	return s, nil
}

// WriteRow quantizes one row into the image. Only band 0 exists.
func (s *ImageSink) WriteRow(band, y int, row []float64) error {
	if s.closed {
		return ErrClosed
	}
	if band != 0 || y < 0 || y >= s.height {
		return fmt.Errorf("rasterio: band %d row %d: %w", band, y, ErrOutOfRange)
	}
	if len(row) != s.width {
		return fmt.Errorf("rasterio: row %d has %d cells, want %d", y, len(row), s.width)
	}

	for x, v := range row {
		if s.gray8 != nil {
			s.gray8.SetGray(x, y, color.Gray{Y: uint8(quantize(v, 255))})
		} else {
			s.gray16.SetGray16(x, y, color.Gray16{Y: uint16(quantize(v, 65535))})
		}
	}
	return nil
}

func quantize(v float64, max float64) uint32 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > max {
		return uint32(max)
	}
	return uint32(math.Round(v))
}

// Flush encodes the image to its file. Flushing again rewrites the file.
func (s *ImageSink) Flush() error {
	if s.closed {
		return ErrClosed
	}
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("rasterio: create %s: %w", s.path, err)
	}
	defer f.Close()

	var img image.Image = s.gray8
	if s.gray16 != nil {
		img = s.gray16
	}
	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".tif", ".tiff":
		err = tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		return fmt.Errorf("rasterio: encode %s: %w", s.path, err)
	}
	return nil
}

// Close releases the sink without writing. Rows written since the last Flush
// are discarded.
func (s *ImageSink) Close() error {
	s.closed = true
	s.gray8 = nil
	s.gray16 = nil
	return nil
}
