package cli

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/sintrastes/mapalgebra"
	"github.com/sintrastes/mapalgebra/internal/calc"
	"github.com/sintrastes/mapalgebra/rasterio"
	"github.com/sintrastes/mapalgebra/render"
	"github.com/sintrastes/mapalgebra/terrain"
)

const usage = `rastercalc - lazy raster algebra over image and grid-store files

Usage: rastercalc <command> [flags] <inputs>

Commands:
  info       print extent and band count of a raster file
  calc       evaluate a Lua cell expression over input rasters
  slope      directional slope bands from an elevation raster
  aspect     downslope azimuth from an elevation raster
  hillshade  shaded relief from an elevation raster
  roughness  neighborhood terrain indexes
  render     paint a raster onto a color ramp as PNG or JPEG

Inputs and outputs ending in .db, .grid or .sqlite are SQLite grid stores;
anything else is read and written through the image codecs.

Environment:
  RASTERCALC_LOG_LEVEL=debug   verbose progress logging on stderr
  RASTERCALC_SPACING           default cell spacing for terrain commands
  RASTERCALC_JPEG_QUALITY      JPEG encoder quality (1-100)

Run rastercalc <command> -h for command flags.
`

// Run executes one rastercalc command. args excludes the program name.
func Run(args []string, cfg Config, out, errOut io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(errOut, usage)
		return fmt.Errorf("cli: no command given")
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "info":
		return runInfo(rest, out, errOut)
	case "calc":
		return runCalc(rest, cfg, out, errOut)
	case "slope":
		return runSlope(rest, cfg, out, errOut)
	case "aspect":
		return runAspect(rest, cfg, out, errOut)
	case "hillshade":
		return runHillshade(rest, cfg, out, errOut)
	case "roughness":
		return runRoughness(rest, cfg, out, errOut)
	case "render":
		return runRender(rest, cfg, out, errOut)
	case "help", "-h", "--help":
		fmt.Fprint(out, usage)
		return nil
	default:
		fmt.Fprint(errOut, usage)
		return fmt.Errorf("cli: unknown command %q", cmd)
	}
}

// parseFlags parses args and reports whether the command should proceed.
// -h prints the flag summary and stops without an error.
func parseFlags(fs *flag.FlagSet, args []string, errOut io.Writer) (bool, error) {
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func isGridStore(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".grid", ".sqlite":
		return true
	}
	return false
}

func openSource(path string) (rasterio.Source, error) {
	if isGridStore(path) {
		return rasterio.OpenGridStore(path)
	}
	return rasterio.OpenImage(path)
}

// openBand opens path and wraps one of its bands as a lazy raster. The
// returned source must stay open until the pipeline has been driven.
func openBand(path string, band int) (mapalgebra.Raster[float64], rasterio.Source, error) {
	src, err := openSource(path)
	if err != nil {
		return mapalgebra.Raster[float64]{}, nil, err
	}
	r, err := rasterio.Band(src, band)
	if err != nil {
		src.Close()
		return mapalgebra.Raster[float64]{}, nil, err
	}
	return r, src, nil
}

func createSink(path string, width, height, bands int) (rasterio.Sink, error) {
	if isGridStore(path) {
		return rasterio.CreateGridStore(path, width, height, bands)
	}
	if bands != 1 {
		return nil, fmt.Errorf("cli: image output %s holds a single band, result has %d", path, bands)
	}
	return rasterio.CreateImage(path, width, height, rasterio.Gray8)
}

func runInfo(args []string, out, errOut io.Writer) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	ok, err := parseFlags(fs, args, errOut)
	if !ok {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("cli: info needs at least one raster path")
	}

	for _, path := range fs.Args() {
		src, err := openSource(path)
		if err != nil {
			return err
		}
		w, h := src.Size()
		bands := src.Bands()
		if err := src.Close(); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: %dx%d pixels, %d band(s)\n", filepath.Base(path), w, h, bands)
	}
	return nil
}

func runCalc(args []string, cfg Config, out, errOut io.Writer) error {
	fs := flag.NewFlagSet("calc", flag.ContinueOnError)
	expr := fs.String("expr", "", "Lua cell expression over variables a, b, ...")
	outPath := fs.String("out", "", "output raster path")
	band := fs.Int("band", 0, "band to read from each input")
	ok, err := parseFlags(fs, args, errOut)
	if !ok {
		return err
	}
	inputs := fs.Args()
	if *expr == "" || *outPath == "" || len(inputs) == 0 {
		return fmt.Errorf("cli: calc needs -expr, -out and at least one input")
	}
	if len(inputs) > 26 {
		return fmt.Errorf("cli: calc supports at most 26 inputs, got %d", len(inputs))
	}

	prog, err := calc.Compile(*expr, calc.VarNames(len(inputs)))
	if err != nil {
		return err
	}

	rasters := make([]mapalgebra.Raster[float64], len(inputs))
	for i, path := range inputs {
		r, src, err := openBand(path, *band)
		if err != nil {
			return err
		}
		defer src.Close()
		rasters[i] = r
	}
	for i := 1; i < len(rasters); i++ {
		if rasters[i].Width() != rasters[0].Width() || rasters[i].Height() != rasters[0].Height() {
			return fmt.Errorf("cli: %s is %dx%d but %s is %dx%d; calc inputs must share an extent",
				inputs[i], rasters[i].Width(), rasters[i].Height(),
				inputs[0], rasters[0].Width(), rasters[0].Height())
		}
	}

	// Gather the per-cell argument vector lazily, then run the program on
	// each demand. An evaluation fault aborts the write below.
	cells := mapalgebra.Map(rasters[0], func(v float64) []float64 {
		vals := make([]float64, 1, len(rasters))
		vals[0] = v
		return vals
	})
	for _, r := range rasters[1:] {
		cells = mapalgebra.Zip(cells, r, func(acc []float64, v float64) []float64 {
			return append(acc, v)
		})
	}
	result := mapalgebra.Map(cells, func(vals []float64) float64 {
		v, err := prog.Eval(vals...)
		if err != nil {
			panic(err)
		}
		return v
	})

	sink, err := createSink(*outPath, result.Width(), result.Height(), 1)
	if err != nil {
		return err
	}
	defer sink.Close()

	cfg.debugf("calc: %q over %d input(s) -> %s", *expr, len(inputs), *outPath)
	if err := rasterio.Write(result, sink); err != nil {
		return fmt.Errorf("cli: calc: %w", err)
	}
	fmt.Fprintf(out, "wrote %s (%dx%d)\n", *outPath, result.Width(), result.Height())
	return nil
}

func runSlope(args []string, cfg Config, out, errOut io.Writer) error {
	fs := flag.NewFlagSet("slope", flag.ContinueOnError)
	outPath := fs.String("out", "", "output grid store (bands: up, down, left, right)")
	spacing := fs.Float64("spacing", cfg.Spacing, "ground distance between adjacent cells")
	band := fs.Int("band", 0, "elevation band of the input")
	ok, err := parseFlags(fs, args, errOut)
	if !ok {
		return err
	}
	if *outPath == "" || fs.NArg() != 1 {
		return fmt.Errorf("cli: slope needs -out and one elevation raster")
	}

	elev, src, err := openBand(fs.Arg(0), *band)
	if err != nil {
		return err
	}
	defer src.Close()

	bands := mapalgebra.Map(terrain.Slope(elev, *spacing), func(v [4]float64) []float64 {
		return v[:]
	})
	sink, err := createSink(*outPath, bands.Width(), bands.Height(), 4)
	if err != nil {
		return err
	}
	defer sink.Close()

	cfg.debugf("slope: %s -> %s, spacing %g", fs.Arg(0), *outPath, *spacing)
	if err := rasterio.WriteMultiband(bands, sink, 4); err != nil {
		return fmt.Errorf("cli: slope: %w", err)
	}
	fmt.Fprintf(out, "wrote %s (%dx%d, 4 bands)\n", *outPath, bands.Width(), bands.Height())
	return nil
}

func runAspect(args []string, cfg Config, out, errOut io.Writer) error {
	fs := flag.NewFlagSet("aspect", flag.ContinueOnError)
	outPath := fs.String("out", "", "output raster path")
	cellSize := fs.Float64("cellsize", cfg.Spacing, "ground distance between adjacent cells")
	band := fs.Int("band", 0, "elevation band of the input")
	ok, err := parseFlags(fs, args, errOut)
	if !ok {
		return err
	}
	if *outPath == "" || fs.NArg() != 1 {
		return fmt.Errorf("cli: aspect needs -out and one elevation raster")
	}

	elev, src, err := openBand(fs.Arg(0), *band)
	if err != nil {
		return err
	}
	defer src.Close()

	aspect := terrain.Aspect(elev, *cellSize)
	sink, err := createSink(*outPath, aspect.Width(), aspect.Height(), 1)
	if err != nil {
		return err
	}
	defer sink.Close()

	cfg.debugf("aspect: %s -> %s", fs.Arg(0), *outPath)
	if err := rasterio.Write(aspect, sink); err != nil {
		return fmt.Errorf("cli: aspect: %w", err)
	}
	fmt.Fprintf(out, "wrote %s (%dx%d)\n", *outPath, aspect.Width(), aspect.Height())
	return nil
}

func runHillshade(args []string, cfg Config, out, errOut io.Writer) error {
	fs := flag.NewFlagSet("hillshade", flag.ContinueOnError)
	outPath := fs.String("out", "", "output raster path (a .png makes a viewable relief image)")
	azimuth := fs.Float64("azimuth", 315, "sun bearing in degrees clockwise from north")
	altitude := fs.Float64("altitude", 45, "sun angle above the horizon in degrees")
	cellSize := fs.Float64("cellsize", cfg.Spacing, "ground distance between adjacent cells")
	band := fs.Int("band", 0, "elevation band of the input")
	ok, err := parseFlags(fs, args, errOut)
	if !ok {
		return err
	}
	if *outPath == "" || fs.NArg() != 1 {
		return fmt.Errorf("cli: hillshade needs -out and one elevation raster")
	}

	elev, src, err := openBand(fs.Arg(0), *band)
	if err != nil {
		return err
	}
	defer src.Close()

	shade := terrain.Hillshade(elev, *cellSize, *azimuth, *altitude)
	sink, err := createSink(*outPath, shade.Width(), shade.Height(), 1)
	if err != nil {
		return err
	}
	defer sink.Close()

	cfg.debugf("hillshade: %s -> %s, sun %g/%g", fs.Arg(0), *outPath, *azimuth, *altitude)
	if err := rasterio.Write(shade, sink); err != nil {
		return fmt.Errorf("cli: hillshade: %w", err)
	}
	fmt.Fprintf(out, "wrote %s (%dx%d)\n", *outPath, shade.Width(), shade.Height())
	return nil
}

func runRoughness(args []string, cfg Config, out, errOut io.Writer) error {
	fs := flag.NewFlagSet("roughness", flag.ContinueOnError)
	outPath := fs.String("out", "", "output raster path")
	index := fs.String("index", "roughness", "terrain index: roughness, tri or tpi")
	band := fs.Int("band", 0, "elevation band of the input")
	ok, err := parseFlags(fs, args, errOut)
	if !ok {
		return err
	}
	if *outPath == "" || fs.NArg() != 1 {
		return fmt.Errorf("cli: roughness needs -out and one elevation raster")
	}

	elev, src, err := openBand(fs.Arg(0), *band)
	if err != nil {
		return err
	}
	defer src.Close()

	var result mapalgebra.Raster[float64]
	switch *index {
	case "roughness":
		result = terrain.Roughness(elev)
	case "tri":
		result = terrain.TRI(elev)
	case "tpi":
		result = terrain.TPI(elev)
	default:
		return fmt.Errorf("cli: unknown terrain index %q", *index)
	}

	sink, err := createSink(*outPath, result.Width(), result.Height(), 1)
	if err != nil {
		return err
	}
	defer sink.Close()

	cfg.debugf("roughness: %s -> %s, index %s", fs.Arg(0), *outPath, *index)
	if err := rasterio.Write(result, sink); err != nil {
		return fmt.Errorf("cli: roughness: %w", err)
	}
	fmt.Fprintf(out, "wrote %s (%dx%d)\n", *outPath, result.Width(), result.Height())
	return nil
}

var ramps = map[string]render.Ramp{
	"gray":    render.Gray,
	"terrain": render.Terrain,
	"bluered": render.BlueRed,
}

func runRender(args []string, cfg Config, out, errOut io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	outPath := fs.String("out", "", "output image path (.png or .jpg)")
	rampName := fs.String("ramp", "gray", "color ramp: gray, terrain or bluered")
	minV := fs.Float64("min", math.NaN(), "display range low (default: 2nd percentile)")
	maxV := fs.Float64("max", math.NaN(), "display range high (default: 98th percentile)")
	maxSize := fs.Int("max-size", 0, "downscale the output to fit this many pixels per side")
	band := fs.Int("band", 0, "band of the input")
	ok, err := parseFlags(fs, args, errOut)
	if !ok {
		return err
	}
	if *outPath == "" || fs.NArg() != 1 {
		return fmt.Errorf("cli: render needs -out and one input raster")
	}
	ramp, known := ramps[*rampName]
	if !known {
		return fmt.Errorf("cli: unknown ramp %q", *rampName)
	}

	r, src, err := openBand(fs.Arg(0), *band)
	if err != nil {
		return err
	}
	defer src.Close()

	lo, hi := *minV, *maxV
	if math.IsNaN(lo) || math.IsNaN(hi) {
		slo, shi, err := render.Stretch(r, 2, 98)
		if err != nil {
			return fmt.Errorf("cli: render: %w", err)
		}
		if math.IsNaN(lo) {
			lo = slo
		}
		if math.IsNaN(hi) {
			hi = shi
		}
		cfg.debugf("render: stretched display range [%g, %g]", lo, hi)
	}

	img, err := render.Render(r, ramp, lo, hi)
	if err != nil {
		return fmt.Errorf("cli: render: %w", err)
	}
	var final image.Image = img
	if *maxSize > 0 {
		final = imaging.Fit(final, *maxSize, *maxSize, imaging.Lanczos)
	}

	switch strings.ToLower(filepath.Ext(*outPath)) {
	case ".png":
		err = render.Save(*outPath, final)
	case ".jpg", ".jpeg":
		err = render.SaveJPEG(*outPath, final, cfg.JPEGQuality)
	default:
		return fmt.Errorf("cli: render output must be .png or .jpg")
	}
	if err != nil {
		return fmt.Errorf("cli: render: %w", err)
	}
	b := final.Bounds()
	fmt.Fprintf(out, "wrote %s (%dx%d)\n", *outPath, b.Dx(), b.Dy())
	return nil
}
