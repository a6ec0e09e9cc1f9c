// Package render turns scalar rasters into images for inspection.
//
// Rendering is the eager end of the pipeline: Render walks every cell of the
// raster it is given, maps values onto a color ramp and produces an NRGBA
// image, with NaN cells left fully transparent. Stretch picks a display
// range from the data itself so outliers do not wash out the ramp.
//
// Ramps blend between their stops in the Lab color space, which keeps
// perceived lightness changing evenly along the ramp.
package render
