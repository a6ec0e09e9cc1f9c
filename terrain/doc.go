// Package terrain derives elevation products from scalar elevation rasters:
// slope, aspect, hillshade and neighborhood statistics.
//
// Every operation here is assembled from the mapalgebra combinators and
// inherits their laziness: nothing reads elevation data until cells of the
// derived raster are demanded. Neighborhood access goes through the focal
// sampler, so cells whose window reaches outside the raster see NaN samples;
// the gradient-based products emit NaN along the border, and the statistics
// skip unavailable samples instead.
//
// Angles are in radians throughout. Aspect azimuths are measured clockwise
// from north, matching compass convention.
package terrain
