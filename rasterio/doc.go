// Package rasterio connects rasters to pixel storage.
//
// A Source hands out pixel values on demand and a Sink accepts them row by
// row; neither knows anything about the algebra. Band and Multiband wrap a
// Source as a leaf raster whose evaluator reads pixels as cells are demanded,
// and Write drives a finished raster into a Sink.
//
// Faults inside a leaf evaluator cannot surface as return values, because
// evaluation happens behind Raster.At. A failed pixel read is raised as a
// *ReadError panic instead, and the write drivers in this package recover it
// into an ordinary returned error at the demand site. Code that demands cells
// directly can do the same, or let the fault crash loudly.
//
// Two backends are provided: ImageSource and ImageSink adapt ordinary image
// files, and GridStore keeps float64 grids in a SQLite database with no
// precision loss.
package rasterio
