// Package cli implements the rastercalc command set.
//
// Each subcommand assembles a lazy raster pipeline from the mapalgebra
// combinators and drives it into a sink, so even multi-step derivations read
// their inputs exactly once per output cell demand and never materialize
// intermediate grids. Inputs and outputs are chosen by file extension:
// .db/.grid/.sqlite paths are SQLite grid stores, everything else goes
// through the image backends.
package cli
