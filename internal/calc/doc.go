// Package calc compiles per-cell arithmetic expressions to Lua.
//
// An expression like "(a - b) / (a + b)" is compiled once into a Lua
// function over named cell variables, then evaluated per cell with plain
// float64 arguments. Expressions have the full Lua math library available.
package calc
