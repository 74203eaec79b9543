// Package conv provides checked integer conversions for the fixed-width
// fields of the CART file format.
//
// Counts, domain bounds and feature ids are stored as 32-bit integers on disk
// but handled as int in memory. Every narrowing conversion on a write path
// goes through this package so that an oversized tree fails loudly instead of
// producing a file the runtime decoder would misread.
package conv
