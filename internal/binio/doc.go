// Package binio implements the little-endian primitive reader and writer
// shared by the expression, feature-table and tree codecs.
//
// The Reader tracks its byte offset and turns short reads into
// core.FormatError values naming the operation and position. The Writer
// tracks its position and can seek back to patch placeholders, which the tree
// encoder uses for forward offsets.
package binio
