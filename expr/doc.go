// Package expr compiles boolean question expressions over feature ids into a
// flat record arena and back.
//
// Grammar: terminals are non-negative decimal feature ids; `~` is unary not
// (binds tightest), `&` is and, `|` is or (lowest); parentheses group.
//
//	e, err := expr.Parse("10|~20&30")
//	e.String() // "10|~20&30"
//
// The compiled form is a slice of Records in construction order. A record's
// operands are either terminal literals or indices of earlier records, so the
// slice is acyclic by construction and its last record is the root. Each
// record serializes to a fixed 16-byte little-endian slot read by the runtime
// decoder.
package expr
