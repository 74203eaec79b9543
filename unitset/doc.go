// Package unitset implements the set of unit indices covered by a CART node.
//
// A Set has a fixed domain [0, Len) and is backed by a Roaring bitmap, so
// sparse leaves over large unit inventories stay small in memory while union
// and iteration remain fast. The packed 32-bit word form used by the BitSet
// leaf encoding is produced by Words and consumed by FromWords.
package unitset
