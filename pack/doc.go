// Package pack wraps raw CART tree streams in a checksummed, optionally
// compressed container for delivery.
//
// Layout (little-endian):
//
//	Magic "CRTP" | Version uint8 | Compression uint8 | reserved uint16 |
//	RawSize uint32 | PayloadSize uint32 | CRC32C(raw) uint32 | Payload
//
// Decode returns data that does not start with the magic unchanged, so
// plain tree files and packed ones can be read through the same path.
package pack
