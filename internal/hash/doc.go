// Package hash provides the CRC32-Castagnoli checksum used by packed model
// containers. Go's hash/crc32 uses SSE4.2 or the ARM CRC extension when the
// CPU has them.
package hash
