// Package iobuf provides an in-memory io.WriteSeeker.
//
// The tree encoder writes placeholder offsets and seeks back to patch them,
// which bytes.Buffer cannot do.
package iobuf

import (
	"errors"
	"io"
)

var errNegativePosition = errors.New("iobuf: negative position")

// Buffer is a growable byte slice that supports seeking and overwriting.
// The zero value is ready to use.
type Buffer struct {
	data []byte
	pos  int64
}

// Write writes p at the current position, growing the buffer as needed.
func (b *Buffer) Write(p []byte) (int, error) {
	end := b.pos + int64(len(p))
	if end > int64(len(b.data)) {
		if end > int64(cap(b.data)) {
			grown := make([]byte, end, max(end, 2*int64(cap(b.data))))
			copy(grown, b.data)
			b.data = grown
		} else {
			b.data = b.data[:end]
		}
	}
	copy(b.data[b.pos:], p)
	b.pos = end
	return len(p), nil
}

// Seek implements io.Seeker.
func (b *Buffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = b.pos + offset
	case io.SeekEnd:
		abs = int64(len(b.data)) + offset
	default:
		return 0, errors.New("iobuf: invalid whence")
	}
	if abs < 0 {
		return 0, errNegativePosition
	}
	b.pos = abs
	return abs, nil
}

// Bytes returns the written bytes. The slice aliases the buffer.
func (b *Buffer) Bytes() []byte { return b.data }

// Len returns the number of bytes in the buffer.
func (b *Buffer) Len() int { return len(b.data) }
