package binio

import (
	"encoding/binary"
	"errors"
	"io"
)

// ErrNotSeekable is returned by Patch when the underlying writer cannot seek.
var ErrNotSeekable = errors.New("binio: writer does not support seeking")

// Writer encodes little-endian integers. Errors are sticky: after the first
// failure every call is a no-op and Err reports the failure.
type Writer struct {
	w   io.Writer
	pos int64
	err error
	buf [8]byte
}

// NewWriter creates a Writer. If w is an io.Seeker, positions are absolute
// stream offsets; otherwise they count bytes written through this Writer.
func NewWriter(w io.Writer) *Writer {
	bw := &Writer{w: w}
	if s, ok := w.(io.Seeker); ok {
		pos, err := s.Seek(0, io.SeekCurrent)
		bw.pos, bw.err = pos, err
	}
	return bw
}

// Pos returns the current write position.
func (w *Writer) Pos() int64 { return w.pos }

// Err returns the first error encountered.
func (w *Writer) Err() error { return w.err }

// Write writes p verbatim.
func (w *Writer) Write(p []byte) {
	if w.err != nil {
		return
	}
	n, err := w.w.Write(p)
	w.pos += int64(n)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	w.err = err
}

// Int16 writes a little-endian int16.
func (w *Writer) Int16(v int16) {
	binary.LittleEndian.PutUint16(w.buf[:2], uint16(v))
	w.Write(w.buf[:2])
}

// Int32 writes a little-endian int32.
func (w *Writer) Int32(v int32) { w.Uint32(uint32(v)) }

// Uint32 writes a little-endian uint32.
func (w *Writer) Uint32(v uint32) {
	binary.LittleEndian.PutUint32(w.buf[:4], v)
	w.Write(w.buf[:4])
}

// Patch overwrites consecutive int32 values starting at the absolute position
// at, then returns to the current end position.
func (w *Writer) Patch(at int64, vals ...int32) {
	if w.err != nil {
		return
	}
	s, ok := w.w.(io.Seeker)
	if !ok {
		w.err = ErrNotSeekable
		return
	}
	end := w.pos
	if _, err := s.Seek(at, io.SeekStart); err != nil {
		w.err = err
		return
	}
	w.pos = at
	for _, v := range vals {
		w.Int32(v)
	}
	if w.err != nil {
		return
	}
	if _, err := s.Seek(end, io.SeekStart); err != nil {
		w.err = err
		return
	}
	w.pos = end
}
