package binio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/cartkit/core"
)

// Reader decodes little-endian integers from a stream and tracks the offset.
type Reader struct {
	r   io.Reader
	op  string
	off int64
	buf [8]byte
}

// NewReader creates a Reader. op names the operation in error messages
// (for example "load tree node").
func NewReader(r io.Reader, op string) *Reader {
	return &Reader{r: r, op: op}
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int64 { return r.off }

// Op returns the operation name used in errors.
func (r *Reader) Op() string { return r.op }

// Errorf returns a FormatError at the current offset.
func (r *Reader) Errorf(format string, args ...any) error {
	return core.NewFormatError(r.op, r.off, format, args...)
}

// ErrorfAt returns a FormatError at an explicit offset.
func (r *Reader) ErrorfAt(off int64, format string, args ...any) error {
	return core.NewFormatError(r.op, off, format, args...)
}

// ReadFull fills p completely.
func (r *Reader) ReadFull(p []byte) error {
	n, err := io.ReadFull(r.r, p)
	start := r.off
	r.off += int64(n)
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &core.FormatError{
			Op:     r.op,
			Offset: start,
			Detail: fmt.Sprintf("unexpected end of stream reading %d bytes", len(p)),
			Err:    io.ErrUnexpectedEOF,
		}
	}
	return fmt.Errorf("%s at %d: %w", r.op, start, err)
}

// Int16 reads a little-endian int16.
func (r *Reader) Int16() (int16, error) {
	if err := r.ReadFull(r.buf[:2]); err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(r.buf[:2])), nil
}

// Int32 reads a little-endian int32.
func (r *Reader) Int32() (int32, error) {
	v, err := r.Uint32()
	return int32(v), err
}

// Uint32 reads a little-endian uint32.
func (r *Reader) Uint32() (uint32, error) {
	if err := r.ReadFull(r.buf[:4]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(r.buf[:4]), nil
}

// Uint32s reads n little-endian uint32 words into a new slice.
func (r *Reader) Uint32s(n int) ([]uint32, error) {
	out := make([]uint32, n)
	for i := range out {
		v, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
