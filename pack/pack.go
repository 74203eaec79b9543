package pack

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/hupe1980/cartkit/core"
	"github.com/hupe1980/cartkit/internal/conv"
	"github.com/hupe1980/cartkit/internal/hash"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the payload codec.
type Compression uint8

const (
	CompressionNone Compression = 0
	CompressionLZ4  Compression = 1
	CompressionZstd Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

// ParseCompression parses the names returned by Compression.String.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(s) {
	case "none", "":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("%w: unknown compression %q", core.ErrInvalidArgument, s)
	}
}

const (
	// Version is the container version written by Encode.
	Version = 1

	// HeaderSize is the fixed container header length.
	HeaderSize = 20

	decodeOp = "decode pack"

	// maxRawSize bounds the allocation made for a declared raw size.
	maxRawSize = 1 << 30
)

var magic = []byte("CRTP")

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(maxRawSize),
	)
}

// IsPacked reports whether data starts with the container magic.
func IsPacked(data []byte) bool {
	return bytes.HasPrefix(data, magic)
}

// Encode wraps raw in a container using compression c. LZ4 falls back to
// storing raw when the block is incompressible.
func Encode(raw []byte, c Compression) ([]byte, error) {
	rawSize, err := conv.IntToUint32(len(raw))
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch c {
	case CompressionNone:
		payload = raw
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(raw)))
		n, err := lz4.CompressBlock(raw, buf, nil)
		if err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		if n == 0 {
			c, payload = CompressionNone, raw
		} else {
			payload = buf[:n]
		}
	case CompressionZstd:
		enc, err := getZstdEncoder()
		if err != nil {
			return nil, err
		}
		payload = enc.EncodeAll(raw, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, fmt.Errorf("%w: unknown compression %d", core.ErrInvalidArgument, c)
	}

	payloadSize, err := conv.IntToUint32(len(payload))
	if err != nil {
		return nil, err
	}

	out := make([]byte, HeaderSize, HeaderSize+len(payload))
	copy(out, magic)
	out[4] = Version
	out[5] = byte(c)
	binary.LittleEndian.PutUint32(out[8:], rawSize)
	binary.LittleEndian.PutUint32(out[12:], payloadSize)
	binary.LittleEndian.PutUint32(out[16:], hash.CRC32C(raw))
	return append(out, payload...), nil
}

// Header is the decoded container header.
type Header struct {
	Version     uint8
	Compression Compression
	RawSize     uint32
	PayloadSize uint32
	Checksum    uint32
}

// ReadHeader decodes the container header of data.
func ReadHeader(data []byte) (Header, error) {
	if !IsPacked(data) {
		return Header{}, core.NewFormatError(decodeOp, 0, "missing magic")
	}
	if len(data) < HeaderSize {
		return Header{}, core.NewFormatError(decodeOp, int64(len(data)), "truncated header")
	}
	h := Header{
		Version:     data[4],
		Compression: Compression(data[5]),
		RawSize:     binary.LittleEndian.Uint32(data[8:]),
		PayloadSize: binary.LittleEndian.Uint32(data[12:]),
		Checksum:    binary.LittleEndian.Uint32(data[16:]),
	}
	if h.Version != Version {
		return Header{}, core.NewFormatError(decodeOp, 4, "unsupported version %d", h.Version)
	}
	if h.RawSize > maxRawSize {
		return Header{}, core.NewFormatError(decodeOp, 8, "raw size %d too large", h.RawSize)
	}
	return h, nil
}

// Decode unwraps a container. Data without the magic is returned as is.
func Decode(data []byte) ([]byte, error) {
	if !IsPacked(data) {
		return data, nil
	}
	h, err := ReadHeader(data)
	if err != nil {
		return nil, err
	}

	payload := data[HeaderSize:]
	if uint64(len(payload)) != uint64(h.PayloadSize) {
		return nil, core.NewFormatError(decodeOp, 12, "payload is %d bytes, header says %d", len(payload), h.PayloadSize)
	}

	var raw []byte
	switch h.Compression {
	case CompressionNone:
		raw = payload
	case CompressionLZ4:
		raw = make([]byte, h.RawSize)
		n, err := lz4.UncompressBlock(payload, raw)
		if err != nil {
			return nil, &core.FormatError{Op: decodeOp, Offset: HeaderSize, Detail: "lz4", Err: err}
		}
		raw = raw[:n]
	case CompressionZstd:
		raw, err = decodeZstd(payload, h.RawSize)
		if err != nil {
			return nil, err
		}
	default:
		return nil, core.NewFormatError(decodeOp, 5, "unknown compression %d", h.Compression)
	}

	if uint64(len(raw)) != uint64(h.RawSize) {
		return nil, core.NewFormatError(decodeOp, 8, "decoded %d bytes, header says %d", len(raw), h.RawSize)
	}
	if sum := hash.CRC32C(raw); sum != h.Checksum {
		return nil, core.NewFormatError(decodeOp, 16, "checksum mismatch: got %08x, want %08x", sum, h.Checksum)
	}
	return raw, nil
}

// decodeZstd streams payload into a buffer of the declared raw size. Output
// beyond rawSize is an error, so a forged header cannot make the decoder
// allocate more than it declares.
func decodeZstd(payload []byte, rawSize uint32) ([]byte, error) {
	var zh zstd.Header
	if err := zh.Decode(payload); err != nil {
		return nil, &core.FormatError{Op: decodeOp, Offset: HeaderSize, Detail: "zstd frame header", Err: err}
	}
	if zh.HasFCS && zh.FrameContentSize > uint64(rawSize) {
		return nil, core.NewFormatError(decodeOp, 8, "zstd frame holds %d bytes, header says %d", zh.FrameContentSize, rawSize)
	}

	dec, err := getZstdDecoder()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = dec.Reset(nil)
		zstdDecoderPool.Put(dec)
	}()

	if err := dec.Reset(bytes.NewReader(payload)); err != nil {
		return nil, &core.FormatError{Op: decodeOp, Offset: HeaderSize, Detail: "zstd", Err: err}
	}
	raw := make([]byte, rawSize)
	n, err := io.ReadFull(dec, raw)
	switch {
	case errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF):
		return raw[:n], nil
	case err != nil:
		return nil, &core.FormatError{Op: decodeOp, Offset: HeaderSize, Detail: "zstd", Err: err}
	}

	var extra [1]byte
	if m, _ := dec.Read(extra[:]); m > 0 {
		return nil, core.NewFormatError(decodeOp, 8, "decoded output exceeds header raw size %d", rawSize)
	}
	return raw, nil
}
