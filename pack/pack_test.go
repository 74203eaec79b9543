package pack

import (
	"bytes"
	"encoding/binary"
	"runtime"
	"testing"

	"github.com/hupe1980/cartkit/core"
	"github.com/hupe1980/cartkit/testutil"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(rng *testutil.RNG, n int) []byte {
	// Repetitive like real tree streams: small ints padded to 32 bits.
	out := make([]byte, 0, n)
	for len(out) < n {
		out = binary.LittleEndian.AppendUint32(out, uint32(rng.Intn(16)))
	}
	return out[:n]
}

func TestEncodeDecode(t *testing.T) {
	rng := testutil.NewRNG(1)
	inputs := map[string][]byte{
		"empty":  {},
		"small":  []byte("CART"),
		"stream": sample(rng, 64*1024),
	}

	for name, raw := range inputs {
		for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
			t.Run(name+"/"+c.String(), func(t *testing.T) {
				packed, err := Encode(raw, c)
				require.NoError(t, err)
				assert.True(t, IsPacked(packed))

				h, err := ReadHeader(packed)
				require.NoError(t, err)
				assert.Equal(t, uint8(Version), h.Version)
				assert.Equal(t, uint32(len(raw)), h.RawSize)
				assert.Equal(t, uint32(len(packed)-HeaderSize), h.PayloadSize)

				got, err := Decode(packed)
				require.NoError(t, err)
				assert.Equal(t, len(raw), len(got))
				assert.True(t, bytes.Equal(raw, got))
			})
		}
	}
}

func TestEncode_Compresses(t *testing.T) {
	raw := sample(testutil.NewRNG(2), 256*1024)
	for _, c := range []Compression{CompressionLZ4, CompressionZstd} {
		packed, err := Encode(raw, c)
		require.NoError(t, err)
		h, err := ReadHeader(packed)
		require.NoError(t, err)
		assert.Equal(t, c, h.Compression)
		assert.Less(t, len(packed), len(raw), c.String())
	}
}

func TestDecode_Passthrough(t *testing.T) {
	raw := []byte{0, 0, 0, 0, 1, 0, 0, 0}
	got, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, got)
	assert.False(t, IsPacked(raw))
}

func TestDecode_Errors(t *testing.T) {
	packed, err := Encode(sample(testutil.NewRNG(3), 4096), CompressionZstd)
	require.NoError(t, err)

	corrupt := func(mutate func([]byte) []byte) []byte {
		return mutate(bytes.Clone(packed))
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"truncated header", packed[:10]},
		{"truncated payload", packed[:len(packed)-1]},
		{"bad version", corrupt(func(b []byte) []byte { b[4] = 9; return b })},
		{"unknown compression", corrupt(func(b []byte) []byte { b[5] = 7; return b })},
		{"checksum", corrupt(func(b []byte) []byte { b[16] ^= 0xff; return b })},
		{"raw size", corrupt(func(b []byte) []byte { b[8]++; return b })},
		{"payload", corrupt(func(b []byte) []byte { b[len(b)-2] ^= 0xff; return b })},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			assert.ErrorIs(t, err, core.ErrFormat)
		})
	}
}

func TestDecode_ZstdRawSizeBound(t *testing.T) {
	t.Run("frame content size", func(t *testing.T) {
		packed, err := Encode(make([]byte, 64<<20), CompressionZstd)
		require.NoError(t, err)
		binary.LittleEndian.PutUint32(packed[8:], 16)

		var before, after runtime.MemStats
		runtime.ReadMemStats(&before)
		_, err = Decode(packed)
		runtime.ReadMemStats(&after)

		assert.ErrorIs(t, err, core.ErrFormat)
		assert.ErrorContains(t, err, "header says 16")
		assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(16<<20))
	})

	t.Run("streamed frame", func(t *testing.T) {
		// A streaming encoder does not record the content size, so the
		// bound must hold while decoding.
		var payload bytes.Buffer
		enc, err := zstd.NewWriter(&payload)
		require.NoError(t, err)
		_, err = enc.Write(make([]byte, 1<<20))
		require.NoError(t, err)
		require.NoError(t, enc.Close())

		packed, err := Encode(make([]byte, 16), CompressionNone)
		require.NoError(t, err)
		packed = append(packed[:HeaderSize], payload.Bytes()...)
		packed[5] = byte(CompressionZstd)
		binary.LittleEndian.PutUint32(packed[12:], uint32(payload.Len()))

		_, err = Decode(packed)
		assert.ErrorIs(t, err, core.ErrFormat)
		assert.ErrorContains(t, err, "exceeds header raw size 16")
	})
}

func TestParseCompression(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		got, err := ParseCompression(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseCompression("brotli")
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	_, err = Encode(nil, Compression(9))
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}
