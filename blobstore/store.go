package blobstore

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/cartkit/core"
)

// ErrNotFound is matched by errors for blobs that do not exist.
var ErrNotFound = core.ErrNotFound

// BlobStore stores immutable named blobs.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// Put writes a blob atomically, replacing any existing one.
	Put(ctx context.Context, name string, data []byte) error
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
	// List returns the sorted names starting with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a blob.
type Blob interface {
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	Size() int64
	Close() error
}

// Mappable is implemented by blobs whose contents are already in memory.
type Mappable interface {
	// Bytes returns the contents. The slice is valid until the blob is
	// closed.
	Bytes() ([]byte, error)
}

// ReadAll reads a blob into a new slice.
func ReadAll(ctx context.Context, b Blob) ([]byte, error) {
	if m, ok := b.(Mappable); ok {
		data, err := m.Bytes()
		if err != nil {
			return nil, err
		}
		return append([]byte(nil), data...), nil
	}

	size := b.Size()
	if size < 0 || size > math.MaxInt32 {
		return nil, fmt.Errorf("%w: blob size %d", core.ErrInvalidArgument, size)
	}
	buf := make([]byte, size)
	n, err := b.ReadAt(ctx, buf, 0)
	if err == io.EOF && int64(n) == size {
		err = nil
	}
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// ReadFile opens name, reads it fully and closes it.
func ReadFile(ctx context.Context, s BlobStore, name string) ([]byte, error) {
	b, err := s.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer b.Close()
	return ReadAll(ctx, b)
}

func notFound(name string) error {
	return fmt.Errorf("blob %q: %w", name, ErrNotFound)
}
