// Package blobstore abstracts where voice model files live.
//
// A model is a set of named blobs (schema.yaml, questions.txt, trees/*.cart).
// Implementations must be safe for concurrent use.
//
//   - LocalStore: a directory; reads are memory mapped, writes are atomic
//   - MemoryStore: an in-process map, for tests and tooling
//   - s3.Store: Amazon S3 with ranged reads and managed uploads
//   - minio.Store: MinIO and other S3-compatible services
package blobstore
