// Package cartkit loads, edits, saves and evaluates the CART decision trees
// of a TTS voice.
//
// A voice model lives in a blob store:
//
//	schema.yaml      meta features (feature.Schema)
//	questions.txt    feature questions, or features.bin as a binary table
//	trees/<name>.cart one packed or raw CART stream per tree
//	manifest.json    tree list written by Save
//
// # Quick Start
//
//	ctx := context.Background()
//	model, err := cartkit.Open(ctx, blobstore.NewLocalStore("./voice"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	leaf, err := model.Classify(ctx, "duration", feature.Map{0: 3, 1: 1})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(leaf.Index, leaf.Units.Count())
//
// Remote stores work the same way:
//
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "voices", "en-US/jenny")
//	model, err := cartkit.Open(ctx, store, cartkit.WithLoadConcurrency(8))
//
// # Loading
//
// Open reads trees concurrently. WithLoadConcurrency bounds the number of
// trees decoded at once, WithIOLimit throttles reads and WithMemoryLimit
// caps the stored bytes held in flight. Unit sets of internal nodes are
// derived from their leaves before Open returns, so a loaded Model has no
// lazy state and serves Classify from many goroutines.
//
// # Observability
//
// WithLogger attaches a slog-based Logger; WithMetricsCollector receives one
// callback per tree load, tree save and classification.
//
// # Errors
//
// Malformed data of any kind matches ErrFormat, missing trees and files match
// ErrNotFound. Failures on one tree are reported as *TreeError.
package cartkit
