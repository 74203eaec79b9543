// Package mmap maps model files read-only into memory.
//
//	m, err := mmap.Open("trees/f0.cart")
//	if err != nil { ... }
//	defer m.Close()
//	tree, err := cart.Load(bytes.NewReader(m.Bytes()), meta)
//
// Unix uses mmap(2) and madvise(2); Windows uses MapViewOfFile and treats
// access hints as no-ops. Close is idempotent; the slice returned by Bytes
// must not be used after Close.
package mmap
