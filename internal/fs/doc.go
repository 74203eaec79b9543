// Package fs abstracts the file operations behind local blob writes so that
// tests can inject failures.
//
// Production code uses Default. Tests wrap it in a FaultyFS:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".tmp-", fs.Fault{FailOnSync: true})
//
// Operations take no context. Local file operations are not interruptible at
// the syscall level; slow remote IO goes through blobstore instead.
package fs
