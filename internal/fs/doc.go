// Package fs abstracts the file system so that streams and stores can be
// tested against injected failures.
//
// Production code uses Default, which delegates to the os package. Tests
// wrap it in a FaultyFS:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".dna", fs.Fault{FailAfterBytes: 128})
//
// Operations take no context: local file system calls cannot be cancelled
// at the syscall level. Remote storage lives in assetstore, which does.
package fs
