// Package billy provides go-billy-backed local and in-memory backends.
//
// This package wraps go-billy's osfs (local) and memfs (in-memory)
// implementations behind the core.Backend contract, while keeping the
// underlying billy.Filesystem reachable through Unwrap for go-git
// integration.
//
// Usage:
//
//	// Create a local backend rooted at a directory
//	b, err := billy.NewLocal(core.Config{Location: "/srv/data"})
//	if err != nil {
//	    return err
//	}
//	if err := b.Init(ctx); err != nil {
//	    return err
//	}
//
//	data, err := b.ReadFile(ctx, "/config.json")
//
// # Memory Backend
//
// For testing or temporary storage, use the in-memory backend. If a
// Location is given, the directory tree under it is copied in at Init:
//
//	b, err := billy.NewMemory(core.Config{Location: "testdata"})
//
// memfs does not track modification times, so the memory backend keeps its
// own table, stamped from an injectable clock (WithClock).
//
// # Options
//
// Both backends read the "chunk_size" option (bytes per stream chunk) and
// ignore unknown options.
//
// # Thread Safety
//
// Backends are safe for concurrent use by multiple goroutines. Streams are
// not safe for concurrent reads.
package billy
