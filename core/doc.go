// Package core provides the contract and the backend-agnostic utilities of a
// pluggable virtual filesystem.
//
// A backend is one configured connection to a storage root: a directory on
// local disk, an in-memory tree, an archive, or a bucket in an object store.
// Every backend implements the Backend interface and is interchangeable with
// every other one; callers never need to know which one is in use.
//
// # Lifecycle
//
// Backends are constructed from a Config and then initialized explicitly:
//
//	b, err := billy.NewLocal(core.Config{Location: "/srv/data"})
//	if err != nil {
//	    return err
//	}
//	go func() {
//	    <-b.Ready()
//	    log.Println("backend ready")
//	}()
//	if err := b.Init(ctx); err != nil {
//	    return err
//	}
//
// The Ready channel is closed exactly once, so any number of subscribers,
// before or after Init is called, observe a single notification. A call made
// before the backend is ready waits for readiness if no other call is
// already waiting; further concurrent callers are rejected with NOT_READY.
//
// # Capabilities
//
// Each backend type declares the operations it supports as a Capabilities
// set, exported by the backend package so that it can be inspected without
// an instance:
//
//	if archive.Capabilities.Has(core.CapCreateReadStream) {
//	    // ...
//	}
//
// Optional operations are optional interfaces (Streamer, Writer, Copier,
// Unlinker). The helper functions CreateReadStream, WriteFile, Unlink and
// CopyFile check the capability first and fail with UNSUPPORTED instead of
// hanging or silently doing nothing.
//
// # Derived operations
//
// GetDir (sorted listings) and Find (recursive listings) are implemented
// once, here, on top of the primitive Stat and ReadDir operations, so that
// backends do not reimplement them.
//
// # Errors
//
// Every failure carries a code from github.com/jmgilman/go/vfs/errors. The
// sentinels in this package (ErrNoSuchFile, ErrUnsupported, ...) match by
// code:
//
//	if errors.Is(err, core.ErrNoSuchFile) {
//	    // ...
//	}
package core
