package core

import (
	"context"
	"time"
)

// Backend is the contract every storage implementation satisfies.
//
// A Backend is created in the Uninitialized state and becomes usable after
// Init succeeds. All methods are safe for concurrent use. Methods that take a
// context block until the operation completes or the context is done;
// callers that want asynchrony run them in goroutines.
type Backend interface {
	// Scheme returns the backend type's identifier (e.g. "file", "s3").
	Scheme() string

	// Capabilities returns the operations supported by the backend type.
	// It returns the same value for every instance of a type.
	Capabilities() Capabilities

	// Init performs one-time setup (validating the location, connecting,
	// indexing). It transitions the backend to Ready on success and to
	// Closed on failure. Init may only be called once; a second call
	// returns a CONFLICT error.
	Init(ctx context.Context) error

	// State returns the current lifecycle state.
	State() State

	// Ready returns a channel that is closed once the backend becomes
	// Ready. The channel is never closed if Init fails.
	Ready() <-chan struct{}

	// Stat returns the node at name.
	//
	// The returned node's Path is CleanPath(name). Missing entries yield a
	// NO_SUCH_FILE error.
	Stat(ctx context.Context, name string) (Node, error)

	// ReadDir returns the immediate children of the directory at name.
	//
	// Missing directories yield NO_SUCH_DIRECTORY and files yield
	// NOT_A_DIRECTORY. If any child cannot be inspected the whole call fails.
	// The returned slice is owned by the caller.
	ReadDir(ctx context.Context, name string) ([]Node, error)

	// ReadFile returns the complete content of the file at name.
	//
	// Missing files yield NO_SUCH_FILE and directories yield IS_A_DIRECTORY.
	ReadFile(ctx context.Context, name string) ([]byte, error)

	// Close releases the backend's resources. Subsequent operations fail
	// with CLOSED. Close is idempotent.
	Close() error
}

// Streamer is implemented by backends that declare CapCreateReadStream.
type Streamer interface {
	// CreateReadStream opens the file at name for lazy, chunked reading.
	// The caller must Close the returned stream or drain it to the end.
	CreateReadStream(ctx context.Context, name string) (*Stream, error)
}

// Writer is implemented by backends that declare CapWriteFile.
type Writer interface {
	// WriteFile creates or replaces the file at name with data, creating
	// missing parent directories.
	WriteFile(ctx context.Context, name string, data []byte) error
}

// Unlinker is implemented by backends that declare CapUnlink.
type Unlinker interface {
	// Unlink removes the file at name. Directories cannot be unlinked.
	Unlink(ctx context.Context, name string) error
}

// Copier is implemented by backends that declare CapCopyFile.
type Copier interface {
	// CopyFile copies the file at src to dst within the same backend,
	// replacing dst if it exists.
	CopyFile(ctx context.Context, src, dst string) error
}

// Toucher is implemented by writable backends that can set a file's
// modification time. It is not a capability; fixtures and CopyFromFS use it
// to preserve timestamps.
type Toucher interface {
	Chtimes(ctx context.Context, name string, mtime time.Time) error
}
