package core

import (
	"context"
	"time"

	"github.com/jmgilman/go/vfs/errors"
)

// CreateReadStream opens a stream on the file at name, or fails with
// UNSUPPORTED if b does not support streaming.
func CreateReadStream(ctx context.Context, b Backend, name string) (*Stream, error) {
	s, ok := b.(Streamer)
	if !ok || !b.Capabilities().Has(CapCreateReadStream) {
		return nil, Unsupported(b.Scheme(), CapCreateReadStream)
	}
	return s.CreateReadStream(ctx, name)
}

// WriteFile writes data to the file at name, or fails with UNSUPPORTED if b
// is not writable.
func WriteFile(ctx context.Context, b Backend, name string, data []byte) error {
	w, ok := b.(Writer)
	if !ok || !b.Capabilities().Has(CapWriteFile) {
		return Unsupported(b.Scheme(), CapWriteFile)
	}
	return w.WriteFile(ctx, name, data)
}

// Unlink removes the file at name, or fails with UNSUPPORTED if b cannot
// remove files.
func Unlink(ctx context.Context, b Backend, name string) error {
	u, ok := b.(Unlinker)
	if !ok || !b.Capabilities().Has(CapUnlink) {
		return Unsupported(b.Scheme(), CapUnlink)
	}
	return u.Unlink(ctx, name)
}

// Chtimes sets the modification time of the file at name, or fails with
// UNSUPPORTED if b cannot.
func Chtimes(ctx context.Context, b Backend, name string, mtime time.Time) error {
	t, ok := b.(Toucher)
	if !ok {
		return errors.WithContext(
			errors.PathError(errors.CodeUnsupported, "chtimes", CleanPath(name), "backend cannot set modification times"),
			"scheme", b.Scheme(),
		)
	}
	return t.Chtimes(ctx, name, mtime)
}

// Exists reports whether an entry exists at name. Errors other than
// NO_SUCH_FILE are returned.
func Exists(ctx context.Context, b Backend, name string) (bool, error) {
	_, err := b.Stat(ctx, name)
	if err == nil {
		return true, nil
	}
	if errors.GetCode(err) == errors.CodeNoSuchFile {
		return false, nil
	}
	return false, err
}
