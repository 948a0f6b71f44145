package core

import (
	stderrors "errors"
	"io/fs"
	"syscall"

	"github.com/jmgilman/go/vfs/errors"
)

// Code sentinels. errors.Is matches any error in the taxonomy carrying the
// same code, regardless of message, operation or path.
var (
	// ErrNoSuchFile matches errors for missing entries.
	ErrNoSuchFile = errors.New(errors.CodeNoSuchFile, "no such file")

	// ErrNoSuchDirectory matches errors for missing directories.
	ErrNoSuchDirectory = errors.New(errors.CodeNoSuchDirectory, "no such directory")

	// ErrIsADirectory matches errors for file operations on directories.
	ErrIsADirectory = errors.New(errors.CodeIsADirectory, "is a directory")

	// ErrNotADirectory matches errors for directory operations on files.
	ErrNotADirectory = errors.New(errors.CodeNotADirectory, "not a directory")

	// ErrUnsupported matches errors for operations outside a backend's
	// capabilities.
	ErrUnsupported = errors.New(errors.CodeUnsupported, "operation not supported")

	// ErrNotReady matches errors for calls rejected before readiness.
	ErrNotReady = errors.New(errors.CodeNotReady, "backend not ready")

	// ErrClosed matches errors for calls on closed or failed backends.
	ErrClosed = errors.New(errors.CodeClosed, "backend closed")

	// ErrIOFailure matches errors for failures in the underlying storage.
	ErrIOFailure = errors.New(errors.CodeIOFailure, "i/o failure")

	// ErrConflict matches errors for writes onto existing entries and for
	// lifecycle misuse.
	ErrConflict = errors.New(errors.CodeConflict, "conflict")

	// ErrNotWritable matches errors for writes to read-only locations.
	ErrNotWritable = errors.New(errors.CodeNotWritable, "not writable")
)

// NoSuchFile returns a NO_SUCH_FILE error for op on name.
func NoSuchFile(op, name string) error {
	return errors.PathError(errors.CodeNoSuchFile, op, name, "no such file")
}

// NoSuchDirectory returns a NO_SUCH_DIRECTORY error for op on name.
func NoSuchDirectory(op, name string) error {
	return errors.PathError(errors.CodeNoSuchDirectory, op, name, "no such directory")
}

// IsADirectory returns an IS_A_DIRECTORY error for op on name.
func IsADirectory(op, name string) error {
	return errors.PathError(errors.CodeIsADirectory, op, name, "is a directory")
}

// NotADirectory returns a NOT_A_DIRECTORY error for op on name.
func NotADirectory(op, name string) error {
	return errors.PathError(errors.CodeNotADirectory, op, name, "not a directory")
}

// Unsupported returns an UNSUPPORTED error naming the missing capability.
func Unsupported(scheme string, capability Capability) error {
	err := errors.PathError(errors.CodeUnsupported, string(capability), "",
		"backend "+scheme+" does not support "+string(capability))
	return errors.WithContext(err, "scheme", scheme)
}

// IOFailure wraps cause as an IO_FAILURE for op on name.
func IOFailure(cause error, op, name string) error {
	return errors.WrapPath(cause, errors.CodeIOFailure, op, name, "i/o failure")
}

// TranslateError maps an error from the os, io/fs or go-billy packages into
// the taxonomy. Errors already in the taxonomy are attributed to op and name
// if they carry no path yet.
func TranslateError(err error, op, name string) error {
	if err == nil {
		return nil
	}
	var vfsErr errors.Error
	if stderrors.As(err, &vfsErr) {
		if vfsErr.Path() == "" {
			return errors.WithPath(vfsErr, op, name)
		}
		return err
	}
	switch {
	case stderrors.Is(err, fs.ErrNotExist), stderrors.Is(err, syscall.ENOTDIR):
		// A path below a regular file does not exist.
		return errors.WrapPath(err, errors.CodeNoSuchFile, op, name, "no such file")
	case stderrors.Is(err, fs.ErrExist):
		return errors.WrapPath(err, errors.CodeConflict, op, name, "already exists")
	case stderrors.Is(err, fs.ErrPermission):
		return errors.WrapPath(err, errors.CodeNotWritable, op, name, "permission denied")
	case stderrors.Is(err, fs.ErrClosed):
		return errors.WrapPath(err, errors.CodeClosed, op, name, "closed")
	case stderrors.Is(err, fs.ErrInvalid):
		return errors.WrapPath(err, errors.CodeInvalidInput, op, name, "invalid argument")
	default:
		return IOFailure(err, op, name)
	}
}
