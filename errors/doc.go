// Package errors provides the structured error taxonomy shared by every
// virtual filesystem backend.
//
// Every failed filesystem operation surfaces an Error carrying an ErrorCode
// (NO_SUCH_FILE, IS_A_DIRECTORY, UNSUPPORTED, ...), the operation and path
// that failed, a retry classification, and optional context metadata. The
// package stays compatible with the standard library errors package
// (errors.Is, errors.As, errors.Unwrap) and with the io/fs sentinels.
//
// # Creating errors
//
//	err := errors.New(errors.CodeNoSuchFile, "no such file")
//	err = errors.WithPath(err, "stat", "/lib/file2.txt")
//
// Wrapping a backend failure:
//
//	data, err := obj.Read(buf)
//	if err != nil {
//	    return errors.Wrap(err, errors.CodeIOFailure, "read object")
//	}
//
// # Matching
//
// Errors created by this package match by code, so a sentinel per code
// can be compared with errors.Is:
//
//	var ErrNoSuchFile = errors.New(errors.CodeNoSuchFile, "no such file")
//
//	if errors.Is(err, ErrNoSuchFile) {
//	    // handle missing file
//	}
//
// They also match the io/fs sentinels where one exists:
//
//	errors.Is(err, fs.ErrNotExist)   // NO_SUCH_FILE, NO_SUCH_DIRECTORY
//	errors.Is(err, fs.ErrExist)      // CONFLICT
//	errors.Is(err, fs.ErrPermission) // NOT_WRITABLE
//	errors.Is(err, fs.ErrClosed)     // CLOSED
//
// # Classification
//
// IO_FAILURE and NOT_READY are retryable; every other code is permanent.
// Nothing in this module retries on its own. IsRetryable exists so that
// callers can layer their own retry policy.
//
// # JSON
//
// ToJSON flattens any error into an ErrorResponse without exposing the
// wrapped chain.
package errors
