package errors

import (
	"errors"
	"fmt"
)

// Wrap wraps an error with a code and message while preserving the original error.
// The wrapped error is accessible via Unwrap() and compatible with errors.Is and errors.As.
//
// If the wrapped error is an Error, its op, path and classification are
// inherited unless the new code has a different default classification.
//
// Returns nil if err is nil.
//
// Example:
//
//	if err != nil {
//	    return errors.Wrap(err, errors.CodeIOFailure, "list objects")
//	}
func Wrap(err error, code ErrorCode, message string) Error {
	if err == nil {
		return nil
	}

	wrapped := &vfsError{
		code:           code,
		classification: getDefaultClassification(code),
		message:        message,
		cause:          err,
	}

	var inner Error
	if errors.As(err, &inner) {
		wrapped.op = inner.Op()
		wrapped.path = inner.Path()
		if inner.Code() == code {
			wrapped.classification = inner.Classification()
		}
	}

	return wrapped
}

// Wrapf wraps an error with a formatted message while preserving the original error.
//
// Returns nil if err is nil.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) Error {
	if err == nil {
		return nil
	}

	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WrapPath wraps err and attributes it to an operation and path in one step.
//
// Returns nil if err is nil.
//
// Example:
//
//	if err != nil {
//	    return errors.WrapPath(err, errors.CodeIOFailure, "stat", name, "stat object")
//	}
func WrapPath(err error, code ErrorCode, op, path, message string) Error {
	if err == nil {
		return nil
	}

	return &vfsError{
		code:           code,
		classification: getDefaultClassification(code),
		op:             op,
		path:           path,
		message:        message,
		cause:          err,
	}
}
